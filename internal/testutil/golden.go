package testutil

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/wherequery/internal/writer"
)

// RenderClause formats a compiled clause as the SQL line followed by one
// "[type] message" line per diagnostic.
func RenderClause(w writer.Writer[string]) []byte {
	sql, log := w.Read()
	var b bytes.Buffer
	b.WriteString(sql)
	b.WriteByte('\n')
	for _, d := range log {
		b.WriteString("[" + string(d.Type) + "] " + d.Message + "\n")
	}
	return b.Bytes()
}

// AssertGolden compares the rendered clause against
// testdata/golden/{name}.golden in the calling package.
//
// To regenerate golden files, run:
//
//	go test ./internal/wherequery -update
func AssertGolden(t *testing.T, name string, w writer.Writer[string]) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, RenderClause(w))
}
