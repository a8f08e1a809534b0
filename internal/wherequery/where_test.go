package wherequery

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wherequery/internal/filter"
	"github.com/roach88/wherequery/internal/testutil"
	"github.com/roach88/wherequery/internal/writer"
)

func referenceFilter() (*filter.Filter, []string) {
	return testutil.ReferenceFilter(), testutil.ReferenceColumns()
}

func TestWhereQuery(t *testing.T) {
	f, cols := referenceFilter()

	sql, log := WhereQuery(f, cols).Read()

	assert.Equal(t, strings.Join([]string{
		"WHERE column1 = $column1",
		"AND column2::timestamp <= $to_column2::timestamp",
		"AND column3::timestamp >= $from_column3::timestamp",
		"AND column4 IN ($column41, $column42)",
		"AND column5::text ILIKE $like_column5",
		"AND table.column6 = $table__column6",
		"AND column7 != $not_column7",
		"AND column9::text NOT ILIKE $not_like_column9",
		"AND (column1::text ILIKE $match",
		"OR column2::text ILIKE $match",
		"OR column3::text ILIKE $match",
		"OR column4::text ILIKE $match",
		"OR column5::text ILIKE $match",
		"OR table.column6::text ILIKE $match",
		"OR column7::text ILIKE $match",
		"OR column9::text ILIKE $match)",
	}, " "), sql)
	assert.Equal(t, []writer.Diagnostic{{
		Type:    writer.TypeIgnoring,
		Message: "Ignoring columns: [ignored, column8]. Allowed columns: [column1, column2, column3, column4, column5, table.column6, column7, column9]",
	}}, log)
}

func TestWhereQuery_NoAllowedColumns(t *testing.T) {
	f, _ := referenceFilter()

	sql, log := WhereQuery(f, []string{}).Read()

	assert.Equal(t, "", sql)
	assert.Equal(t, []writer.Diagnostic{{
		Type:    writer.TypeNoSearchable,
		Message: "There are no allowed columns, all columns will be ignored",
	}}, log)
}

func TestWhereQuery_NoAllowedColumnsIgnoresFilter(t *testing.T) {
	for _, f := range []*filter.Filter{nil, filter.New(), filter.New(filter.P("match", filter.String("x")))} {
		sql, log := WhereQuery(f, nil).Read()
		assert.Equal(t, "", sql)
		require.Len(t, log, 1)
		assert.Equal(t, writer.TypeNoSearchable, log[0].Type)
	}
}

func TestWhereQuery_SimpleExample(t *testing.T) {
	f := filter.New(
		filter.P("column1", filter.Int(1)),
		filter.P("to_column2", filter.NewTime(time.UnixMilli(500))),
	)

	sql, log := WhereQuery(f, []string{"column1", "column2"}).Read()

	assert.Equal(t, "WHERE column1 = $column1 AND column2::timestamp <= $to_column2::timestamp", sql)
	assert.Empty(t, log)
}

func TestWhereQuery_AllDiscarded(t *testing.T) {
	f := filter.New(filter.P("unknown", filter.String("x")))

	sql, log := WhereQuery(f, []string{"column1"}).Read()

	assert.Equal(t, "", sql)
	require.Len(t, log, 1)
	assert.Equal(t, writer.TypeIgnoring, log[0].Type)
	assert.Contains(t, log[0].Message, "unknown")
}

func TestWhereQuery_EmptyFilter(t *testing.T) {
	sql, log := WhereQuery(filter.New(), []string{"column1"}).Read()

	assert.Equal(t, "", sql)
	assert.Empty(t, log)
}

func TestWhereQuery_MatchOnlyStartsWithWhere(t *testing.T) {
	f := filter.New(filter.P("match", filter.String("%a%")))

	sql, _ := WhereQuery(f, []string{"a", "b"}).Read()

	assert.Equal(t, "WHERE (a::text ILIKE $match OR b::text ILIKE $match)", sql)
}

func TestWhereQuery_WarningsPrecedeIgnoringSummary(t *testing.T) {
	f := filter.New(
		filter.P("nope", filter.Int(1)),
		filter.P("status", filter.String("IS NOT NULL")),
	)

	sql, log := WhereQuery(f, []string{"status"}).Read()

	assert.Equal(t, "WHERE status IS NOT NULL", sql)
	require.Len(t, log, 2)
	assert.Equal(t, writer.TypeWarn, log[0].Type)
	assert.Equal(t, writer.TypeIgnoring, log[1].Type)
	assert.Equal(t, "Ignoring columns: [nope]. Allowed columns: [status]", log[1].Message)
}

func TestWhereQuery_Idempotent(t *testing.T) {
	f, cols := referenceFilter()

	sql1, log1 := WhereQuery(f, cols).Read()
	sql2, log2 := WhereQuery(f, cols).Read()

	assert.Equal(t, sql1, sql2)
	assert.Equal(t, log1, log2)
}

func TestWhereQuery_OnlyAllowedColumnsReferenced(t *testing.T) {
	f := filter.New(
		filter.P("a", filter.Int(1)),
		filter.P("like_b", filter.String("x")),
		filter.P("secret", filter.String("x")),
		filter.P("from_secret", filter.String("x")),
		filter.P("not_like_secret", filter.String("x")),
	)

	sql, _ := WhereQuery(f, []string{"a", "b"}).Read()

	assert.Equal(t, "WHERE a = $a AND b::text ILIKE $like_b", sql)
	assert.NotContains(t, sql, "secret")
}

func TestSortQueryType(t *testing.T) {
	f := filter.New(
		filter.P("column1", filter.Int(1)),
		filter.P("column5", filter.Int(6)),
		filter.P("from_column3", filter.Int(3)),
		filter.P("like_column4", filter.Int(4)),
		filter.P("match", filter.Int(5)),
		filter.P("to_column2", filter.Int(2)),
	)

	entries := SortQueryType(f, []string{"column1", "column2", "column3", "column4"})

	type read struct {
		value Entry
		log   []writer.Diagnostic
	}
	var got []read
	for _, w := range entries {
		v, l := w.Read()
		got = append(got, read{v, l})
	}

	assert.Equal(t, []read{
		{Entry{Type: TypeQuery, Col: "column1", Value: filter.Int(1)}, []writer.Diagnostic{}},
		{Entry{Type: TypeDiscarded, Col: "column5", Value: filter.Int(6)}, []writer.Diagnostic{ignoring("column5")}},
		{Entry{Type: TypeFrom, Col: "from_column3", Value: filter.Int(3)}, []writer.Diagnostic{}},
		{Entry{Type: TypeLike, Col: "like_column4", Value: filter.Int(4)}, []writer.Diagnostic{}},
		{Entry{Type: TypeMatch, Col: "match", Value: filter.Int(5)}, []writer.Diagnostic{}},
		{Entry{Type: TypeTo, Col: "to_column2", Value: filter.Int(2)}, []writer.Diagnostic{}},
	}, got)
}

func TestLogDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))

	LogDiagnostics(context.Background(), logger, []writer.Diagnostic{
		{Type: writer.TypeWarn, Message: "old"},
		{Type: writer.TypeIgnoring, Message: "skipped"},
	})

	assert.Equal(t,
		"level=WARN msg=\"filter diagnostic\" type=warn message=old\n"+
			"level=INFO msg=\"filter diagnostic\" type=ignoring message=skipped\n",
		buf.String())
}

func TestLogDiagnostics_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogDiagnostics(context.Background(), nil, []writer.Diagnostic{{Type: writer.TypeWarn}})
	})
}

func TestWhereQuery_Golden(t *testing.T) {
	t.Run("reference_filter", func(t *testing.T) {
		f, cols := referenceFilter()
		testutil.AssertGolden(t, "reference_filter", WhereQuery(f, cols))
	})

	t.Run("null_checks", func(t *testing.T) {
		f := filter.New(
			filter.P("status", filter.String("IS_NULL")),
			filter.P("not_deleted_at", filter.Null{}),
			filter.P("name", filter.Null{}),
			filter.P("unknown", filter.Int(1)),
			filter.P("like_name", filter.String("%a%")),
		)
		testutil.AssertGolden(t, "null_checks", WhereQuery(f, []string{"status", "deleted_at", "name"}))
	})
}

func TestWhereQuery_DecomposedWhitelist(t *testing.T) {
	decomposed := "pre\u0301nom"
	f := filter.New(
		filter.P(decomposed, filter.String("ann")),
		filter.P("not_"+decomposed, filter.Null{}),
	)

	sql, log := WhereQuery(f, []string{decomposed}).Read()

	assert.Equal(t, "WHERE pr\u00e9nom = $pr\u00e9nom AND pr\u00e9nom IS NOT NULL", sql)
	assert.Empty(t, log)
}
