package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/wherequery/internal/querysql"
	"github.com/roach88/wherequery/internal/store"
	"github.com/roach88/wherequery/internal/writer"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	InputOptions
	Output   string // output file path
	Database string // history database; empty disables recording
}

// compiled is a compiled query plus the filter text it came from.
type compiled struct {
	query      writer.Writer[querysql.Query]
	filterText string
}

// CompileResult is the compile command's output.
type CompileResult struct {
	Resource    string              `json:"resource"`
	SQL         string              `json:"sql"`
	Parameters  map[string]any      `json:"parameters"`
	ReturnOne   bool                `json:"returnOne"`
	Diagnostics []writer.Diagnostic `json:"diagnostics"`
	RecordID    string              `json:"recordId,omitempty"`
}

func newCompileResult(resource string, w writer.Writer[querysql.Query]) CompileResult {
	q, log := w.Read()
	return CompileResult{
		Resource:    resource,
		SQL:         q.SQL,
		Parameters:  q.Parameters,
		ReturnOne:   q.ReturnOne,
		Diagnostics: log,
	}
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a filter into a parameterized SELECT",
		Long: `Compile a filter into a parameterized SELECT statement.

Keys that are not allowed columns (or prefixed forms of them) are ignored
and reported as diagnostics. Compilation never fails because of a filter key.

Examples:
  wherequery compile --table users --columns id,name -q 'name=ann&like_name=an'
  wherequery compile --config ./resources --resource users -f filter.yaml
  wherequery compile --table users --columns id -q 'id=1' --record ./history.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), opts, cmd)
		},
	}

	opts.InputOptions.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Database, "record", "", "record the compilation in this SQLite database")

	return cmd
}

func runCompile(ctx context.Context, opts *CompileOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, c, err := opts.InputOptions.compileInput()
	if err != nil {
		return failInput(formatter, err)
	}
	formatter.VerboseLog("Compiled filter for %s (table %s, %d allowed column(s))", cfg.Name, cfg.Table, len(cfg.Columns))

	result := newCompileResult(cfg.Name, c.query)

	if opts.Database != "" {
		id, err := recordCompilation(ctx, opts.Database, cfg.Name, c)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to record compilation", err)
		}
		result.RecordID = id
		formatter.VerboseLog("Recorded compilation %s in %s", id, opts.Database)
	}

	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "writing output file", err)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

func recordCompilation(ctx context.Context, path, resource string, c *compiled) (string, error) {
	st, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer st.Close()

	entry, err := store.NewCompilation(resource, c.filterText, c.query)
	if err != nil {
		return "", err
	}
	entry, err = st.Record(ctx, entry)
	if err != nil {
		return "", err
	}
	return entry.ID, nil
}

// outputCompileSuccess prints the compiled statement, its parameters and
// diagnostics.
func outputCompileSuccess(formatter *OutputFormatter, result CompileResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, result.SQL)
	writeParameters(formatter, result.Parameters)
	writeDiagnostics(formatter, result.Diagnostics)

	if result.RecordID != "" {
		fmt.Fprintf(formatter.Writer, "\nRecorded as %s\n", result.RecordID)
	}
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote compiled query to %s\n", outputFile)
	}
	return nil
}

func writeParameters(formatter *OutputFormatter, params map[string]any) {
	if len(params) == 0 {
		return
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Fprintln(formatter.Writer, "\nParameters:")
	for _, name := range names {
		fmt.Fprintf(formatter.Writer, "  $%s = %s\n", name, formatParam(params[name]))
	}
}

func formatParam(v any) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func writeDiagnostics(formatter *OutputFormatter, log []writer.Diagnostic) {
	if len(log) == 0 {
		return
	}
	fmt.Fprintln(formatter.Writer, "\nDiagnostics:")
	for _, d := range log {
		fmt.Fprintf(formatter.Writer, "  [%s] %s\n", d.Type, strings.TrimSpace(d.Message))
	}
}

// writeResultToFile writes the compile result as indented JSON.
func writeResultToFile(result CompileResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
