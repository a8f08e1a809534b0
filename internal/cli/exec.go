package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/wherequery/internal/pgexec"
	"github.com/roach88/wherequery/internal/wherequery"
)

// DSNEnv is the environment variable read when --dsn is not given.
const DSNEnv = "WHEREQUERY_DSN"

// ExecOptions holds flags for the exec command.
type ExecOptions struct {
	*RootOptions
	InputOptions
	DSN string
}

// ExecResult is the exec command's JSON output.
type ExecResult struct {
	SQL     string           `json:"sql"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExecOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Compile a filter and run it against Postgres",
		Long: `Compile a filter and run the resulting SELECT against Postgres.

Diagnostics are logged to stderr; rows are written to stdout.

Examples:
  wherequery exec --dsn postgres://localhost/app --table users --columns id,name -q 'name=ann'
  WHEREQUERY_DSN=postgres://localhost/app wherequery exec -c ./resources -r users -f filter.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd.Context(), opts, cmd)
		},
	}

	opts.InputOptions.addFlags(cmd)
	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "Postgres connection string (default $"+DSNEnv+")")

	return cmd
}

func runExec(ctx context.Context, opts *ExecOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	dsn := opts.DSN
	if dsn == "" {
		dsn = os.Getenv(DSNEnv)
	}
	if dsn == "" {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, "--dsn or $"+DSNEnv+" is required", nil)
	}

	cfg, c, err := opts.InputOptions.compileInput()
	if err != nil {
		return failInput(formatter, err)
	}

	q, log := c.query.Read()
	wherequery.LogDiagnostics(ctx, formatter.Logger().With("resource", cfg.Name), log)
	formatter.VerboseLog("Executing: %s", q.SQL)

	exec, err := pgexec.Open(ctx, dsn)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to connect", err)
	}
	defer exec.Close()

	res, err := exec.Run(ctx, q)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeDatabase, "query failed", err)
	}

	if formatter.Format == "json" {
		rows := res.Rows
		if rows == nil {
			rows = []map[string]any{}
		}
		return formatter.Success(ExecResult{SQL: q.SQL, Columns: res.Columns, Rows: rows})
	}

	return writeRows(formatter, res)
}

// writeRows prints res as an aligned table followed by a row count.
func writeRows(formatter *OutputFormatter, res *pgexec.Result) error {
	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(res.Columns, "\t"))
	for _, row := range res.Rows {
		cells := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			cells[i] = formatCell(row[col])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	suffix := "rows"
	if len(res.Rows) == 1 {
		suffix = "row"
	}
	fmt.Fprintf(formatter.Writer, "(%d %s)\n", len(res.Rows), suffix)
	return nil
}

func formatCell(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
