package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wherequery/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Resource string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded compilations",
		Long: `List compilations recorded with 'compile --record', oldest first.

Examples:
  wherequery history --db ./history.db
  wherequery history --db ./history.db --resource users --limit 5
  wherequery history --db ./history.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVarP(&opts.Resource, "resource", "r", "", "only list this resource")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "show the most recent N entries (0 for all)")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	entries, err := st.List(ctx, opts.Resource, opts.Limit)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to list compilations", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No compilations recorded")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "#%d %s [%s]\n", e.Seq, e.ID, e.Resource)
		fmt.Fprintf(formatter.Writer, "  filter: %s\n", e.Filter)
		fmt.Fprintf(formatter.Writer, "  sql:    %s\n", e.SQL)
		for _, d := range e.Diagnostics {
			fmt.Fprintf(formatter.Writer, "  [%s] %s\n", d.Type, d.Message)
		}
	}
	return nil
}
