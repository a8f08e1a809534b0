package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/wherequery/internal/config"
	"github.com/roach88/wherequery/internal/filter"
	"github.com/roach88/wherequery/internal/querysql"
)

// InputOptions selects the resource and the filter for a command.
type InputOptions struct {
	ConfigDir  string
	Resource   string
	Table      string
	Columns    []string
	ReturnOne  bool
	Query      string
	FilterFile string
}

func (o *InputOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.ConfigDir, "config", "c", "", "directory of CUE resource definitions")
	cmd.Flags().StringVarP(&o.Resource, "resource", "r", "", "resource name from --config")
	cmd.Flags().StringVar(&o.Table, "table", "", "table to query (instead of --config)")
	cmd.Flags().StringSliceVar(&o.Columns, "columns", nil, "allowed filter columns, in match order")
	cmd.Flags().BoolVar(&o.ReturnOne, "one", false, "return a single row")
	cmd.Flags().StringVarP(&o.Query, "query", "q", "", "filter as a URL query string")
	cmd.Flags().StringVarP(&o.FilterFile, "filter-file", "f", "", "filter as a JSON or YAML file")
}

// inputError is a resolution failure with the code to report it under.
type inputError struct {
	code string
	msg  string
	err  error
}

func (e *inputError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *inputError) Unwrap() error {
	return e.err
}

// resolveConfig returns the resource the command operates on. --config
// and --table are mutually exclusive.
func (o *InputOptions) resolveConfig() (querysql.Config, error) {
	switch {
	case o.ConfigDir != "" && o.Table != "":
		return querysql.Config{}, &inputError{code: ErrCodeUsage, msg: "--config and --table cannot be used together"}

	case o.ConfigDir != "":
		if o.Resource == "" {
			return querysql.Config{}, &inputError{code: ErrCodeUsage, msg: "--resource is required with --config"}
		}
		resources, err := config.Load(o.ConfigDir)
		if err != nil {
			return querysql.Config{}, &inputError{code: loadErrorCode(err), msg: "failed to load config", err: err}
		}
		cfg, err := resources.Lookup(o.Resource)
		if err != nil {
			return querysql.Config{}, &inputError{code: loadErrorCode(err), msg: "failed to resolve resource", err: err}
		}
		return cfg, nil

	case o.Table != "":
		name := o.Resource
		if name == "" {
			name = o.Table
		}
		return querysql.Config{
			Name:      name,
			Table:     o.Table,
			Columns:   o.Columns,
			ReturnOne: o.ReturnOne,
		}, nil

	default:
		return querysql.Config{}, &inputError{code: ErrCodeUsage, msg: "one of --config or --table is required"}
	}
}

// readFilter parses the filter given by --query or --filter-file and returns
// it together with its source text. No filter yields an empty Filter.
func (o *InputOptions) readFilter() (*filter.Filter, string, error) {
	if o.Query != "" && o.FilterFile != "" {
		return nil, "", &inputError{code: ErrCodeUsage, msg: "--query and --filter-file cannot be used together"}
	}

	if o.FilterFile == "" {
		f, err := filter.ParseQuery(o.Query)
		if err != nil {
			return nil, "", &inputError{code: ErrCodeInvalidFilter, msg: "invalid query string", err: err}
		}
		return f, o.Query, nil
	}

	data, err := os.ReadFile(o.FilterFile)
	if err != nil {
		return nil, "", &inputError{code: ErrCodeInvalidFilter, msg: "failed to read filter file", err: err}
	}

	var f *filter.Filter
	switch strings.ToLower(filepath.Ext(o.FilterFile)) {
	case ".json":
		f, err = filter.ParseJSON(data)
	case ".yaml", ".yml":
		f, err = filter.ParseYAML(data)
	default:
		return nil, "", &inputError{
			code: ErrCodeInvalidFilter,
			msg:  fmt.Sprintf("unsupported filter file extension %q (want .json, .yaml or .yml)", filepath.Ext(o.FilterFile)),
		}
	}
	if err != nil {
		return nil, "", &inputError{code: ErrCodeInvalidFilter, msg: "invalid filter file", err: err}
	}
	return f, string(data), nil
}

// compileInput resolves the resource and filter and compiles them.
func (o *InputOptions) compileInput() (querysql.Config, *compiled, error) {
	cfg, err := o.resolveConfig()
	if err != nil {
		return querysql.Config{}, nil, err
	}
	f, text, err := o.readFilter()
	if err != nil {
		return querysql.Config{}, nil, err
	}
	w, err := querysql.NewCompiler(cfg).Compile(f)
	if err != nil {
		return querysql.Config{}, nil, &inputError{code: ErrCodeCompile, msg: "failed to compile filter", err: err}
	}
	return cfg, &compiled{query: w, filterText: text}, nil
}

func loadErrorCode(err error) string {
	var loadErr *config.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return config.ErrCodeGeneric
}

// failInput reports an input resolution error through out.
func failInput(out *OutputFormatter, err error) error {
	var ie *inputError
	if errors.As(err, &ie) {
		return out.Fail(ExitCommandError, ie.code, ie.msg, ie.err)
	}
	return out.Fail(ExitCommandError, config.ErrCodeGeneric, "invalid input", err)
}
