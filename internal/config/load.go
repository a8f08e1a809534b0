// Package config loads resource definitions from CUE files.
//
// A resource names a table and the columns a filter may reference:
//
//	resource: users: {
//		table:     "public.users"
//		columns:   ["id", "name", "created_at"]
//		returnOne: false
//	}
//
// table defaults to the resource name. columns may be empty, in which case
// every filter on the resource is ignored.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/wherequery/internal/querysql"
)

// Error code constants for configuration loading.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeScanError       = "E002" // Directory scan error
	ErrCodeNoFiles         = "E003" // No CUE files found
	ErrCodeLoadFailed      = "E004" // CUE load failed
	ErrCodeNotFound        = "E005" // Path not found
	ErrCodeBuildFailed     = "E006" // CUE build failed
	ErrCodeNoResources     = "E201" // No resource definitions
	ErrCodeInvalidField    = "E202" // Field has the wrong type
	ErrCodeDuplicateColumn = "E203" // Column listed twice
	ErrCodeUnknownResource = "E204" // Resource lookup failed
)

// LoadError represents an error that occurred while loading resources.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Resources is the set of resources loaded from a directory.
type Resources struct {
	configs   []querysql.Config
	FileCount int // Number of CUE files found
}

// All returns every resource sorted by name.
func (r *Resources) All() []querysql.Config {
	return slices.Clone(r.configs)
}

// Lookup returns the resource named name.
func (r *Resources) Lookup(name string) (querysql.Config, error) {
	for _, cfg := range r.configs {
		if cfg.Name == name {
			return cfg, nil
		}
	}
	names := make([]string, len(r.configs))
	for i, cfg := range r.configs {
		names[i] = cfg.Name
	}
	return querysql.Config{}, &LoadError{
		Code:    ErrCodeUnknownResource,
		Message: fmt.Sprintf("unknown resource %q (available: %s)", name, strings.Join(names, ", ")),
	}
}

// Load reads every resource defined in the CUE files under dir.
// Loading stops at the first error.
func Load(dir string) (*Resources, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing config directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	resourcesVal := value.LookupPath(cue.ParsePath("resource"))
	if !resourcesVal.Exists() {
		return nil, &LoadError{Code: ErrCodeNoResources, Message: "no resource definitions found"}
	}

	iter, err := resourcesVal.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating resources: %v", err)}
	}

	result := &Resources{FileCount: len(cueFiles)}
	for iter.Next() {
		cfg, err := compileResource(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		result.configs = append(result.configs, cfg)
	}

	if len(result.configs) == 0 {
		return nil, &LoadError{Code: ErrCodeNoResources, Message: "no resource definitions found"}
	}

	slices.SortFunc(result.configs, func(a, b querysql.Config) int {
		return strings.Compare(a.Name, b.Name)
	})
	return result, nil
}

// compileResource extracts a querysql.Config from a resource value.
func compileResource(name string, v cue.Value) (querysql.Config, error) {
	cfg := querysql.Config{Name: name, Table: name}

	if tableVal := v.LookupPath(cue.ParsePath("table")); tableVal.Exists() {
		table, err := tableVal.String()
		if err != nil {
			return cfg, fieldError(name, "table", "must be a string", tableVal)
		}
		cfg.Table = table
	}

	if colsVal := v.LookupPath(cue.ParsePath("columns")); colsVal.Exists() {
		list, err := colsVal.List()
		if err != nil {
			return cfg, fieldError(name, "columns", "must be a list of strings", colsVal)
		}
		for list.Next() {
			col, err := list.Value().String()
			if err != nil {
				return cfg, fieldError(name, "columns", "must be a list of strings", list.Value())
			}
			if slices.Contains(cfg.Columns, col) {
				return cfg, &LoadError{
					Code:    ErrCodeDuplicateColumn,
					Message: fmt.Sprintf("resource.%s.columns: %q listed twice", name, col),
					Pos:     list.Value().Pos(),
				}
			}
			cfg.Columns = append(cfg.Columns, col)
		}
	}

	if oneVal := v.LookupPath(cue.ParsePath("returnOne")); oneVal.Exists() {
		one, err := oneVal.Bool()
		if err != nil {
			return cfg, fieldError(name, "returnOne", "must be a bool", oneVal)
		}
		cfg.ReturnOne = one
	}

	return cfg, nil
}

func fieldError(resource, field, msg string, v cue.Value) *LoadError {
	return &LoadError{
		Code:    ErrCodeInvalidField,
		Message: fmt.Sprintf("resource.%s.%s %s", resource, field, msg),
		Pos:     v.Pos(),
	}
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
