package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// SchemaSet holds the compiled request body schemas keyed by file name
// without extension ("unit_create").
type SchemaSet struct {
	schemas map[string]*jsonschema.Schema
}

// LoadSchemas compiles every embedded schema.
func LoadSchemas() (*SchemaSet, error) {
	return loadSchemas(schemaFS, "schemas")
}

func loadSchemas(fsys fs.FS, dir string) (*SchemaSet, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}

	set := &SchemaSet{schemas: make(map[string]*jsonschema.Schema, len(entries))}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(raw, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		set.schemas[strings.TrimSuffix(e.Name(), ".json")] = rs
	}
	return set, nil
}

// Has reports whether a schema is registered under name.
func (s *SchemaSet) Has(name string) bool {
	_, ok := s.schemas[name]
	return ok
}

// Validate checks doc against the named schema. A non-nil error means doc is
// not JSON or the schema is unknown; problems lists schema violations.
func (s *SchemaSet) Validate(ctx context.Context, name string, doc []byte) ([]string, error) {
	rs, ok := s.schemas[name]
	if !ok {
		return nil, fmt.Errorf("no schema named %q", name)
	}
	verrs, err := rs.ValidateBytes(ctx, doc)
	if err != nil {
		return nil, err
	}
	if len(verrs) == 0 {
		return nil, nil
	}
	problems := make([]string, 0, len(verrs))
	for _, v := range verrs {
		loc := v.PropertyPath
		if loc == "" {
			loc = "/"
		}
		problems = append(problems, loc+": "+v.Message)
	}
	return problems, nil
}
