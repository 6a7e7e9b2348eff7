// Package modelfile reads and writes portable model configuration files:
// JSON documents holding a rule store's schemas and training history.
package modelfile

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fwojciec/labdoc"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// Export writes the store's schemas and full training history to w.
func Export(w io.Writer, store labdoc.RuleStore) error {
	cfg := labdoc.ModelConfig{
		Version:         labdoc.ModelConfigVersion,
		ExportedAt:      time.Now().UTC(),
		Schemas:         store.Schemas(),
		TrainingHistory: store.History(""),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return nil
}

// Decode reads a model configuration from r. Returns EINVALID if the
// document does not match the model file schema and EPATTERN if any
// pattern is unusable.
func Decode(r io.Reader) (*labdoc.ModelConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, labdoc.Errorf(labdoc.EINVALID, "model file is not valid JSON: %s", err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, labdoc.Errorf(labdoc.EINVALID, "model file does not match schema: %s", err)
	}

	var cfg labdoc.ModelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, labdoc.Errorf(labdoc.EINVALID, "invalid model file: %s", err)
	}
	if cfg.Version != labdoc.ModelConfigVersion {
		return nil, labdoc.Errorf(labdoc.EINVALID, "unsupported model file version %q", cfg.Version)
	}

	seen := make(map[labdoc.DocType]bool, len(cfg.Schemas))
	for _, s := range cfg.Schemas {
		if s.Fields == nil {
			s.Fields = []labdoc.FieldRule{}
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if seen[s.DocType] {
			return nil, labdoc.Errorf(labdoc.EINVALID, "duplicate schema %q", s.DocType)
		}
		seen[s.DocType] = true
	}

	return &cfg, nil
}

// Import decodes a model configuration from r and replaces the matching
// schemas in store in a single write. Imported training history is not
// replayed. Returns the number of schemas applied, which is zero on error.
func Import(ctx context.Context, r io.Reader, store labdoc.RuleStore) (int, error) {
	cfg, err := Decode(r)
	if err != nil {
		return 0, err
	}
	if err := store.PutSchemas(ctx, cfg.Schemas...); err != nil {
		return 0, fmt.Errorf("failed to import schemas: %w", err)
	}
	return len(cfg.Schemas), nil
}
