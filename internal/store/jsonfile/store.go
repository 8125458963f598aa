package jsonfile

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/utils"
)

//go:embed schema.json
var schemaJSON []byte

// ErrInvalidDocument wraps every schema violation.
var ErrInvalidDocument = errors.New("portfolio document does not match schema")

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("schema.json")
	})
	return schema, schemaErr
}

// Store persists the portfolio document as a single JSON file.
// There is no locking between writers: the last Save wins.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads and validates the document. A missing file yields an empty
// document so a fresh deployment can be populated by its first import.
func (s *Store) Load(ctx context.Context) (*domain.PortfolioData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			data := &domain.PortfolioData{}
			data.Normalize()
			return data, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	if err := validate(raw); err != nil {
		return nil, err
	}

	var data domain.PortfolioData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	data.Normalize()
	return &data, nil
}

// Save normalizes, validates and atomically replaces the document.
// An invalid document is rejected before anything touches the disk.
func (s *Store) Save(ctx context.Context, data *domain.PortfolioData) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := data.Clone()
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode portfolio: %w", err)
	}
	if err := validate(raw); err != nil {
		return err
	}

	raw = append(raw, '\n')
	return utils.WriteFileAtomic(s.path, raw, 0o644)
}

func validate(raw []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}
