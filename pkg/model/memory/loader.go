package memory

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-xmlform/pkg/model"
)

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Data       any               `json:"data" yaml:"data"`
	Schema     map[string]any    `json:"schema" yaml:"schema"`
	Violations []model.Violation `json:"violations" yaml:"violations"`
}

// Load parses a JSON or YAML document holding one or more forms. The source
// names the document in error messages.
func Load(data []byte, source string, options ...FormOption) (*Store, error) {
	store, err := NewStore()
	if err != nil {
		return nil, err
	}
	if err := loadInto(store, data, source, options); err != nil {
		return nil, err
	}
	return store, nil
}

// LoadFile reads a document from disk.
func LoadFile(path string, options ...FormOption) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("memory: read %s: %w", path, err)
	}
	return Load(data, path, options...)
}

// LoadFS walks fsys and loads every .json, .yaml and .yml document into one
// store. Form ids must be unique across files.
func LoadFS(fsys fs.FS, options ...FormOption) (*Store, error) {
	store, err := NewStore()
	if err != nil {
		return nil, err
	}
	if fsys == nil {
		return store, nil
	}

	err = fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDocumentFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("memory: read %s: %w", path, err)
		}
		return loadInto(store, data, path, options)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ParseForm decodes a single form document (data, schema, violations) as
// stored by backends that keep one form per record.
func ParseForm(id string, data []byte, source string, options ...FormOption) (*Form, error) {
	var file formFile
	if err := decode(data, source, &file); err != nil {
		return nil, err
	}
	return buildForm(id, file, source, options)
}

// SplitDocument breaks a multi-form document into one JSON document per form,
// in the shape ParseForm accepts. Backends storing one form per record use it
// to import documents.
func SplitDocument(data []byte, source string) (map[string][]byte, error) {
	var doc documentFile
	if err := decode(data, source, &doc); err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(doc.Forms))
	for rawID, file := range doc.Forms {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return nil, fmt.Errorf("memory: file %s defines an empty form id", source)
		}
		raw, err := json.Marshal(file)
		if err != nil {
			return nil, fmt.Errorf("memory: form %q in %s: encode: %w", id, source, err)
		}
		out[id] = raw
	}
	return out, nil
}

func loadInto(store *Store, data []byte, source string, options []FormOption) error {
	var doc documentFile
	if err := decode(data, source, &doc); err != nil {
		return err
	}
	for rawID, file := range doc.Forms {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("memory: file %s defines an empty form id", source)
		}
		form, err := buildForm(id, file, source, options)
		if err != nil {
			return err
		}
		if err := store.Register(form); err != nil {
			return fmt.Errorf("%w (file %s)", err, source)
		}
	}
	return nil
}

func buildForm(id string, file formFile, source string, options []FormOption) (*Form, error) {
	opts := make([]FormOption, 0, len(options)+2)
	if len(file.Schema) > 0 {
		raw, err := json.Marshal(file.Schema)
		if err != nil {
			return nil, fmt.Errorf("memory: form %q in %s: encode schema: %w", id, source, err)
		}
		schema, err := ParseSchema(raw)
		if err != nil {
			return nil, fmt.Errorf("memory: form %q in %s: %w", id, source, err)
		}
		opts = append(opts, WithSchema(schema))
	}
	if len(file.Violations) > 0 {
		opts = append(opts, WithViolations(file.Violations...))
	}
	opts = append(opts, options...)
	return NewForm(id, file.Data, opts...)
}

func decode(data []byte, source string, target any) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return fmt.Errorf("memory: file %s is empty", source)
	}
	if err := json.Unmarshal(data, target); err == nil {
		return nil
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("memory: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return nil
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
