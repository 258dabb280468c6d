// Package input reads record documents for the calculate commands and checks
// them against the expected JSON schema.
package input

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// maxDocumentBytes bounds how much input is read into memory (64 MB).
const maxDocumentBytes = 64 << 20

//go:embed schema/*.json
var schemaFS embed.FS

// Sentinel errors.
var (
	ErrInvalidDocument = errors.New("invalid document")
	ErrTooLarge        = errors.New("document exceeds maximum size")
	ErrEmptyDocument   = errors.New("empty document")
)

// Format is the encoding of an input document.
type Format int

// Formats.
const (
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

// Document is a decoded input file.
type Document struct {
	// Label names the source in messages ("stdin" or the path).
	Label string
	// Items holds the top-level array elements.
	Items []any
}

// Open returns a reader for path, or stdin when path is "-".
func Open(path string, stdin io.Reader) (io.ReadCloser, string, error) {
	if path == Stdin {
		return io.NopCloser(stdin), "stdin", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, path, fmt.Errorf("open input: %w", err)
	}

	return f, path, nil
}

// Load reads and decodes the document at path, or stdin when path is "-".
func Load(path string, stdin io.Reader) (*Document, error) {
	rc, label, err := Open(path, stdin)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", label, err)
	}

	if len(data) > maxDocumentBytes {
		return nil, fmt.Errorf("%s: %w", label, ErrTooLarge)
	}

	items, err := Decode(data, formatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}

	return &Document{Label: label, Items: items}, nil
}

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// Decode parses data as a top-level array. JSON numbers are kept as
// json.Number so integers survive exactly. FormatAuto treats input that
// starts with '[' as JSON and anything else as YAML.
func Decode(data []byte, format Format) ([]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyDocument
	}

	if format == FormatAuto {
		format = FormatYAML
		if trimmed[0] == '[' {
			format = FormatJSON
		}
	}

	var doc any

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()

		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: json: %w", ErrInvalidDocument, err)
		}
	default:
		if err := yaml.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: yaml: %w", ErrInvalidDocument, err)
		}
	}

	items, ok := normalize(doc).([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be a list, got %T", ErrInvalidDocument, doc)
	}

	return items, nil
}

// ValidateRecords checks that every item is an object carrying each of the
// required fields.
func ValidateRecords(items []any, required ...string) error {
	schema, err := loadSchema("records.json")
	if err != nil {
		return err
	}

	if len(required) > 0 {
		itemSchema, _ := schema["items"].(map[string]any)
		itemSchema["required"] = required
	}

	return validate(gojsonschema.NewGoLoader(schema), items)
}

// ValidateNumbers checks that items is a flat list of numbers.
func ValidateNumbers(items []any) error {
	schema, err := loadSchema("numbers.json")
	if err != nil {
		return err
	}

	return validate(gojsonschema.NewGoLoader(schema), items)
}

func loadSchema(name string) (map[string]any, error) {
	raw, err := schemaFS.ReadFile("schema/" + name)
	if err != nil {
		return nil, fmt.Errorf("read embedded schema: %w", err)
	}

	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("parse embedded schema %s: %w", name, err)
	}

	return schema, nil
}

func validate(schema gojsonschema.JSONLoader, items []any) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(items))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		msgs = append(msgs, verr.Field()+": "+verr.Description())
	}

	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}

// normalize converts YAML's map[any]any into string-keyed maps so decoded
// items work as records and marshal cleanly.
func normalize(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}

		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}

		return out
	default:
		return v
	}
}
