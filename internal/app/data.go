package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadData reads a data file. Files ending in .yaml or .yml are YAML, anything
// else is JSON. An empty path yields an empty object.
func LoadData(path string) (any, error) {
	if path == "" {
		return map[string]any{}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file %s: %w", path, err)
	}
	data, err := ParseData(content, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}
	return data, nil
}

// ParseData decodes content in the format implied by name's extension.
// Integral JSON numbers decode as int64, other numbers as float64.
func ParseData(content []byte, name string) (any, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		var data any
		if err := yaml.Unmarshal(content, &data); err != nil {
			return nil, err
		}
		if data == nil {
			return map[string]any{}, nil
		}
		return data, nil
	default:
		dec := json.NewDecoder(bytes.NewReader(content))
		dec.UseNumber()
		var data any
		if err := dec.Decode(&data); err != nil {
			return nil, err
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return nil, errors.New("unexpected content after top-level value")
		}
		return normalizeNumbers(data), nil
	}
}

func normalizeNumbers(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		for k, child := range tv {
			tv[k] = normalizeNumbers(child)
		}
		return tv
	case []any:
		for i, child := range tv {
			tv[i] = normalizeNumbers(child)
		}
		return tv
	case json.Number:
		if n, err := tv.Int64(); err == nil {
			return n
		}
		if f, err := tv.Float64(); err == nil {
			return f
		}
		return tv.String()
	default:
		return v
	}
}
