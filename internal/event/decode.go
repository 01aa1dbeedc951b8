package event

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

// Format selects the encoding of an event file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads every record in r.
func Decode(r io.Reader, format Format) ([]*Record, error) {
	switch format {
	case FormatYAML:
		return decodeYAML(r)
	default:
		return decodeJSON(r)
	}
}

// LoadFile reads every record in the file at path.
func LoadFile(path string) ([]*Record, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open event file: %w", err)
	}
	defer f.Close()

	records, err := Decode(f, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}

func decodeJSON(r io.Reader) ([]*Record, error) {
	dec := json.NewDecoder(r)
	var out []*Record
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("read JSON value: %w", err)
		}

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var list []*Record
			if err := json.Unmarshal(trimmed, &list); err != nil {
				return nil, fmt.Errorf("parse record list: %w", err)
			}
			out = append(out, list...)
			continue
		}

		rec := &Record{}
		if err := json.Unmarshal(trimmed, rec); err != nil {
			return nil, fmt.Errorf("parse record: %w", err)
		}
		out = append(out, rec)
	}
}

func decodeYAML(r io.Reader) ([]*Record, error) {
	dec := yaml.NewDecoder(r)
	var out []*Record
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("read YAML document: %w", err)
		}

		node := &doc
		if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
			node = node.Content[0]
		}

		if node.Kind == yaml.SequenceNode {
			var list []*Record
			if err := node.Decode(&list); err != nil {
				return nil, fmt.Errorf("parse record list: %w", err)
			}
			out = append(out, list...)
			continue
		}

		rec := &Record{}
		if err := node.Decode(rec); err != nil {
			return nil, fmt.Errorf("parse record: %w", err)
		}
		out = append(out, rec)
	}
}
