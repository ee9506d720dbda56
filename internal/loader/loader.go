// Package loader provides ConfigLoader implementations that read machine
// configurations from JSON or YAML documents, files, or memory.
package loader

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

	"github.com/comalice/tablefsm/internal/primitives"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for extensions or formats that are neither JSON nor YAML.
var ErrUnknownFormat = errors.New("unknown config format")

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Decode parses data in the given format and validates the result.
// Unknown fields are rejected so that typos in a table do not silently drop
// a column.
func Decode(data []byte, format Format) (primitives.MachineConfig, error) {
	var config primitives.MachineConfig
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&config); err != nil {
			return primitives.MachineConfig{}, fmt.Errorf("json unmarshal: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&config); err != nil {
			if errors.Is(err, io.EOF) {
				return primitives.MachineConfig{}, errors.New("yaml unmarshal: empty document")
			}
			return primitives.MachineConfig{}, fmt.Errorf("yaml unmarshal: %w", err)
		}
	default:
		return primitives.MachineConfig{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := config.Validate(); err != nil {
		return primitives.MachineConfig{}, err
	}
	return config, nil
}

// Encode serializes config in the given format.
func Encode(config primitives.MachineConfig, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(config, "", "  ")
	case FormatYAML:
		return yaml.Marshal(config)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FileLoader reads a config file whose format is picked by extension
// (.json, .yaml, .yml) unless Format is set.
type FileLoader struct {
	Path   string
	Format Format
}

// NewFileLoader creates a FileLoader inferring the format from path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// NewJSONFileLoader creates a loader for a JSON file regardless of extension.
func NewJSONFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path, Format: FormatJSON}
}

// NewYAMLFileLoader creates a loader for a YAML file regardless of extension.
func NewYAMLFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path, Format: FormatYAML}
}

func (l *FileLoader) Load() (primitives.MachineConfig, error) {
	format := l.Format
	if format == "" {
		f, err := FormatFromPath(l.Path)
		if err != nil {
			return primitives.MachineConfig{}, primitives.NewConfigError(l.Path, err)
		}
		format = f
	}

	data, err := os.ReadFile(l.Path)
	if err != nil {
		return primitives.MachineConfig{}, primitives.NewConfigError(l.Path, fmt.Errorf("read %s: %w", l.Path, err))
	}

	config, err := Decode(data, format)
	if err != nil {
		return primitives.MachineConfig{}, primitives.NewConfigError(l.Path, err)
	}
	return config, nil
}

// ReaderLoader decodes a config from an io.Reader, e.g. an embedded file or a
// network body.
type ReaderLoader struct {
	Reader io.Reader
	Format Format
	Name   string
}

// NewReaderLoader creates a ReaderLoader.
func NewReaderLoader(r io.Reader, format Format) *ReaderLoader {
	return &ReaderLoader{Reader: r, Format: format, Name: "reader"}
}

func (l *ReaderLoader) Load() (primitives.MachineConfig, error) {
	if l.Reader == nil {
		return primitives.MachineConfig{}, primitives.NewConfigError(l.Name, errors.New("nil reader"))
	}
	data, err := io.ReadAll(l.Reader)
	if err != nil {
		return primitives.MachineConfig{}, primitives.NewConfigError(l.Name, fmt.Errorf("read: %w", err))
	}
	config, err := Decode(data, l.Format)
	if err != nil {
		return primitives.MachineConfig{}, primitives.NewConfigError(l.Name, err)
	}
	return config, nil
}

// StaticLoader returns an in-memory config.
type StaticLoader struct {
	Config primitives.MachineConfig
}

// NewStaticLoader creates a StaticLoader for config.
func NewStaticLoader(config primitives.MachineConfig) *StaticLoader {
	return &StaticLoader{Config: config}
}

func (l *StaticLoader) Load() (primitives.MachineConfig, error) {
	config := l.Config.Clone()
	if err := config.Validate(); err != nil {
		return primitives.MachineConfig{}, primitives.NewConfigError("static", err)
	}
	return config, nil
}
