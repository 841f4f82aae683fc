// Package config persists the key range to disk.
//
// The file format is picked from the path's extension: .toml and .yaml/.yml
// are supported alongside the default pretty-printed JSON. All encodings
// use the field names min_key and max_key.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/state"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the range is kept when no path is given.
const DefaultPath = "config.json"

// FileMode is given to a config file this package creates.
const FileMode fs.FileMode = 0o644

// DefaultRange is used when the file is missing or unreadable.
var DefaultRange = state.Range{Min: 1, Max: 9}

var ErrInvalidRange = errors.New("config: key range out of bounds")

// File is the on-disk representation.
type File struct {
	MinKey int `json:"min_key" toml:"min_key" yaml:"min_key"`
	MaxKey int `json:"max_key" toml:"max_key" yaml:"max_key"`
}

// rawFile tells a missing field apart from a zero one.
type rawFile struct {
	MinKey *int `json:"min_key" toml:"min_key" yaml:"min_key"`
	MaxKey *int `json:"max_key" toml:"max_key" yaml:"max_key"`
}

var errMissingField = errors.New("min_key and max_key are required")

// Store loads and saves a Range at a fixed path.
type Store struct {
	path string
	lg   *slog.Logger
}

func NewStore(path string, lg *slog.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	if lg == nil {
		lg = slog.Default()
	}
	return &Store{path: path, lg: lg.With("component", "config", "path", path)}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the stored range. It never fails: a missing, malformed or
// out-of-range file is replaced with DefaultRange, which is written back.
// A failure to write the default is logged and the default still returned.
func (s *Store) Load() state.Range {
	r, err := s.read()
	if err == nil {
		s.lg.Debug("loaded key range", "range", r)
		return r
	}

	if errors.Is(err, os.ErrNotExist) {
		s.lg.Info("no config file, writing defaults", "range", DefaultRange)
	} else {
		s.lg.Warn("can't read config, replacing with defaults", "err", err, "range", DefaultRange)
	}

	if err := s.Save(DefaultRange); err != nil {
		s.lg.Error("can't persist default config", "err", err)
	}
	return DefaultRange
}

func (s *Store) read() (state.Range, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return state.Range{}, err
	}

	var f rawFile
	if err := decode(format(s.path), data, &f); err != nil {
		return state.Range{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if f.MinKey == nil || f.MaxKey == nil {
		return state.Range{}, fmt.Errorf("decode %s: %w", s.path, errMissingField)
	}

	r := state.Range{Min: *f.MinKey, Max: *f.MaxKey}
	if !r.Valid() {
		return state.Range{}, fmt.Errorf("%w: %v", ErrInvalidRange, r)
	}
	return r, nil
}

// Save writes r atomically. Inverted ranges are accepted.
func (s *Store) Save(r state.Range) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidRange, r)
	}

	data, err := encode(format(s.path), File{MinKey: r.Min, MaxKey: r.Max})
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	_, statErr := os.Stat(s.path)
	created := errors.Is(statErr, fs.ErrNotExist)

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write config %s: %w", s.path, err)
	}
	// atomic keeps the mode of a file it replaces but creates new ones 0600.
	if created {
		if err := os.Chmod(s.path, FileMode); err != nil {
			return fmt.Errorf("write config %s: %w", s.path, err)
		}
	}

	s.lg.Info("saved key range", "range", r)
	return nil
}

type fileFormat int

const (
	formatJSON fileFormat = iota
	formatTOML
	formatYAML
)

func format(path string) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

func decode(ff fileFormat, data []byte, f *rawFile) error {
	switch ff {
	case formatTOML:
		_, err := toml.Decode(string(data), f)
		return err
	case formatYAML:
		return yaml.Unmarshal(data, f)
	default:
		return json.Unmarshal(data, f)
	}
}

func encode(ff fileFormat, f File) ([]byte, error) {
	switch ff {
	case formatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(f); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatYAML:
		return yaml.Marshal(f)
	default:
		return json.MarshalIndent(f, "", "  ")
	}
}
