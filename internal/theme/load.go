package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// ErrNoThemeFiles is returned by LoadGlob when nothing matches.
var ErrNoThemeFiles = errors.New("no theme files match")

// ErrUnknownFormat is returned for theme files with an unsupported extension.
var ErrUnknownFormat = errors.New("unknown theme file format")

// Decode parses a theme from data in the given format ("yaml", "yml", "toml", "json").
func Decode(data []byte, format string) (Theme, error) {
	var t Theme
	var err error

	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &t)
	case "toml":
		err = toml.Unmarshal(data, &t)
	case "json":
		err = sonic.Unmarshal(data, &t)
	default:
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return Theme{}, fmt.Errorf("decode %s theme: %w", format, err)
	}
	if t.ID == "" {
		return Theme{}, ErrInvalidTheme
	}
	return t, nil
}

// Encode serializes a theme in the given format.
func Encode(t Theme, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		return yaml.Marshal(t)
	case "toml":
		return toml.Marshal(t)
	case "json":
		return sonic.MarshalIndent(t, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// LoadFile reads a theme file and adds it to the store.
// The format is chosen by file extension.
func (s *Store) LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme file: %w", err)
	}

	t, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return Theme{}, err
	}
	if err := s.Create(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// SaveFile writes a stored theme to path in the format given by its extension.
func (s *Store) SaveFile(id, path string) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}

	data, err := Encode(t, filepath.Ext(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadGlob loads every theme file matching pattern, which may use ** to
// match across directories, e.g. "themes/**/*.{yaml,toml,json}". Files in
// unknown formats are skipped. It returns the loaded themes in path order.
func (s *Store) LoadGlob(pattern string) ([]Theme, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("theme glob %q: %w", pattern, err)
	}

	var loaded []Theme
	for _, path := range matches {
		t, err := s.LoadFile(path)
		if errors.Is(err, ErrUnknownFormat) {
			continue
		}
		if err != nil {
			return loaded, fmt.Errorf("%s: %w", path, err)
		}
		loaded = append(loaded, t)
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoThemeFiles, pattern)
	}
	return loaded, nil
}
