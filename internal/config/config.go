// Package config loads editor configuration: built-in defaults from an
// embedded TOML document, overridden by the user's config file. Loading
// is additive — whatever parses applies on top of the defaults, and
// problems surface as diagnostics rather than failures.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default.toml
var defaultTOML []byte

// Config is the typed configuration tree.
type Config struct {
	Font      Font                `toml:"font"`
	Editor    Editor              `toml:"editor"`
	Languages map[string]Language `toml:"language"`
}

// Font selects the UI font.
type Font struct {
	Family string  `toml:"family"`
	Size   float64 `toml:"size"`
}

// Editor holds core editing options.
type Editor struct {
	ScrollOffset int `toml:"scroll_offset"`
	IndentWidth  int `toml:"indent_width"`
}

// Language configures per-language tooling.
type Language struct {
	TreeSitter TreeSitter `toml:"tree_sitter"`
	LSP        LSP        `toml:"lsp"`
}

// TreeSitter points at a grammar source.
type TreeSitter struct {
	Repo string `toml:"repo"`
}

// LSP names the language-server command.
type LSP struct {
	Command string `toml:"command"`
}

// Level classifies a diagnostic.
type Level uint8

const (
	LevelError Level = iota
	LevelWarning
)

func (l Level) String() string {
	if l == LevelWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one problem found while loading configuration. Line is
// 1-based, 0 when the problem has no position.
type Diagnostic struct {
	Title string
	Line  int
	Level Level
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", d.Level, d.Line, d.Title)
	}
	return fmt.Sprintf("%s: %s", d.Level, d.Title)
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	if err := toml.Unmarshal(defaultTOML, &c); err != nil {
		panic(fmt.Sprintf("config: embedded defaults malformed: %v", err))
	}
	return c
}

// Path returns the user config file location,
// <user config dir>/quill/config.toml.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "quill", "config.toml"), nil
}

// Load reads the user config file over the defaults. A missing file is
// not a diagnostic; everything else that goes wrong is.
func Load() (Config, []Diagnostic) {
	path, err := Path()
	if err != nil {
		return Default(), []Diagnostic{{
			Title: "cannot locate config directory: " + err.Error(),
			Level: LevelWarning,
		}}
	}
	return LoadFile(path)
}

// LoadFile reads one TOML file over the defaults.
func LoadFile(path string) (Config, []Diagnostic) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), []Diagnostic{{
			Title: err.Error(),
			Level: LevelError,
		}}
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults. Unknown keys warn; malformed
// values error. Decoding is additive: keys parsed before the first
// error still apply.
func Parse(data []byte) (Config, []Diagnostic) {
	var diags []Diagnostic

	c := Default()
	if err := toml.Unmarshal(data, &c); err != nil {
		diags = append(diags, decodeDiagnostic(err))
	}

	// Strict probe into a throwaway value to flag unknown keys. Decode
	// errors already surfaced above.
	probe := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&probe); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			for i := range strict.Errors {
				row, _ := strict.Errors[i].Position()
				diags = append(diags, Diagnostic{
					Title: "unknown key: " + strings.Join(strict.Errors[i].Key(), "."),
					Line:  row,
					Level: LevelWarning,
				})
			}
		}
	}

	return c, diags
}

func decodeDiagnostic(err error) Diagnostic {
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		row, _ := derr.Position()
		return Diagnostic{Title: derr.Error(), Line: row, Level: LevelError}
	}
	return Diagnostic{Title: err.Error(), Level: LevelError}
}
