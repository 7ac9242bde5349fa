package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, "monospace", c.Font.Family)
	assert.Equal(t, 14.0, c.Font.Size)
	assert.Equal(t, 3, c.Editor.ScrollOffset)
	assert.Equal(t, 4, c.Editor.IndentWidth)
	assert.Empty(t, c.Languages)
}

func TestParseOverridesDefaults(t *testing.T) {
	c, diags := Parse([]byte(`
[font]
size = 11.5

[editor]
indent_width = 2
`))
	assert.Empty(t, diags)
	assert.Equal(t, 11.5, c.Font.Size)
	assert.Equal(t, 2, c.Editor.IndentWidth)
	assert.Equal(t, "monospace", c.Font.Family, "untouched keys keep defaults")
	assert.Equal(t, 3, c.Editor.ScrollOffset)
}

func TestParseLanguages(t *testing.T) {
	c, diags := Parse([]byte(`
[language.go.lsp]
command = "gopls"

[language.rust.tree_sitter]
repo = "https://example.com/tree-sitter-rust"
`))
	assert.Empty(t, diags)
	require.Contains(t, c.Languages, "go")
	require.Contains(t, c.Languages, "rust")
	assert.Equal(t, "gopls", c.Languages["go"].LSP.Command)
	assert.Equal(t, "https://example.com/tree-sitter-rust", c.Languages["rust"].TreeSitter.Repo)
}

func TestParseUnknownKeyWarns(t *testing.T) {
	c, diags := Parse([]byte(`
[font]
size = 16.0
weight = "bold"
`))
	require.Len(t, diags, 1)
	assert.Equal(t, LevelWarning, diags[0].Level)
	assert.Contains(t, diags[0].Title, "font.weight")
	assert.Equal(t, 16.0, c.Font.Size, "known keys still apply")
}

func TestParseMalformedValueErrors(t *testing.T) {
	c, diags := Parse([]byte(`
[editor]
indent_width = "wide"
`))
	require.NotEmpty(t, diags)
	assert.Equal(t, LevelError, diags[0].Level)
	assert.Equal(t, 4, c.Editor.IndentWidth, "defaults survive a bad value")
}

func TestParseSyntaxError(t *testing.T) {
	c, diags := Parse([]byte("font = {"))
	require.NotEmpty(t, diags)
	assert.Equal(t, LevelError, diags[0].Level)
	assert.Equal(t, Default(), c)
}

func TestLoadFileMissingIsDefaults(t *testing.T) {
	c, diags := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Empty(t, diags)
	assert.Equal(t, Default(), c)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[font]\nfamily = \"Iosevka\"\n"), 0o644))

	c, diags := LoadFile(path)
	assert.Empty(t, diags)
	assert.Equal(t, "Iosevka", c.Font.Family)
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Title: "unknown key: font.weight", Line: 4, Level: LevelWarning}
	assert.Equal(t, "warning: line 4: unknown key: font.weight", d.String())
	d = Diagnostic{Title: "boom", Level: LevelError}
	assert.Equal(t, "error: boom", d.String())
}
