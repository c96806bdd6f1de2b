package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	j "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/castkit/pokeapi/pokeapitest"
	"github.com/reoring/castkit/viewer"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pokeview: ")
	assert.Contains(t, out, "Go: go")
}

func TestPreload(t *testing.T) {
	_, err := execute(t, "", "version", "--log-level", "loud")
	assert.Error(t, err)

	_, err = execute(t, "", "version", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	conf := writeFile(t, "pokeview.yaml", "Log:\n  Level: warn\n")
	_, err = execute(t, "", "version", "--config", conf)
	assert.NoError(t, err)
}

func TestListCmd(t *testing.T) {
	fake := pokeapitest.NewServer()
	defer fake.Close()

	out, err := execute(t, "", "list", "--base-url", fake.BaseURL(), "--limit", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "bulbasaur")
	assert.Contains(t, out, "venusaur")
	assert.Equal(t, 1, fake.Hits("/api/v2/pokemon"))
}

func TestShowCmd(t *testing.T) {
	fake := pokeapitest.NewServer()
	defer fake.Close()

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "", "show", "1", "--base-url", fake.BaseURL(), "--json")
		require.NoError(t, err)
		var p viewer.Profile
		require.NoError(t, j.Unmarshal([]byte(out), &p))
		assert.Equal(t, "Bulbasaur", p.DisplayName)
	})

	t.Run("table and sprite", func(t *testing.T) {
		spritePath := filepath.Join(t.TempDir(), "bulbasaur.png")
		out, err := execute(t, "", "show", "bulbasaur", "--base-url", fake.BaseURL(), "--sprite-out", spritePath)
		require.NoError(t, err)
		assert.Contains(t, out, "Bulbasaur")
		assert.Contains(t, out, "ABILITIES")

		b, err := os.ReadFile(spritePath)
		require.NoError(t, err)
		assert.Equal(t, pokeapitest.PNG, b)
	})

	t.Run("unknown pokemon", func(t *testing.T) {
		_, err := execute(t, "", "show", "missingno", "--base-url", fake.BaseURL())
		assert.Error(t, err)
	})
}

func TestBrowseCmd(t *testing.T) {
	fake := pokeapitest.NewServer()
	defer fake.Close()

	out, err := execute(t, "p\nn\nwhat\np\n9\nq\nn\n", "browse", "--base-url", fake.BaseURL(), "--limit", "3")
	require.NoError(t, err)

	// p clamps at the first entry, 9 clamps at the last, input after q is ignored
	assert.Equal(t, 3, strings.Count(out, "[1/3] #1 Bulbasaur"))
	assert.Equal(t, 1, strings.Count(out, "[2/3] ivysaur"))
	assert.Equal(t, 1, strings.Count(out, "[3/3] venusaur"))
	assert.Equal(t, 2, strings.Count(out, browseHelp))
}

func TestSchemaCmd(t *testing.T) {
	out, err := execute(t, "", "schema", "NamedAPIResource")
	require.NoError(t, err)
	assert.Contains(t, out, `"$ref": "#/$defs/NamedAPIResource"`)
	assert.Contains(t, out, `"Pokemon"`)

	_, err = execute(t, "", "schema", "Ghost")
	assert.Error(t, err)
}

func TestValidateCmd(t *testing.T) {
	valid := writeFile(t, "valid.json", `{"name": "overgrow", "url": "https://pokeapi.co/api/v2/ability/65/"}`)
	missing := writeFile(t, "missing.json", `{"name": "overgrow"}`)
	extra := writeFile(t, "extra.json", `{"name": "overgrow", "url": "u", "slot": 1}`)

	t.Run("valid", func(t *testing.T) {
		out, err := execute(t, "", "validate", "--type", "NamedAPIResource", valid)
		require.NoError(t, err)
		assert.Contains(t, out, "valid NamedAPIResource")
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := execute(t, "", "validate", "--type", "NamedAPIResource", missing)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `Invalid value for key "url" on NamedAPIResource`)
		assert.Contains(t, err.Error(), "required at /url")
	})

	t.Run("strict", func(t *testing.T) {
		_, err := execute(t, "", "validate", "--type", "NamedAPIResource", extra)
		require.NoError(t, err)

		_, err = execute(t, "", "validate", "--type", "NamedAPIResource", "--strict", extra)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown_key at /slot")
	})

	t.Run("stdin and print", func(t *testing.T) {
		out, err := execute(t, `{"url": "u", "name": "n", "x": 1}`, "validate", "--type", "NamedAPIResource", "--print", "-")
		require.NoError(t, err)
		assert.JSONEq(t, `{"name": "n", "url": "u"}`, out)
	})

	t.Run("custom definitions", func(t *testing.T) {
		defsPath := writeFile(t, "defs.yaml", `
types:
  Point:
    object:
      fields:
        - {json: x_pos, name: x, type: number}
        - {json: label, type: {optional: string}}
`)
		doc := writeFile(t, "point.json", `{"x_pos": 1}`)
		out, err := execute(t, "", "validate", "--type", "Point", "--defs", defsPath, "--print", doc)
		require.NoError(t, err)
		assert.JSONEq(t, `{"x": 1}`, out)

		_, err = execute(t, "", "validate", "--type", "Pokemon", "--defs", defsPath, doc)
		assert.Error(t, err)
	})

	t.Run("type is required", func(t *testing.T) {
		_, err := execute(t, "", "validate", valid)
		assert.Error(t, err)
	})
}
