package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateThenValidate(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	require.NoError(t, run([]string{"-cmd", "create", "-dir", dir, "-name", "Add SKU"}, &out))
	assert.True(t, strings.HasPrefix(out.String(), "created "))

	matches, err := filepath.Glob(filepath.Join(dir, "*_add_sku.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	out.Reset()
	require.NoError(t, run([]string{"-cmd", "validate", "-dir", dir}, &out))
	assert.Equal(t, "migrations ok\n", out.String())
}

func TestValidateEmbeddedSet(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-cmd", "validate"}, &out))
}

func TestValidateRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20240101000000_broken.sql"), []byte("select 1;"), 0o644))

	err := run([]string{"-cmd", "validate", "-dir", dir}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "goose Up")
}

func TestCreateRequiresName(t *testing.T) {
	err := run([]string{"-cmd", "create", "-dir", t.TempDir()}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "-name")
}

func TestUnknownFlag(t *testing.T) {
	assert.Error(t, run([]string{"-bogus"}, &bytes.Buffer{}))
}
