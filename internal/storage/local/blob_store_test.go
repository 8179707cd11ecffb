package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresBaseDir(t *testing.T) {
	t.Parallel()

	_, err := New(Config{BaseDir: "   "})
	assert.Error(t, err)
}

func TestNewCreatesBaseDir(t *testing.T) {
	t.Parallel()

	base := filepath.Join(t.TempDir(), "archive", "runs")
	_, err := New(Config{BaseDir: base})
	require.NoError(t, err)

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewRejectsFileAsBaseDir(t *testing.T) {
	t.Parallel()

	base := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0o600))

	_, err := New(Config{BaseDir: base})
	assert.Error(t, err)
}

func TestPutObject(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store, err := New(Config{BaseDir: base})
	require.NoError(t, err)

	uri, err := store.PutObject(context.Background(), "runs/abc/eu-sanctions.xml", "application/xml", strings.NewReader("<export/>"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "file://"))

	payload, err := os.ReadFile(filepath.Join(base, "runs", "abc", "eu-sanctions.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<export/>", string(payload))
}

func TestPutObjectRejectsTraversal(t *testing.T) {
	t.Parallel()

	store, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	_, err = store.PutObject(context.Background(), "../escape.xml", "application/xml", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path traversal")

	_, err = store.PutObject(context.Background(), "", "application/xml", strings.NewReader("x"))
	assert.Error(t, err)
}
