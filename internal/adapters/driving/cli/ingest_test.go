package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [file ...]", ingestCmd.Use)
}

func TestIngestCmd_RequiresAtLeastOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "ingest")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestIngestCmd_IngestsFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "cell_division.txt")
	require.NoError(t, os.WriteFile(path, []byte("Mitosis has phases."), 0o600))

	out, err := execute(t, "ingest", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Ingested 1 document(s).")

	mock := ingestService.(*mockIngestService)
	text, ok := mock.ingested["cell-division"]
	require.True(t, ok, "document ID should derive from the file name")
	assert.Equal(t, "Mitosis has phases.", text)
}

func TestIngestCmd_ExplicitID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { ingestID, ingestTitle = "", "" }()

	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Notes"), 0o600))

	_, err := execute(t, "ingest", "--id", "bio2", "--title", "Biology II", path)

	require.NoError(t, err)
	mock := ingestService.(*mockIngestService)
	_, ok := mock.ingested["bio2"]
	assert.True(t, ok)
}

func TestIngestCmd_IDFlagRejectedForMultipleFiles(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { ingestID = "" }()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o600))

	_, err := execute(t, "ingest", "--id", "x", a, b)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "single file")
}

func TestIngestCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "ingest", filepath.Join(t.TempDir(), "missing.txt"))

	assert.Error(t, err)
}

func TestSanitizeDocumentID(t *testing.T) {
	assert.Equal(t, "cell-division", sanitizeDocumentID(" cell_division "))
	assert.Equal(t, "plain", sanitizeDocumentID("plain"))
}
