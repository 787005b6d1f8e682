package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentCmd_Use(t *testing.T) {
	assert.Equal(t, "document", documentCmd.Use)
	assert.Contains(t, documentCmd.Aliases, "doc")
}

func TestDocumentCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range documentCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "list")
	assert.Contains(t, names, "get")
	assert.Contains(t, names, "content")
	assert.Contains(t, names, "delete")
}

func TestDocumentListCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "document", "list")

	assert.NoError(t, err)
	assert.Contains(t, out, "bio")
	assert.Contains(t, out, "Biology Notes")
	assert.Contains(t, out, "Total: 1 documents")
}

func TestDocumentListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ingestService.(*mockIngestService).documents = nil

	out, err := execute(t, "document", "list")

	assert.NoError(t, err)
	assert.Contains(t, out, "No documents ingested.")
}

func TestDocumentGetCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "document", "get", "bio")

	assert.NoError(t, err)
	assert.Contains(t, out, "Document: bio")
	assert.Contains(t, out, "Chunks:   1")
	assert.Contains(t, out, "Pages:    12")
}

func TestDocumentGetCmd_UnknownDocument(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "document", "get", "nope")

	assert.Error(t, err)
}

func TestDocumentContentCmd_PrintsText(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "document", "content", "bio")

	assert.NoError(t, err)
	assert.Contains(t, out, "Mitosis begins with prophase.")
}

func TestDocumentDeleteCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "document", "delete", "bio")

	require.NoError(t, err)
	assert.Contains(t, out, "Document bio deleted.")
	assert.Equal(t, []string{"bio"}, ingestService.(*mockIngestService).deleted)
}

func TestDocumentDeleteCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "document", "delete")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}
