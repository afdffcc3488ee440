package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestUploadCmd_RequiresArgs(t *testing.T) {
	_, err := executeCommand("upload")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestUploadCmd_StoresFile(t *testing.T) {
	user, cleanup := setupTestServices(t)
	defer cleanup()
	path := writeTempFile(t, "notes.txt", testNotes)

	out, err := executeCommand("upload", path)

	require.NoError(t, err)
	assert.Contains(t, out, "1 chunks stored (0 duplicate, 0 failed)")

	got, err := userService.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.DocumentCount)
}

func TestUploadCmd_DuplicateIsNotAnError(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	path := writeTempFile(t, "notes.txt", testNotes)

	_, err := executeCommand("upload", path)
	require.NoError(t, err)

	out, err := executeCommand("upload", path)
	require.NoError(t, err)
	assert.Contains(t, out, "already stored")
}

func TestUploadCmd_ReportsFailures(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	good := writeTempFile(t, "notes.txt", testNotes)
	unsupported := writeTempFile(t, "image.png", "not really a png file")
	missing := filepath.Join(t.TempDir(), "missing.txt")

	out, err := executeCommand("upload", good, unsupported, missing)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 uploads failed")
	assert.Contains(t, out, "unsupported type")
	assert.Contains(t, out, "reading file")
	assert.Contains(t, out, "1 chunks stored")
}

func TestUploadCmd_ServiceNotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := executeCommand("upload", "x.txt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload service not configured")
}
