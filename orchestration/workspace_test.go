package orchestration

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWorkspaceLocalPathPassesThrough(t *testing.T) {
	ws, err := resolveWorkspace(context.Background(), "/workspace/myrepo")
	require.NoError(t, err)
	assert.Equal(t, "/workspace/myrepo", ws.Path)
	assert.False(t, ws.IsTemp)
}

func TestResolveWorkspaceCleanupOnlyRemovesTempDirs(t *testing.T) {
	local := workspace{Path: "/workspace/myrepo", IsTemp: false}
	local.cleanup()
	_, err := os.Stat("/workspace/myrepo")
	assert.True(t, os.IsNotExist(err) || err == nil, "cleanup must never touch a non-temp path")
}

func TestResolveWorkspaceCloneFailureReturnsError(t *testing.T) {
	_, err := resolveWorkspace(context.Background(), "https://example.invalid/nonexistent-repo.git")
	assert.Error(t, err)
}

func TestWorkspaceCleanupRemovesTempDir(t *testing.T) {
	dir := t.TempDir()
	ws := workspace{Path: dir, IsTemp: true}
	ws.cleanup()
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
