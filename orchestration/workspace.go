package orchestration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// workspace describes the resolved filesystem location a scan operates
// against, and whether it must be cleaned up on exit.
type workspace struct {
	Path   string
	IsTemp bool
}

// resolveWorkspace returns repoPath unchanged for a local path, or performs
// a shallow clone into a fresh temp directory when repoPath is a URL. No
// go-git library appears anywhere in the reference corpus; a shallow clone
// via the git binary is the grounded approach — see DESIGN.md.
func resolveWorkspace(ctx context.Context, repoPath string) (workspace, error) {
	if !strings.HasPrefix(repoPath, "http") {
		return workspace{Path: repoPath, IsTemp: false}, nil
	}

	dir := filepath.Join(os.TempDir(), fmt.Sprintf("scanctl-repo-%s", uuid.NewString()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return workspace{}, fmt.Errorf("workspace: creating temp dir: %w", err)
	}

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", repoPath, dir)
	if err := cmd.Run(); err != nil {
		os.RemoveAll(dir)
		return workspace{}, fmt.Errorf("workspace: clone failed: %w", err)
	}

	return workspace{Path: dir, IsTemp: true}, nil
}

func (w workspace) cleanup() {
	if w.IsTemp && w.Path != "" {
		os.RemoveAll(w.Path)
	}
}
