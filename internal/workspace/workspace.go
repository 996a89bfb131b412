// Package workspace gives each worker its own copy of the source tree.
package workspace

import (
	"SizeCompare/internal/execx"
	"SizeCompare/internal/logx"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Copier mirrors a directory tree.
type Copier interface {
	CopyTree(ctx context.Context, src, dst string, exclude ...string) error
}

// Rsync copies trees with rsync -ap, preserving permissions and times.
type Rsync struct {
	Log *logx.Logger
}

func (r Rsync) CopyTree(ctx context.Context, src, dst string, exclude ...string) error {
	args := make([]string, 0, len(exclude)+3)
	for _, e := range exclude {
		args = append(args, "--exclude="+e)
	}
	// trailing slash: copy contents, not the directory itself
	args = append(args, "-ap", withSlash(src), dst)
	c := execx.Cmd{Name: "rsync", Args: args}
	r.Log.Infof("Running (%s)", c)
	_, err := execx.Run(ctx, c)
	return err
}

func withSlash(p string) string {
	if p == "" {
		return "./"
	}
	if p[len(p)-1] == os.PathSeparator {
		return p
	}
	return p + string(os.PathSeparator)
}

type Workspace struct {
	Dir string
	// owned workspaces are copies and get removed on Release.
	owned bool
}

// BuildDir is where waf writes its output inside the workspace.
func (w *Workspace) BuildDir() string {
	return filepath.Join(w.Dir, "build")
}

func (w *Workspace) Owned() bool { return w.owned }

type Manager struct {
	Source string
	Root   string
	Copier Copier
	Log    *logx.Logger
}

// Primary returns the source tree itself, for sequential runs.
func (m *Manager) Primary() *Workspace {
	return &Workspace{Dir: m.Source}
}

// Create copies the source tree, minus build output, into a private
// directory for worker n.
func (m *Manager) Create(ctx context.Context, n int) (*Workspace, error) {
	dir := filepath.Join(m.Root, fmt.Sprintf("thread-%d-source", n))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir workspace: %w", err)
	}
	if err := m.Copier.CopyTree(ctx, m.Source, dir, "build/"); err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			m.Log.Warnf("remove partial workspace %s: %v", dir, rmErr)
		}
		return nil, fmt.Errorf("copy source into %s: %w", dir, err)
	}
	m.Log.Infof("workspace %d ready at %s", n, dir)
	return &Workspace{Dir: dir, owned: true}, nil
}

// Release removes a copied workspace. The primary tree is left alone.
func (m *Manager) Release(w *Workspace) {
	if w == nil || !w.owned {
		return
	}
	if err := os.RemoveAll(w.Dir); err != nil {
		m.Log.Warnf("remove workspace %s: %v", w.Dir, err)
	}
}
