package rewrite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Process rewrites the file at path, or, if path names a directory and the
// Rewriter is recursive, every file beneath it. The first failing entry stops
// the descent; remaining siblings are left untouched.
func (r *Rewriter) Process(ctx context.Context, path string) error {
	info, err := r.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input %q does not exist", path)
		}
		return fmt.Errorf("stat %q: %w", path, err)
	}

	if !info.IsDir() {
		return r.RewriteFile(ctx, path)
	}

	if !r.recursive {
		return fmt.Errorf("input %q is a directory, but recursive mode is not enabled", path)
	}

	children, err := afero.ReadDir(r.fs, path)
	if err != nil {
		return fmt.Errorf("read directory %q: %w", path, err)
	}
	for _, child := range children {
		if err := r.Process(ctx, filepath.Join(path, child.Name())); err != nil {
			return err
		}
	}
	return nil
}
