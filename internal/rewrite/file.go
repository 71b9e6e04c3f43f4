package rewrite

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cerfical/resolve/internal/log"
	"github.com/spf13/afero"
)

// RewriteFile rewrites a single file in place. A fresh scratch file collects
// the output and replaces the original only after every line was consumed, so
// an interrupted run leaves the original untouched.
//
// Lines that cannot be resolved pass through unchanged and never fail the
// file; a non-nil error indicates an I/O failure.
func (r *Rewriter) RewriteFile(ctx context.Context, path string) error {
	if r.backup {
		r.log.Info("Backing up", log.Fields{"path": path})
		if err := r.backupFile(path); err != nil {
			return fmt.Errorf("back up %q: %w", path, err)
		}
	}

	info, err := r.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %q: %w", path, err)
	}

	in, err := r.fs.Open(path)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer in.Close()

	// The scratch file lives next to the original to keep the final rename
	// within one filesystem
	out, err := afero.TempFile(r.fs, filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create scratch file for %q: %w", path, err)
	}
	scratch := out.Name()
	r.log.Debug("Writing to scratch file", log.Fields{"path": scratch})

	if err := r.fs.Chmod(scratch, info.Mode().Perm()); err != nil {
		out.Close()
		return fmt.Errorf("set permissions on %q: %w", scratch, err)
	}

	reader := bufio.NewReader(in)
	writer := bufio.NewWriter(out)
	for lineNo := 1; ; lineNo++ {
		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			if _, err := writer.WriteString(r.rewriteLine(ctx, line, path, lineNo)); err != nil {
				out.Close()
				return fmt.Errorf("write %q: %w", scratch, err)
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			out.Close()
			return fmt.Errorf("read %q: %w", path, readErr)
		}
	}

	if err := writer.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("write %q: %w", scratch, err)
	}

	// The scratch file must be closed before it can replace the original
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %q: %w", scratch, err)
	}
	if err := r.fs.Rename(scratch, path); err != nil {
		return fmt.Errorf("replace %q: %w", path, err)
	}

	r.log.Info("Processed", log.Fields{"path": path})
	return nil
}

// rewriteLine returns the line with its single IPv4 address substituted, or
// the line unchanged if it carries no directive or cannot be resolved.
func (r *Rewriter) rewriteLine(ctx context.Context, line, path string, lineNo int) string {
	// The terminator, CRLF included, is not part of the matched content
	content := strings.TrimSuffix(line, "\n")
	content = strings.TrimSuffix(content, "\r")
	eol := line[len(content):]

	match := r.trigger.FindStringSubmatch(content)
	if match == nil {
		return line
	}

	// A directive line is rewritten only when it carries exactly one address
	addrs := addressRegexp.FindAllString(content, -1)
	if len(addrs) != 1 {
		r.log.Warn("Unable to resolve reference", log.Fields{
			"path":      path,
			"line":      lineNo,
			"addresses": len(addrs),
		})
		return line
	}

	host := match[1]
	address, err := r.resolver.LookupHost(ctx, host)
	if err != nil {
		r.log.Error("Failed to resolve host", err, log.Fields{
			"host": host,
			"path": path,
			"line": lineNo,
		})
		return line
	}

	r.log.Debug("Resolved host", log.Fields{
		"host":    host,
		"address": address,
		"path":    path,
		"line":    lineNo,
	})
	return addressRegexp.ReplaceAllString(content, address) + eol
}

func (r *Rewriter) backupFile(path string) error {
	src, err := r.fs.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	dst, err := r.fs.OpenFile(path+BackupExt, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
