// Package artifact provides small file-path utilities shared by the
// interaction engine when persisting query audio, response audio, and
// packet-capture paths: optional gzip compression and a basename-or-full-path
// chooser for storing capture file references relative to a known directory.
// Grounded on the original harness's file.rs helpers of the same shape.
package artifact

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Gzip compresses the file at path into path+".gz" and returns the new path.
// The source file is left untouched; callers that want it removed do so
// themselves via os.Remove once satisfied with the compressed copy.
func Gzip(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("artifact: open %q: %w", path, err)
	}
	defer src.Close()

	dstPath := path + ".gz"
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("artifact: create %q: %w", dstPath, err)
	}
	defer dst.Close()

	gw := gzip.NewWriter(dst)
	if _, err := io.Copy(gw, src); err != nil {
		gw.Close()
		return "", fmt.Errorf("artifact: compress %q: %w", path, err)
	}
	if err := gw.Close(); err != nil {
		return "", fmt.Errorf("artifact: finalize gzip %q: %w", dstPath, err)
	}
	return dstPath, nil
}

// BaseOrFull returns path's basename when path lives inside dir, and the
// full path otherwise. Used to persist the capture-file reference as the
// short name when it sits in the session directory, falling back to the
// path exactly as given for anything recorded elsewhere.
func BaseOrFull(path, dir string) string {
	if dir == "" {
		return path
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.Base(path)
}
