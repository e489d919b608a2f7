package util

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyPath   = errors.New("empty file path")
	ErrPathEscapes = errors.New("path escapes output directory")
)

// ArtifactPath cleans a generated file path such as "themes/acme.scss".
// Paths are slash-separated and relative; ".." segments and absolute paths
// are rejected rather than rewritten.
func ArtifactPath(rel string) (string, error) {
	p := strings.ReplaceAll(strings.TrimSpace(rel), "\\", "/")
	if strings.ContainsRune(p, '\x00') {
		return "", fmt.Errorf("invalid path %q", rel)
	}
	if strings.HasPrefix(p, "/") || filepath.IsAbs(p) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, rel)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %s", ErrPathEscapes, rel)
		}
	}
	p = path.Clean(p)
	if p == "." {
		return "", ErrEmptyPath
	}
	return p, nil
}

// existingAncestor returns the real path of the deepest existing directory
// on the way to p.
func existingAncestor(p string) (string, error) {
	for dir := p; ; dir = filepath.Dir(dir) {
		if _, err := os.Lstat(dir); err == nil {
			return filepath.EvalSymlinks(dir)
		}
		if parent := filepath.Dir(dir); parent == dir {
			return "", fmt.Errorf("no existing ancestor for %s", p)
		}
	}
}

func inside(root, target string) bool {
	if target == root {
		return true
	}
	return strings.HasPrefix(target, strings.TrimSuffix(root, string(filepath.Separator))+string(filepath.Separator))
}

// resolveUnder maps rel to an absolute path below root. Symlinked
// directories that lead outside root are refused.
func resolveUnder(root, rel string) (string, error) {
	clean, err := ArtifactPath(rel)
	if err != nil {
		return "", err
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	rootReal, err := filepath.EvalSymlinks(rootAbs)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	target := filepath.Join(rootAbs, filepath.FromSlash(clean))
	real, err := existingAncestor(target)
	if err != nil {
		return "", err
	}
	if !inside(rootReal, real) {
		return "", fmt.Errorf("%w via symlink: %s", ErrPathEscapes, rel)
	}
	return target, nil
}

// WriteFileUnder writes a generated file to rel inside root, creating
// directories as needed, and returns the absolute path written.
func WriteFileUnder(root, rel string, data []byte) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	target, err := resolveUnder(root, rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create parent dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return target, nil
}
