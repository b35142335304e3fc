package uploader

import (
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// UploadRecord pairs a local file with the object key it is stored under.
type UploadRecord struct {
	Path string
	Key  string
}

// SkipFunc is told about entries Collect could not read and left out.
type SkipFunc func(path string, err error)

// Collect walks root and returns every regular, non-hidden file in lexical
// order. A symlinked root and symlinks to regular files are followed.
// Unreadable entries below root are passed to onSkip (which may be nil) and
// left out; only a failure on root itself is returned.
func Collect(root string, onSkip SkipFunc) ([]UploadRecord, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	var records []UploadRecord

	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == resolved {
				return err
			}
			if onSkip != nil {
				onSkip(path, err)
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || isHidden(d.Name()) {
			return nil
		}
		if !isRegular(path, d) {
			return nil
		}

		rel, err := filepath.Rel(resolved, path)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", path, err)
		}

		records = append(records, UploadRecord{Path: filepath.Join(root, rel), Key: ObjectKey(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return records, nil
}

// ObjectKey turns a root-relative path into an object key with forward slashes.
func ObjectKey(rel string) string {
	return strings.ReplaceAll(filepath.ToSlash(rel), `\`, "/")
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// contentType returns the MIME type for the file extension.
func contentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
