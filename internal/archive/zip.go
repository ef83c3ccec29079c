package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidArchive marks a corrupt or non-ZIP upload. Callers treat it as
// a request validation failure rather than a server error.
var ErrInvalidArchive = errors.New("invalid zip archive")

// Validate checks that the file at path is a well-formed ZIP archive by
// opening it and reading every entry, so CRC mismatches surface before any
// extraction happens.
func Validate(path string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("%w: entry %s: %v", ErrInvalidArchive, f.Name, err)
		}
		_, err = io.Copy(io.Discard, rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("%w: entry %s: %v", ErrInvalidArchive, f.Name, err)
		}
	}
	return nil
}

// Extract unpacks the archive's regular files under destDir, preserving
// member paths, and returns the extracted file paths. Entries that would
// escape destDir are rejected.
func Extract(path, destDir string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer zr.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}

	var extracted []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		target, err := securePath(destDir, f.Name)
		if err != nil {
			return nil, err
		}
		if err := extractFile(f, target); err != nil {
			return nil, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		extracted = append(extracted, target)
	}
	return extracted, nil
}

// securePath joins a member name onto destDir and rejects traversal.
func securePath(destDir, name string) (string, error) {
	cleaned := filepath.Join(destDir, filepath.FromSlash(name))
	if cleaned != destDir && !strings.HasPrefix(cleaned, destDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: entry %s escapes extraction directory", ErrInvalidArchive, name)
	}
	return cleaned, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
