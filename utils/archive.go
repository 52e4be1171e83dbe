package utils

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// ZipDirectory packs the contents of dir into an in-memory zip archive.
// Entries are rooted at prefix when one is given, which is how Lambda layers
// expect their runtime directory (for example "python") to be laid out.
func ZipDirectory(dir, prefix string) ([]byte, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading package directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("package path %s is not a directory", dir)
	}

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	err = filepath.WalkDir(dir, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return err
		}

		name := filepath.ToSlash(rel)
		if prefix != "" {
			name = path.Join(prefix, name)
		}

		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:   name,
			Method: zip.Deflate,
		})
		if err != nil {
			return err
		}

		src, err := os.Open(file)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(entry, src)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("packaging %s: %w", dir, err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}

	return buf.Bytes(), nil
}
