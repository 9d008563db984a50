package packager

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const Extension = ".cspkg"

var ErrNotDirectory = errors.New("package source is not a directory")

var skipDirectories = map[string]struct{}{
	".git": {},
}

// Package writes a zip archive of sourceDir into outputDir and returns the archive path.
// The archive is named after a fresh UUID. Paths inside use forward slashes relative to
// sourceDir. A cancelled context aborts the walk and removes the partial archive.
func Package(ctx context.Context, sourceDir, outputDir string) (string, error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, sourceDir)
	}

	err = os.MkdirAll(outputDir, 0o755)
	if err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(outputDir, uuid.NewString()+Extension)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create package file: %w", err)
	}

	err = writeArchive(ctx, file, sourceDir, path)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}

	log.Debugf("Packaged '%s' into '%s'", sourceDir, path)
	return path, nil
}

func writeArchive(ctx context.Context, w io.Writer, sourceDir, outputPath string) error {
	archive := zip.NewWriter(w)

	absOutput, _ := filepath.Abs(outputPath)

	err := filepath.WalkDir(sourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if entry.IsDir() {
			if _, skip := skipDirectories[entry.Name()]; skip && path != sourceDir {
				return filepath.SkipDir
			}
			return nil
		}

		// the archive may be written inside the directory being packaged
		if abs, _ := filepath.Abs(path); abs == absOutput {
			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		return addFile(archive, path, filepath.ToSlash(rel))
	})
	if err != nil {
		return fmt.Errorf("package %s: %w", sourceDir, err)
	}

	return archive.Close()
}

func addFile(archive *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := archive.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	})
	if err != nil {
		return err
	}

	_, err = io.Copy(dst, src)
	return err
}
