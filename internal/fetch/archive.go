package fetch

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// OpenGKG opens a feed file for reading. Files ending in .zip are opened
// as archives and the first .csv entry is returned; anything else is read
// as plain text.
func OpenGKG(path string) (io.ReadCloser, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		return f, nil
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", path, err)
	}

	entry := firstCSV(&zr.Reader)
	if entry == nil {
		zr.Close()
		return nil, fmt.Errorf("open zip %s: %w", path, domain.ErrNoCSVInArchive)
	}

	rc, err := entry.Open()
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("open %s in %s: %w", entry.Name, path, err)
	}

	return &zipEntryReader{ReadCloser: rc, archive: zr}, nil
}

// ExtractGKG writes the first .csv entry of zipPath into outDir and returns
// the path of the extracted file.
func ExtractGKG(zipPath, outDir string) (string, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("open zip %s: %w", zipPath, err)
	}
	defer zr.Close()

	entry := firstCSV(&zr.Reader)
	if entry == nil {
		return "", fmt.Errorf("extract %s: %w", zipPath, domain.ErrNoCSVInArchive)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", outDir, err)
	}
	// Entry names may carry directories; only the base name is trusted.
	outPath := filepath.Join(outDir, filepath.Base(entry.Name))

	rc, err := entry.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", entry.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outPath, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return "", fmt.Errorf("extract %s: %w", entry.Name, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", outPath, err)
	}

	return outPath, nil
}

func firstCSV(r *zip.Reader) *zip.File {
	for _, f := range r.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			return f
		}
	}
	return nil
}

type zipEntryReader struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (z *zipEntryReader) Close() error {
	err := z.ReadCloser.Close()
	if archErr := z.archive.Close(); err == nil {
		err = archErr
	}
	return err
}
