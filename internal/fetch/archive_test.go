package fetch

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

func writeZip(t *testing.T, files map[string]string, order []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.gkg.csv.zip")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, files[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestOpenGKG_Zip(t *testing.T) {
	path := writeZip(t, map[string]string{
		"README.txt":                    "ignore me",
		"20250217120000.gkg.csv":        "a\tb\tc\td\te\n",
		"20250217120000.second.gkg.csv": "other",
	}, []string{"README.txt", "20250217120000.gkg.csv", "20250217120000.second.gkg.csv"})

	rc, err := OpenGKG(path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	assert.Equal(t, "a\tb\tc\td\te\n", string(data))
}

func TestOpenGKG_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.gkg.csv")
	require.NoError(t, os.WriteFile(path, []byte("line\n"), 0o644))

	rc, err := OpenGKG(path)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}

func TestOpenGKG_Errors(t *testing.T) {
	_, err := OpenGKG(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	noCSV := writeZip(t, map[string]string{"notes.txt": "x"}, []string{"notes.txt"})
	_, err = OpenGKG(noCSV)
	assert.ErrorIs(t, err, domain.ErrNoCSVInArchive)

	notZip := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(notZip, []byte("not a zip"), 0o644))
	_, err = OpenGKG(notZip)
	assert.Error(t, err)
}

func TestExtractGKG(t *testing.T) {
	path := writeZip(t, map[string]string{
		"nested/20250217120000.gkg.csv": "x\ty\n",
	}, []string{"nested/20250217120000.gkg.csv"})

	outDir := filepath.Join(t.TempDir(), "out")
	got, err := ExtractGKG(path, outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "20250217120000.gkg.csv"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "x\ty\n", string(data))

	noCSV := writeZip(t, map[string]string{"a.txt": ""}, []string{"a.txt"})
	_, err = ExtractGKG(noCSV, outDir)
	assert.ErrorIs(t, err, domain.ErrNoCSVInArchive)
}
