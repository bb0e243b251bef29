package snapshots

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureCycles = []time.Time{
	time.Date(2015, 6, 19, 8, 0, 0, 0, time.UTC),
	time.Date(2015, 6, 19, 8, 1, 0, 0, time.UTC),
	time.Date(2015, 6, 19, 8, 3, 0, 0, time.UTC),
}

func fixturePayload(t time.Time) []byte {
	return []byte(`{"placemarks":[{"vin":"A","coordinates":[-123.1,49.2,0],"fuel":` +
		strconv.Itoa(t.Minute()) + `}]}`)
}

// Load treats invalid JSON as a missing cycle, so a broken fixture would make
// every backend look empty rather than fail loudly.
func TestFixturePayloadsAreValidJSON(t *testing.T) {
	for _, cycle := range fixtureCycles {
		assert.True(t, json.Valid(fixturePayload(cycle)), "fixture for %s", cycle)
	}
}

func writeDirectoryFixture(t *testing.T) string {
	t.Helper()

	directory := t.TempDir()
	for _, cycle := range fixtureCycles {
		err := os.WriteFile(filepath.Join(directory, FileName("vancouver", cycle)), fixturePayload(cycle), 0644)
		require.NoError(t, err)
	}

	return directory
}

func writeTarFixture(t *testing.T, gzipped bool) string {
	t.Helper()

	name := filepath.Join(t.TempDir(), "vancouver_2015-06-19.tar")
	if gzipped {
		name += ".gz"
	}

	file, err := os.Create(name)
	require.NoError(t, err)
	defer file.Close()

	var tarWriter *tar.Writer
	if gzipped {
		gzipWriter := gzip.NewWriter(file)
		defer gzipWriter.Close()
		tarWriter = tar.NewWriter(gzipWriter)
	} else {
		tarWriter = tar.NewWriter(file)
	}
	defer tarWriter.Close()

	for _, cycle := range fixtureCycles {
		payload := fixturePayload(cycle)
		require.NoError(t, tarWriter.WriteHeader(&tar.Header{
			Name: FileName("vancouver", cycle),
			Mode: 0644,
			Size: int64(len(payload)),
		}))
		_, err := tarWriter.Write(payload)
		require.NoError(t, err)
	}

	return name
}

func writeZipFixture(t *testing.T) string {
	t.Helper()

	name := filepath.Join(t.TempDir(), "vancouver_2015-06-19.zip")

	file, err := os.Create(name)
	require.NoError(t, err)
	defer file.Close()

	zipWriter := zip.NewWriter(file)
	defer zipWriter.Close()

	for _, cycle := range fixtureCycles {
		writer, err := zipWriter.Create(FileName("vancouver", cycle))
		require.NoError(t, err)
		_, err = writer.Write(fixturePayload(cycle))
		require.NoError(t, err)
	}

	return name
}

func TestSourceBackendsBehaveIdentically(t *testing.T) {
	locations := map[string]string{
		"directory": writeDirectoryFixture(t),
		"tar":       writeTarFixture(t, false),
		"tar.gz":    writeTarFixture(t, true),
		"zip":       writeZipFixture(t),
	}

	for backend, location := range locations {
		t.Run(backend, func(t *testing.T) {
			source, err := Open("vancouver", location)
			require.NoError(t, err)
			defer source.Close()

			for _, cycle := range fixtureCycles {
				payload, ok := source.Load(cycle)
				assert.True(t, ok, "cycle %s should be present", cycle)
				assert.Equal(t, fixturePayload(cycle), payload)
			}

			// 08:02 was never captured.
			_, ok := source.Load(time.Date(2015, 6, 19, 8, 2, 0, 0, time.UTC))
			assert.False(t, ok)

			last, err := source.LastTimestamp()
			require.NoError(t, err)
			assert.True(t, fixtureCycles[2].Equal(last))
		})
	}
}

func TestDirectorySourceRejectsInvalidJSON(t *testing.T) {
	directory := t.TempDir()
	cycle := time.Date(2015, 6, 19, 8, 0, 0, 0, time.UTC)

	err := os.WriteFile(filepath.Join(directory, FileName("wien", cycle)), []byte("<html>503</html>"), 0644)
	require.NoError(t, err)

	source := NewDirectorySource("wien", directory)

	_, ok := source.Load(cycle)
	assert.False(t, ok, "truncated or non-json payloads count as missing")
}

func TestOpenRejectsUnknownFormats(t *testing.T) {
	file := filepath.Join(t.TempDir(), "snapshots.7z")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := Open("wien", file)
	assert.Error(t, err)
}

func TestOpenMissingLocation(t *testing.T) {
	_, err := Open("wien", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestTarSourceRejectsNonTar(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bogus.tar")
	require.NoError(t, os.WriteFile(file, []byte("definitely not a tar"), 0644))

	_, err := NewTarSource("wien", file)
	assert.Error(t, err)
}
