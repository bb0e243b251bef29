package generate

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fleettrace/fleettrace/pkg/snapshots"
	"github.com/rs/zerolog/log"
)

// frameFileInfo satisfies fs.FileInfo for payloads that only ever existed in
// memory, so tar headers can be built without touching the filesystem.
type frameFileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (f frameFileInfo) Name() string       { return f.name }
func (f frameFileInfo) Size() int64        { return f.size }
func (f frameFileInfo) Mode() fs.FileMode  { return 0644 }
func (f frameFileInfo) ModTime() time.Time { return f.modTime }
func (f frameFileInfo) IsDir() bool        { return false }
func (f frameFileInfo) Sys() any           { return nil }

// WriteFrames stores regenerated snapshots at destination, picking the
// backend from its name the same way the snapshot sources do: a .tar,
// .tar.gz, .tgz or .zip suffix writes a single archive, anything else is
// treated as a directory of individual files.
func WriteFrames(frames []Frame, city string, destination string) error {
	switch {
	case strings.HasSuffix(destination, ".tar"), strings.HasSuffix(destination, ".tar.gz"), strings.HasSuffix(destination, ".tgz"):
		return writeTar(frames, city, destination)
	case strings.HasSuffix(destination, ".zip"):
		return writeZip(frames, city, destination)
	default:
		return writeDirectory(frames, city, destination)
	}
}

func writeDirectory(frames []Frame, city string, directory string) error {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return err
	}

	for _, frame := range frames {
		name := filepath.Join(directory, snapshots.FileName(city, frame.Time))
		if err := os.WriteFile(name, frame.Payload, 0644); err != nil {
			return err
		}
	}

	log.Info().Str("directory", directory).Int("frames", len(frames)).Msg("Wrote snapshot files")

	return nil
}

func writeTar(frames []Frame, city string, destination string) error {
	file, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer file.Close()

	var tarWriter *tar.Writer

	if strings.HasSuffix(destination, ".gz") || strings.HasSuffix(destination, ".tgz") {
		gzipWriter := gzip.NewWriter(file)
		defer gzipWriter.Close()
		tarWriter = tar.NewWriter(gzipWriter)
	} else {
		tarWriter = tar.NewWriter(file)
	}
	defer tarWriter.Close()

	for _, frame := range frames {
		name := snapshots.FileName(city, frame.Time)

		header, err := tar.FileInfoHeader(frameFileInfo{
			name:    name,
			size:    int64(len(frame.Payload)),
			modTime: frame.Time,
		}, name)
		if err != nil {
			return err
		}

		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if _, err := tarWriter.Write(frame.Payload); err != nil {
			return err
		}
	}

	log.Info().Str("archive", destination).Int("frames", len(frames)).Msg("Wrote snapshot archive")

	return nil
}

func writeZip(frames []Frame, city string, destination string) error {
	file, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer file.Close()

	zipWriter := zip.NewWriter(file)
	defer zipWriter.Close()

	for _, frame := range frames {
		writer, err := zipWriter.Create(snapshots.FileName(city, frame.Time))
		if err != nil {
			return err
		}
		if _, err := writer.Write(frame.Payload); err != nil {
			return err
		}
	}

	log.Info().Str("archive", destination).Int("frames", len(frames)).Msg("Wrote snapshot archive")

	return nil
}
