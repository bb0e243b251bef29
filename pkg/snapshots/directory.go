package snapshots

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type DirectorySource struct {
	city      string
	directory string
}

func NewDirectorySource(city string, directory string) *DirectorySource {
	return &DirectorySource{city: city, directory: directory}
}

func (s *DirectorySource) Load(t time.Time) ([]byte, bool) {
	payload, err := os.ReadFile(filepath.Join(s.directory, FileName(s.city, t)))
	if err != nil || !json.Valid(payload) {
		return nil, false
	}

	return payload, true
}

// LastTimestamp scans every matching file: directory listings come back in
// arbitrary order, so unlike the archive backends there is no shortcut.
func (s *DirectorySource) LastTimestamp() (time.Time, error) {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return time.Time{}, err
	}

	var last time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), s.city+"_") {
			continue
		}

		_, fileTime, err := ParseFileName(entry.Name())
		if err != nil {
			continue
		}

		if fileTime.After(last) {
			last = fileTime
		}
	}

	if last.IsZero() {
		return time.Time{}, errors.New("no snapshot files for city " + s.city)
	}

	return last, nil
}

func (s *DirectorySource) Close() error {
	return nil
}
