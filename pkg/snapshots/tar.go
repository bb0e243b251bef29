package snapshots

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path"
	"strings"
	"time"
)

// TarSource reads cycle files out of a tar archive. Tar has no random
// access, so the whole archive is indexed into memory once at open; the
// archives are per-day bundles of small JSON files, which keeps this sane.
type TarSource struct {
	city     string
	members  map[string][]byte
	lastName string
}

func NewTarSource(city string, location string) (*TarSource, error) {
	file, err := os.Open(location)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(location, ".gz") || strings.HasSuffix(location, ".tgz") {
		gzipReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, errors.New(location + " is not a valid gzip archive")
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	source := &TarSource{
		city:    city,
		members: map[string][]byte{},
	}

	tarReader := tar.NewReader(reader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.New(location + " is not a valid tar archive")
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		payload, err := io.ReadAll(tarReader)
		if err != nil {
			return nil, err
		}

		// Member names can carry prefixes like "./vancouver_..."; index on
		// the base name only.
		name := path.Base(header.Name)
		source.members[name] = payload
		source.lastName = name
	}

	return source, nil
}

func (s *TarSource) Load(t time.Time) ([]byte, bool) {
	payload, exists := s.members[FileName(s.city, t)]
	if !exists || !json.Valid(payload) {
		return nil, false
	}

	return payload, true
}

// LastTimestamp relies on archives storing members in chronological order,
// which holds for the collection scripts producing them.
func (s *TarSource) LastTimestamp() (time.Time, error) {
	if s.lastName == "" {
		return time.Time{}, errors.New("archive has no members")
	}

	_, fileTime, err := ParseFileName(s.lastName)

	return fileTime, err
}

func (s *TarSource) Close() error {
	return nil
}
