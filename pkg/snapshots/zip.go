package snapshots

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"io"
	"path"
	"time"
)

type ZipSource struct {
	city     string
	archive  *zip.ReadCloser
	members  map[string]*zip.File
	lastName string
}

func NewZipSource(city string, location string) (*ZipSource, error) {
	archive, err := zip.OpenReader(location)
	if err != nil {
		return nil, errors.New(location + " is not a valid zip archive")
	}

	source := &ZipSource{
		city:    city,
		archive: archive,
		members: map[string]*zip.File{},
	}

	for _, member := range archive.File {
		if member.FileInfo().IsDir() {
			continue
		}

		name := path.Base(member.Name)
		source.members[name] = member
		source.lastName = name
	}

	return source, nil
}

func (s *ZipSource) Load(t time.Time) ([]byte, bool) {
	member, exists := s.members[FileName(s.city, t)]
	if !exists {
		return nil, false
	}

	reader, err := member.Open()
	if err != nil {
		return nil, false
	}
	defer reader.Close()

	payload, err := io.ReadAll(reader)
	if err != nil || !json.Valid(payload) {
		return nil, false
	}

	return payload, true
}

// LastTimestamp relies on archives storing members in chronological order,
// same as the tar backend.
func (s *ZipSource) LastTimestamp() (time.Time, error) {
	if s.lastName == "" {
		return time.Time{}, errors.New("archive has no members")
	}

	_, fileTime, err := ParseFileName(s.lastName)

	return fileTime, err
}

func (s *ZipSource) Close() error {
	return s.archive.Close()
}
