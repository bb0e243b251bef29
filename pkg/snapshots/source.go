package snapshots

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Source yields raw per-cycle fleet snapshot payloads for one city from a
// single backing store. The three backends (directory, tar, zip) behave
// identically as far as callers can observe.
type Source interface {
	// Load returns the payload captured at t. The second return is false
	// when the cycle is missing, unreadable or not valid JSON; Load never
	// fails harder than that.
	Load(t time.Time) ([]byte, bool)

	// LastTimestamp is the timestamp of the newest cycle in the store,
	// used to bound open-ended batch requests.
	LastTimestamp() (time.Time, error)

	Close() error
}

// Open picks the backend for a location: a directory of one-file-per-cycle,
// a tar archive (optionally gzipped) or a zip archive. A file that is not a
// supported container format is a configuration error.
func Open(city string, location string) (Source, error) {
	fileInfo, err := os.Stat(location)
	if err != nil {
		return nil, err
	}

	if fileInfo.IsDir() {
		return NewDirectorySource(city, location), nil
	}

	switch {
	case strings.HasSuffix(location, ".tar"), strings.HasSuffix(location, ".tar.gz"), strings.HasSuffix(location, ".tgz"):
		return NewTarSource(city, location)
	case strings.HasSuffix(location, ".zip"):
		return NewZipSource(city, location)
	}

	return nil, fmt.Errorf("%s is not a directory, tar or zip archive", location)
}
