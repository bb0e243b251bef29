package snapshots

import (
	"fmt"
	"path"
	"strings"
	"time"
)

const fileTimeLayout = "2006-01-02--15-04"

// FileName builds the canonical per-cycle file name, e.g.
// "vancouver_2015-06-19--08-30". Timestamps are naive local time.
func FileName(city string, t time.Time) string {
	return fmt.Sprintf("%s_%s", city, t.Format(fileTimeLayout))
}

// ParseFileName recovers city and cycle timestamp from a file or archive
// member name. A name that carries a file extension instead of a time
// suffix (like "wien_2015-06-19.tar.gz") means midnight that day.
func ParseFileName(name string) (string, time.Time, error) {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))

	separator := strings.LastIndex(name, "_")
	if separator < 1 {
		return "", time.Time{}, fmt.Errorf("file name %s does not match city_date format", name)
	}

	city := name[:separator]
	leftover := name[separator+1:]

	// Split on the first dot only, so multi-dot extensions survive. A bare
	// date with no time-of-day suffix means midnight.
	if datePart, _, found := strings.Cut(leftover, "."); found {
		leftover = datePart
		if !strings.Contains(datePart, "--") {
			leftover = datePart + "--00-00"
		}
	}

	fileTime, err := time.Parse(fileTimeLayout, leftover)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("file name %s has unrecognised timestamp: %w", name, err)
	}

	return city, fileTime, nil
}
