package modrinth

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/booky10/modrinth-downloader/cache"
)

// Version is one published version of a project. Only the fields the
// downloader needs are decoded; Raw keeps the complete upstream document.
type Version struct {
	ID            string `json:"id"`
	ProjectID     string `json:"project_id"`
	VersionNumber string `json:"version_number"`
	Files         []File `json:"files"`

	Raw json.RawMessage `json:"-"`
}

type File struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Primary  bool   `json:"primary"`
	Size     int64  `json:"size"`
	Hashes   Hashes `json:"hashes"`
}

type Hashes struct {
	Sha1   string `json:"sha1"`
	Sha512 string `json:"sha512"`
}

// PrimaryFile returns the file flagged as primary, or the first file when
// none is flagged.
func (v Version) PrimaryFile() (File, bool) {
	for _, file := range v.Files {
		if file.Primary {
			return file, true
		}
	}
	if len(v.Files) > 0 {
		return v.Files[0], true
	}
	return File{}, false
}

// UnmarshalJSON decodes the known fields and keeps a copy of the document.
func (v *Version) UnmarshalJSON(data []byte) error {
	type plain Version
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*v = Version(decoded)
	v.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Ensure LatestQuery implements cache.Fingerprinter
var _ cache.Fingerprinter = LatestQuery{}

// LatestQuery selects the newest version of a project matching optional
// filters. A nil filter is not sent upstream.
type LatestQuery struct {
	Project      string
	Loaders      []string
	GameVersions []string
	Featured     *bool
}

// Fingerprint encodes the query with a fixed field order. Absent filters and
// empty filters encode differently since the API treats them differently.
func (q LatestQuery) Fingerprint() (string, error) {
	parts := []string{"project=" + q.Project}

	for _, filter := range []struct {
		name   string
		values []string
	}{
		{"loaders", q.Loaders},
		{"game_versions", q.GameVersions},
	} {
		if filter.values == nil {
			parts = append(parts, filter.name+"=-")
			continue
		}
		encoded, err := json.Marshal(filter.values)
		if err != nil {
			return "", fmt.Errorf("failed to encode %s: %w", filter.name, err)
		}
		parts = append(parts, filter.name+"="+string(encoded))
	}

	featured := "-"
	if q.Featured != nil {
		featured = fmt.Sprint(*q.Featured)
	}
	parts = append(parts, "featured="+featured)

	return strings.Join(parts, ";"), nil
}
