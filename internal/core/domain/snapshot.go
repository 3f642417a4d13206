package domain

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Snapshot is an immutable, normalized record set for one variant.
// Readers share it; a reload replaces it as a whole.
type Snapshot struct {
	Variant  string    `json:"variant"`
	Version  int64     `json:"version"`
	LoadedAt time.Time `json:"loadedAt"`
	Source   string    `json:"source"`
	Records  []Record  `json:"-"`

	// Fingerprint identifies the loaded data independently of the process
	// that loaded it. Version is only meaningful within one process.
	Fingerprint string `json:"fingerprint"`
}

// Fingerprint digests a raw export. Equal exports yield equal fingerprints
// in every process.
func Fingerprint(raw []RawRecord) string {
	d := xxhash.New()
	for _, r := range raw {
		b, _ := r.MarshalJSON()
		_, _ = d.Write(b)
		_, _ = d.Write([]byte{'\n'})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Summary is the aggregate of one filtered view of a snapshot.
type Summary struct {
	Variant string          `json:"variant"`
	Version int64           `json:"version"`
	Filter  FilterSpec      `json:"filter"`
	Matched int             `json:"matched"`
	Total   int             `json:"total"`
	Result  AggregateResult `json:"result"`
}

// RecordPage is a window of a filtered view.
type RecordPage struct {
	Items  []Record `json:"items"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}
