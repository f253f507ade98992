// Package sun decides whether it is day or night in a region from a bundled
// table of daily sunrise and sunset times.
package sun

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// ErrNotFound is returned when a region has no record, or its record has no
// entry for the requested day.
var ErrNotFound = errors.New("sunrise/sunset data not found")

// Taipei is the zone the table's dates and times are expressed in.
var Taipei = time.FixedZone("Asia/Taipei", 8*60*60)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

//go:embed sunrise-sunset.json
var bundledTable []byte

// Entry is one day of a region's sunrise/sunset record.
type Entry struct {
	Date    string `json:"dataTime"` // YYYY-MM-DD
	Sunrise string `json:"sunrise"`  // HH:MM
	Sunset  string `json:"sunset"`   // HH:MM
}

// Record holds the daily entries for one region.
type Record struct {
	RegionName string  `json:"locationName"`
	Entries    []Entry `json:"time"`
}

type daylight struct {
	sunrise time.Time
	sunset  time.Time
}

// Table is an immutable, indexed set of sunrise/sunset records.
type Table struct {
	loc     *time.Location
	regions map[string]map[string]daylight
}

// NewTable indexes the given records. Dates and times are interpreted in loc.
func NewTable(records []Record, loc *time.Location) (*Table, error) {
	if loc == nil {
		loc = Taipei
	}

	t := &Table{
		loc:     loc,
		regions: make(map[string]map[string]daylight, len(records)),
	}

	for _, rec := range records {
		days := make(map[string]daylight, len(rec.Entries))
		for _, e := range rec.Entries {
			d, err := parseEntry(e, loc)
			if err != nil {
				return nil, fmt.Errorf("region %s: %w", rec.RegionName, err)
			}
			days[e.Date] = d
		}
		t.regions[rec.RegionName] = days
	}

	return t, nil
}

// LoadTable decodes a JSON table from r.
func LoadTable(r io.Reader, loc *time.Location) (*Table, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding sunrise/sunset table: %w", err)
	}
	return NewTable(records, loc)
}

// LoadTableFile reads a JSON table from path.
func LoadTableFile(path string, loc *time.Location) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sunrise/sunset table: %w", err)
	}
	defer f.Close()

	return LoadTable(f, loc)
}

// BundledTable returns the table compiled into the binary.
func BundledTable() (*Table, error) {
	return LoadTable(bytes.NewReader(bundledTable), Taipei)
}

// ResolveMoment reports whether now falls within the daylight interval of
// its calendar day in the given region. Both boundaries count as day.
func (t *Table) ResolveMoment(regionName string, now time.Time) (Moment, error) {
	days, ok := t.regions[regionName]
	if !ok {
		return "", fmt.Errorf("region %q: %w", regionName, ErrNotFound)
	}

	local := now.In(t.loc)
	date := local.Format(dateLayout)

	d, ok := days[date]
	if !ok {
		return "", fmt.Errorf("region %q on %s: %w", regionName, date, ErrNotFound)
	}

	if !local.Before(d.sunrise) && !local.After(d.sunset) {
		return MomentDay, nil
	}
	return MomentNight, nil
}

// Regions returns the number of regions in the table.
func (t *Table) Regions() int {
	return len(t.regions)
}

func parseEntry(e Entry, loc *time.Location) (daylight, error) {
	sunrise, err := time.ParseInLocation(dateLayout+" "+timeLayout, e.Date+" "+e.Sunrise, loc)
	if err != nil {
		return daylight{}, fmt.Errorf("parsing sunrise for %s: %w", e.Date, err)
	}
	sunset, err := time.ParseInLocation(dateLayout+" "+timeLayout, e.Date+" "+e.Sunset, loc)
	if err != nil {
		return daylight{}, fmt.Errorf("parsing sunset for %s: %w", e.Date, err)
	}
	return daylight{sunrise: sunrise, sunset: sunset}, nil
}
