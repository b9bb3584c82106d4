package snapshot

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Snapshot files look like
//
//	Stats_2024-08-31_22-05-24_GMT_08-00_875154018.sqlite3
//
// The zone sign is '_' for offsets east of UTC (and UTC itself) and '-'
// for offsets west of it, so the name never contains '+' or ':'.
const (
	Prefix = "Stats_"
	Ext    = ".sqlite3"

	stampLayout = "2006-01-02_15-04-05"
)

var namePattern = regexp.MustCompile(`^Stats_(\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2})_GMT([_-])(\d{2})-(\d{2})_(\d{9})\.sqlite3$`)

// Codec encodes instants in a fixed location. The zero value uses time.Local.
type Codec struct {
	Location *time.Location
}

func (c Codec) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Encode returns the timestamp fragment of a snapshot name for t,
// expressed in the codec's location.
func (c Codec) Encode(t time.Time) string {
	return Format(t.In(c.location()))
}

// FileName returns the full snapshot file name for t.
func (c Codec) FileName(t time.Time) string {
	return Prefix + c.Encode(t) + Ext
}

// Format renders t in its own location. Format(Decode(name)) reproduces
// the fragment embedded in name.
func Format(t time.Time) string {
	_, offset := t.Zone()
	sign := '_'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("%s_GMT%c%02d-%02d_%09d",
		t.Format(stampLayout), sign, offset/3600, (offset%3600)/60, t.Nanosecond())
}

// Decode parses a snapshot file name. It reports false for anything that
// does not match the naming scheme exactly; such files are not ours.
func Decode(name string) (time.Time, bool) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}

	hours, _ := strconv.Atoi(m[3])
	minutes, _ := strconv.Atoi(m[4])
	if hours > 23 || minutes > 59 {
		return time.Time{}, false
	}
	offset := hours*3600 + minutes*60
	if m[2] == "-" {
		if offset == 0 {
			// UTC is always written with '_'
			return time.Time{}, false
		}
		offset = -offset
	}

	t, err := time.ParseInLocation(stampLayout, m[1], time.FixedZone("", offset))
	if err != nil {
		return time.Time{}, false
	}

	nanos, _ := strconv.Atoi(m[5])
	return t.Add(time.Duration(nanos)), true
}

// Matches reports whether name follows the snapshot naming scheme.
func Matches(name string) bool {
	_, ok := Decode(name)
	return ok
}
