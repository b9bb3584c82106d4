package snapshot

import (
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Format(t *testing.T) {
	loc := time.FixedZone("", 8*3600)
	ts := time.Date(2024, 8, 31, 22, 5, 24, 875154018, loc)

	c := Codec{Location: loc}
	assert.Equal(t, "2024-08-31_22-05-24_GMT_08-00_875154018", c.Encode(ts))
	assert.Equal(t, "Stats_2024-08-31_22-05-24_GMT_08-00_875154018.sqlite3", c.FileName(ts))
}

func TestEncode_ZeroNanosKeepsNineDigits(t *testing.T) {
	c := Codec{Location: time.UTC}
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, "2025-01-02_03-04-05_GMT_00-00_000000000", c.Encode(ts))
}

func TestEncode_NegativeOffset(t *testing.T) {
	loc := time.FixedZone("", -(3*3600 + 30*60))
	c := Codec{Location: loc}
	ts := time.Date(2025, 3, 9, 1, 2, 3, 42, loc)

	assert.Equal(t, "2025-03-09_01-02-03_GMT-03-30_000000042", c.Encode(ts))
}

func TestEncode_ConvertsToCodecLocation(t *testing.T) {
	c := Codec{Location: time.FixedZone("", 2*3600)}
	ts := time.Date(2025, 6, 1, 23, 30, 0, 1, time.UTC)

	assert.Equal(t, "2025-06-02_01-30-00_GMT_02-00_000000001", c.Encode(ts))
}

func TestEncode_DefaultLocationMatchesFormat(t *testing.T) {
	// same shape as the names written by earlier releases
	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}_GMT[_-]\d{2}-\d{2}_\d{9}$`)
	assert.Regexp(t, pattern, Codec{}.Encode(time.Now()))
}

func TestDecode_RoundTripAllOffsets(t *testing.T) {
	base := time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC)

	for minutes := -12 * 60; minutes <= 14*60; minutes += 15 {
		loc := time.FixedZone("", minutes*60)
		c := Codec{Location: loc}

		for _, nanos := range []int{0, 1, 500, 123456789, 999999999} {
			ts := base.Add(time.Duration(nanos) - 999999999)

			got, ok := Decode(c.FileName(ts))
			require.True(t, ok, "offset %d minutes", minutes)
			assert.True(t, got.Equal(ts), "offset %d minutes: got %v want %v", minutes, got, ts)
			assert.Equal(t, ts.Nanosecond(), got.Nanosecond())
		}
	}
}

func TestDecode_NameRoundTrip(t *testing.T) {
	names := []string{
		"Stats_2024-08-31_22-05-24_GMT_08-00_875154018.sqlite3",
		"Stats_2025-01-02_03-04-05_GMT_00-00_000000000.sqlite3",
		"Stats_2025-03-09_01-02-03_GMT-03-30_000000042.sqlite3",
		"Stats_1999-12-31_00-00-00_GMT_14-00_999999999.sqlite3",
	}

	for _, name := range names {
		ts, ok := Decode(name)
		require.True(t, ok, name)
		assert.Equal(t, name, Prefix+Format(ts)+Ext)
	}
}

func TestDecode_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing nanos":        "Stats_2024-08-31_22-05-24_GMT_08-00.sqlite3",
		"short nanos":          "Stats_2024-08-31_22-05-24_GMT_08-00_87515401.sqlite3",
		"long nanos":           "Stats_2024-08-31_22-05-24_GMT_08-00_8751540180.sqlite3",
		"plus sign":            "Stats_2024-08-31_22-05-24_GMT+08-00_875154018.sqlite3",
		"colon offset":         "Stats_2024-08-31_22-05-24_GMT_08:00_875154018.sqlite3",
		"wrong time separator": "Stats_2024-08-31_22:05:24_GMT_08-00_875154018.sqlite3",
		"no GMT":               "Stats_2024-08-31_22-05-24__08-00_875154018.sqlite3",
		"wrong prefix":         "stats_2024-08-31_22-05-24_GMT_08-00_875154018.sqlite3",
		"wrong extension":      "Stats_2024-08-31_22-05-24_GMT_08-00_875154018.sqlite",
		"trailing chars":       "Stats_2024-08-31_22-05-24_GMT_08-00_875154018.sqlite3.bak",
		"leading chars":        "xStats_2024-08-31_22-05-24_GMT_08-00_875154018.sqlite3",
		"month out of range":   "Stats_2024-13-01_22-05-24_GMT_08-00_875154018.sqlite3",
		"day out of range":     "Stats_2023-02-29_22-05-24_GMT_08-00_875154018.sqlite3",
		"hour out of range":    "Stats_2024-08-31_24-05-24_GMT_08-00_875154018.sqlite3",
		"offset minutes":       "Stats_2024-08-31_22-05-24_GMT_08-60_875154018.sqlite3",
		"negative zero":        "Stats_2024-08-31_22-05-24_GMT-00-00_875154018.sqlite3",
		"empty":                "",
		"tmp copy":             ".tmp-Stats_2024-08-31_22-05-24_GMT_08-00_875154018.sqlite3",
	}

	for desc, name := range cases {
		_, ok := Decode(name)
		assert.False(t, ok, desc)
		assert.False(t, Matches(name), desc)
	}
}

func TestDecode_OrdersChronologically(t *testing.T) {
	earlier, ok := Decode("Stats_2024-08-31_22-05-24_GMT_08-00_000000001.sqlite3")
	require.True(t, ok)
	later, ok := Decode("Stats_2024-08-31_22-05-24_GMT_08-00_000000002.sqlite3")
	require.True(t, ok)

	assert.True(t, later.After(earlier))
}

func TestFromName(t *testing.T) {
	dir := t.TempDir()
	name := "Stats_2024-08-31_22-05-24_GMT_08-00_875154018.sqlite3"

	e, ok := FromName(dir, name)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, name), e.Path)
	assert.Equal(t, name, e.Name)
	assert.Equal(t, 875154018, e.Timestamp.Nanosecond())

	_, ok = FromName(dir, "notes.txt")
	assert.False(t, ok)
}
