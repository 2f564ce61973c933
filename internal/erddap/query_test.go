package erddap

import (
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func keys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestSearchParamsOnlySuppliedFilters(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	base := []string{"itemsPerPage", "page", "protocol"}

	tests := []struct {
		name   string
		params SearchParams
		extra  []string
	}{
		{name: "no filters", params: SearchParams{}},
		{name: "text only", params: SearchParams{SearchFor: "sea surface"}, extra: []string{"searchFor"}},
		{name: "empty strings are absent", params: SearchParams{SearchFor: "", StandardName: ""}},
		{
			name:   "bounding box",
			params: SearchParams{MinLon: ptr(-75.0), MaxLon: ptr(-70.0), MinLat: ptr(35.0), MaxLat: ptr(41.5)},
			extra:  []string{"maxLat", "maxLon", "minLat", "minLon"},
		},
		{
			name:   "partial box and time",
			params: SearchParams{StandardName: "sea_water_temperature", MaxLat: ptr(10.0), MinTime: &t0},
			extra:  []string{"maxLat", "minTime", "standard_name"},
		},
		{
			name:   "explicit zero is a bound",
			params: SearchParams{MinLon: ptr(0.0), MaxTime: &t0},
			extra:  []string{"maxTime", "minLon"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := append(append([]string{}, base...), tt.extra...)
			sort.Strings(want)
			assert.Equal(t, want, keys(tt.params.Values()))
		})
	}
}

func TestSearchParamsValues(t *testing.T) {
	from := time.Date(2021, 6, 1, 12, 0, 0, 0, time.FixedZone("EDT", -4*3600))
	v := SearchParams{
		Page:      3,
		PageSize:  10,
		SearchFor: "glider",
		MinLon:    ptr(-72.25),
		MinTime:   &from,
	}.Values()

	assert.Equal(t, "tabledap", v.Get("protocol"))
	assert.Equal(t, "3", v.Get("page"))
	assert.Equal(t, "10", v.Get("itemsPerPage"))
	assert.Equal(t, "glider", v.Get("searchFor"))
	assert.Equal(t, "-72.25", v.Get("minLon"))
	assert.Equal(t, "2021-06-01T16:00:00+00:00", v.Get("minTime"))
}

func TestSearchParamsDefaultPaging(t *testing.T) {
	v := SearchParams{}.Values()
	assert.Equal(t, "1", v.Get("page"))
	assert.Equal(t, "50", v.Get("itemsPerPage"))
}

func TestDataQueryBuild(t *testing.T) {
	end := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	start := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	t.Run("no start bound", func(t *testing.T) {
		q := DataQuery{DatasetID: "ds", Variables: []string{"a", "b"}, End: end, ExcludeNaNs: true}
		assert.Equal(t, "time,a,b&a!=NaN&b!=NaN&time<=2024-01-02T03:04:05+00:00", q.Build())
	})

	t.Run("start bound", func(t *testing.T) {
		q := DataQuery{DatasetID: "ds", Variables: []string{"a"}, Start: &start, End: end, ExcludeNaNs: true}
		assert.Equal(t, "time,a&a!=NaN&time>=2023-12-01T00:00:00+00:00&time<=2024-01-02T03:04:05+00:00", q.Build())
	})

	t.Run("NaNs kept", func(t *testing.T) {
		q := DataQuery{DatasetID: "ds", Variables: []string{"a", "b"}, End: end}
		assert.Equal(t, "time,a,b&time<=2024-01-02T03:04:05+00:00", q.Build())
	})
}

func TestEncodeQueryKeepsGrammarCharacters(t *testing.T) {
	end := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	q := DataQuery{Variables: []string{"sea_water_temperature"}, End: end, ExcludeNaNs: true}

	encoded := q.Encode()
	assert.Equal(t, "time,sea_water_temperature&sea_water_temperature%21=NaN&time%3C=2024-01-02T03:04:05+00:00", encoded)
	for _, c := range querySafeChars {
		assert.Contains(t, encoded, string(c))
	}
}

func TestEncodeQueryEscapesReserved(t *testing.T) {
	assert.Equal(t, "a%21%3C%3E%2F%20%22%3F%23%25%27b", EncodeQuery(`a!<>/ "?#%'b`))
	assert.Equal(t, "&,=:+-T_.~", EncodeQuery("&,=:+-T_.~"))
	assert.Equal(t, "%C3%A9", EncodeQuery("é"))
}

func TestDataFilename(t *testing.T) {
	tests := []struct {
		name string
		ds   string
		vars []string
		want string
	}{
		{name: "one", ds: "ds", vars: []string{"var"}, want: "ds_var.csv"},
		{name: "two", ds: "ds", vars: []string{"v1", "v2"}, want: "ds_v1_v2.csv"},
		{name: "three", ds: "ds", vars: []string{"v1", "v2", "v3"}, want: "ds_v1_v2_v3.csv"},
		{name: "four", ds: "ds", vars: []string{"v1", "v2", "v3", "v4"}, want: "ds_multi_variables.csv"},
		{name: "separators", ds: "org/ds", vars: []string{"a/b", `c\d`}, want: "org_ds_a_b_c_d.csv"},
		{name: "many with separator", ds: "x/y", vars: []string{"1", "2", "3", "4", "5"}, want: "x_y_multi_variables.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DataFilename(tt.ds, tt.vars))
		})
	}
}

func TestSplitVariables(t *testing.T) {
	assert.Equal(t, []string{"temperature"}, SplitVariables("temperature"))
	assert.Equal(t, []string{"temperature", "salinity"}, SplitVariables(" temperature , salinity "))
	assert.Equal(t, []string{"a", "b"}, SplitVariables("a,,b,"))
	assert.Empty(t, SplitVariables(" , "))
}

func TestFormatTimeIsTimezoneSafe(t *testing.T) {
	naive, err := ParseTime("2024-03-10T08:30:00")
	require.NoError(t, err)
	tagged, err := ParseTime("2024-03-10T08:30:00Z")
	require.NoError(t, err)
	offset, err := ParseTime("2024-03-10T03:30:00-05:00")
	require.NoError(t, err)

	want := "2024-03-10T08:30:00+00:00"
	assert.Equal(t, want, FormatTime(naive))
	assert.Equal(t, want, FormatTime(tagged))
	assert.Equal(t, want, FormatTime(offset))
	assert.Equal(t, want, FormatTime(naive.In(time.FixedZone("X", 7200))))

	// Formatting the parsed output again changes nothing.
	again, err := ParseTime(FormatTime(naive))
	require.NoError(t, err)
	assert.Equal(t, want, FormatTime(again))
}

func TestFormatTimeMicroseconds(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 123456789, time.UTC)
	assert.Equal(t, "2024-01-01T00:00:00.123456+00:00", FormatTime(ts))
}

func TestParseTime(t *testing.T) {
	for _, in := range []string{
		"2024-01-31",
		"2024-01-31T00:00",
		"2024-01-31 00:00:00",
		"2024-01-31 00:00:00+00:00",
		"2024-01-31T00:00:00.000Z",
	} {
		got, err := ParseTime(in)
		require.NoError(t, err, in)
		assert.Equal(t, "2024-01-31T00:00:00+00:00", FormatTime(got), in)
	}

	_, err := ParseTime("yesterday")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.True(t, strings.Contains(err.Error(), "yesterday"))
}
