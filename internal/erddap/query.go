package erddap

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// standardNamesPageSize is large enough for every categorize listing to fit one page.
	standardNamesPageSize = 99999999

	DefaultPage     = 1
	DefaultPageSize = 50

	// searchProtocol restricts searches to tabular datasets.
	searchProtocol = "tabledap"

	// timeColumn is assumed to be the temporal column of every tabledap dataset.
	timeColumn = "time"

	// allDatasetsColumns is the projection requested from the allDatasets pseudo-dataset.
	allDatasetsColumns = "datasetID,title,minLongitude,maxLongitude,minLatitude,maxLatitude,minTime,maxTime"

	// querySafeChars must stay literal in tabledap queries; the remote parser
	// rejects their percent-encoded form.
	querySafeChars = "&,=:+-T"
)

// SearchParams holds the filters of an advanced search. Nil pointers and empty
// strings are omitted from the query.
type SearchParams struct {
	Page         int
	PageSize     int
	SearchFor    string
	StandardName string
	MinLon       *float64
	MaxLon       *float64
	MinLat       *float64
	MaxLat       *float64
	MinTime      *time.Time
	MaxTime      *time.Time
}

// Values returns the query parameters of the advanced search request.
func (p SearchParams) Values() url.Values {
	page, size := p.Page, p.PageSize
	if page <= 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	v := url.Values{}
	v.Set("protocol", searchProtocol)
	v.Set("page", strconv.Itoa(page))
	v.Set("itemsPerPage", strconv.Itoa(size))
	if p.SearchFor != "" {
		v.Set("searchFor", p.SearchFor)
	}
	if p.StandardName != "" {
		v.Set("standard_name", p.StandardName)
	}
	setFloat(v, "minLon", p.MinLon)
	setFloat(v, "maxLon", p.MaxLon)
	setFloat(v, "minLat", p.MinLat)
	setFloat(v, "maxLat", p.MaxLat)
	if p.MinTime != nil {
		v.Set("minTime", FormatTime(*p.MinTime))
	}
	if p.MaxTime != nil {
		v.Set("maxTime", FormatTime(*p.MaxTime))
	}
	return v
}

func setFloat(v url.Values, key string, f *float64) {
	if f != nil {
		v.Set(key, strconv.FormatFloat(*f, 'f', -1, 64))
	}
}

// DataQuery selects variables of one tabledap dataset.
type DataQuery struct {
	DatasetID   string
	Variables   []string
	Start       *time.Time
	End         time.Time
	ExcludeNaNs bool
}

// Build returns the unencoded tabledap query: the time column and every
// variable, one NaN constraint per variable, then the time bounds.
func (q DataQuery) Build() string {
	parts := make([]string, 0, len(q.Variables)+3)
	parts = append(parts, timeColumn+","+strings.Join(q.Variables, ","))
	if q.ExcludeNaNs {
		for _, v := range q.Variables {
			parts = append(parts, v+"!=NaN")
		}
	}
	if q.Start != nil {
		parts = append(parts, timeColumn+">="+FormatTime(*q.Start))
	}
	parts = append(parts, timeColumn+"<="+FormatTime(q.End))
	return strings.Join(parts, "&")
}

// Encode returns the percent-encoded form of Build.
func (q DataQuery) Encode() string {
	return EncodeQuery(q.Build())
}

// Filename derives the CSV filename for the requested variables.
func (q DataQuery) Filename() string {
	return DataFilename(q.DatasetID, q.Variables)
}

// EncodeQuery percent-encodes s, leaving unreserved characters and the
// tabledap grammar characters unescaped.
func EncodeQuery(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3 / 2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || strings.IndexByte(querySafeChars, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '_', c == '.', c == '-', c == '~':
		return true
	}
	return false
}

// DataFilename sanitizes the dataset id and variable names and joins them
// into a CSV filename. Four or more variables collapse to "multi_variables".
func DataFilename(datasetID string, variables []string) string {
	ds := sanitizeName(datasetID)
	switch n := len(variables); {
	case n == 0:
		return ds + ".csv"
	case n <= 3:
		names := make([]string, n)
		for i, v := range variables {
			names[i] = sanitizeName(v)
		}
		return ds + "_" + strings.Join(names, "_") + ".csv"
	default:
		return ds + "_multi_variables.csv"
	}
}

var pathSeparators = strings.NewReplacer("/", "_", `\`, "_")

func sanitizeName(s string) string {
	return pathSeparators.Replace(s)
}

// SplitVariables splits a comma separated list of variable names, trimming
// whitespace and dropping empty entries.
func SplitVariables(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// FormatTime renders t in UTC as ISO-8601 with an explicit +00:00 offset.
// Microseconds are included only when non-zero.
func FormatTime(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format("2006-01-02T15:04:05.000000-07:00")
	}
	return t.Format("2006-01-02T15:04:05-07:00")
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses an ISO-8601 instant. Inputs without a zone are taken as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, invalidArgument("cannot parse time %q, expected ISO-8601 such as 2024-01-31T00:00:00Z", s)
}
