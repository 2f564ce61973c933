package erddap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeERDDAP serves canned responses and counts the requests it receives.
type fakeERDDAP struct {
	*httptest.Server
	calls    atomic.Int32
	lastPath atomic.Value
	lastRaw  atomic.Value
}

func newFakeERDDAP(t *testing.T, handler http.HandlerFunc) *fakeERDDAP {
	t.Helper()
	f := &fakeERDDAP{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		f.lastPath.Store(r.URL.Path)
		f.lastRaw.Store(r.URL.RawQuery)
		handler(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeERDDAP) path() string {
	s, _ := f.lastPath.Load().(string)
	return s
}

func (f *fakeERDDAP) rawQuery() string {
	s, _ := f.lastRaw.Load().(string)
	return s
}

func serve(body, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}
}

func TestStandardNames(t *testing.T) {
	srv := newFakeERDDAP(t, serve(`{"table":{"columnNames":["Category","URL"],"rows":[["air_temperature","u1"],["sea_water_temperature","u2"]]}}`, "application/json"))
	c := NewClient()

	names, err := c.StandardNames(context.Background(), srv.URL+"/erddap/")
	require.NoError(t, err)
	assert.Equal(t, []string{"air_temperature", "sea_water_temperature"}, names)
	assert.Equal(t, "/erddap/categorize/standard_name/index.json", srv.path())
	assert.Equal(t, "itemsPerPage=99999999&page=1", srv.rawQuery())
}

func TestStandardNamesMissingRows(t *testing.T) {
	srv := newFakeERDDAP(t, serve(`{"table":{"columnNames":["Category"]}}`, "application/json"))

	_, err := NewClient().StandardNames(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteRequest)
	assert.NotErrorIs(t, err, ErrRemoteTimeout)
}

func TestSearchDatasets(t *testing.T) {
	srv := newFakeERDDAP(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "tabledap", q.Get("protocol"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "5", q.Get("itemsPerPage"))
		assert.Equal(t, "sea_water_temperature", q.Get("standard_name"))
		assert.Equal(t, "0", q.Get("minLat"))
		assert.False(t, q.Has("searchFor"))
		assert.False(t, q.Has("maxLon"))
		assert.True(t, q.Has("tabledap/allDatasets.json"))
		serve(`{"table":{"columnNames":["griddap","Subset","tabledap","Make A Graph","wms","files","Title","Summary","FGDC","ISO 19115","Info","Background Info","RSS","Email","Institution","Dataset ID"],
			"rows":[["","","t","","","","Glider","Profiles","","","","","","","RU","ru_glider"]]}}`, "application/json")(w, r)
	})

	got, err := NewClient().SearchDatasets(context.Background(), srv.URL, SearchParams{
		Page:         2,
		PageSize:     5,
		StandardName: "sea_water_temperature",
		MinLat:       ptr(0.0),
	})
	require.NoError(t, err)
	assert.Equal(t, []DatasetSummary{{DatasetID: "ru_glider", Title: "Glider", Summary: "Profiles"}}, got)
	assert.Equal(t, "/search/advanced.json", srv.path())
}

func TestSearchDatasetsMalformedRow(t *testing.T) {
	srv := newFakeERDDAP(t, serve(`{"table":{"rows":[["too","short"]]}}`, "application/json"))

	_, err := NewClient().SearchDatasets(context.Background(), srv.URL, SearchParams{})
	assert.ErrorIs(t, err, ErrRemoteRequest)
}

func TestListDatasetsVerbatim(t *testing.T) {
	csv := "datasetID,title,minLongitude,maxLongitude,minLatitude,maxLatitude,minTime (UTC),maxTime (UTC)\nallDatasets,\"All, datasets\",,,,,,\n"
	srv := newFakeERDDAP(t, serve(csv, "text/csv"))

	out, err := NewClient().ListDatasets(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, csv, out)
	assert.Equal(t, "/tabledap/allDatasets.csvp", srv.path())
	assert.Equal(t, allDatasetsColumns, srv.rawQuery())
}

func TestListDatasetVariables(t *testing.T) {
	srv := newFakeERDDAP(t, serve(`{"table":{"columnNames":["Row Type","Variable Name","Attribute Name","Data Type","Value"],"rows":[
		["attribute","NC_GLOBAL","title","String","Buoy"],
		["variable","time","","double",""],
		["attribute","time","axis","String","T"],
		["attribute","time","units","String","seconds since 1970-01-01T00:00:00Z"],
		["variable","sea_water_temperature","","float",""],
		["attribute","sea_water_temperature","standard_name","String","sea_water_temperature"],
		["attribute","sea_water_temperature","units","String","degree_Celsius"]
	]}}`, "application/json"))

	out, err := NewClient().ListDatasetVariables(context.Background(), srv.URL, "buoy_1")
	require.NoError(t, err)
	assert.Equal(t, "variable_name,long_name,standard_name,units,axis\n"+
		"time,,,seconds since 1970-01-01T00:00:00Z,T\n"+
		"sea_water_temperature,,sea_water_temperature,degree_Celsius,\n", out)
	assert.Equal(t, "/info/buoy_1/index.json", srv.path())
}

func TestVariableData(t *testing.T) {
	body := "time (UTC),temp (degC),sal (1)\n2024-01-01T00:00:00Z,10.5,35.1\n"
	srv := newFakeERDDAP(t, serve(body, "text/csv"))
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewClient(WithClock(func() time.Time { return now }))

	payload, err := c.VariableData(context.Background(), srv.URL, DataQuery{
		DatasetID:   "buoy_1",
		Variables:   []string{"temp", "sal"},
		ExcludeNaNs: true,
	})
	require.NoError(t, err)
	assert.Equal(t, &FilePayload{Type: "file", MIME: "text/csv", Filename: "buoy_1_temp_sal.csv", Content: body}, payload)
	assert.Equal(t, "/tabledap/buoy_1.csvp", srv.path())
	assert.Equal(t, "time,temp,sal&temp%21=NaN&sal%21=NaN&time%3C=2024-01-02T03:04:05+00:00", srv.rawQuery())
}

func TestVariableDataFailsFast(t *testing.T) {
	srv := newFakeERDDAP(t, serve("", "text/csv"))
	c := NewClient()
	ctx := context.Background()

	_, err := c.VariableData(ctx, srv.URL, DataQuery{DatasetID: "", Variables: []string{"temp"}})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.VariableData(ctx, srv.URL, DataQuery{DatasetID: "  ", Variables: []string{"temp"}})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.VariableData(ctx, srv.URL, DataQuery{DatasetID: "buoy_1"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.VariableData(ctx, "", DataQuery{DatasetID: "buoy_1", Variables: []string{"temp"}})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.DatasetVariables(ctx, srv.URL, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Zero(t, srv.calls.Load())
}

func TestNonSuccessStatus(t *testing.T) {
	srv := newFakeERDDAP(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `Error {code=404; message="Not Found: Your query produced no matching results.";}`, http.StatusNotFound)
	})

	_, err := NewClient().ListDatasets(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteRequest)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Contains(t, err.Error(), "no matching results")
}

func TestTimeout(t *testing.T) {
	srv := newFakeERDDAP(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	_, err := NewClient(WithTimeout(50*time.Millisecond)).ListDatasets(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteTimeout)
	assert.ErrorIs(t, err, ErrRemoteRequest)
}

func TestRateLimitHonoursContext(t *testing.T) {
	srv := newFakeERDDAP(t, serve("x", "text/csv"))
	c := NewClient(WithRateLimit(0.001, 1))

	_, err := c.ListDatasets(context.Background(), srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.ListDatasets(ctx, srv.URL)
	assert.ErrorIs(t, err, ErrRemoteRequest)
	assert.EqualValues(t, 1, srv.calls.Load())
}

func TestInvalidBaseURL(t *testing.T) {
	_, err := NewClient().StandardNames(context.Background(), "not a url")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
