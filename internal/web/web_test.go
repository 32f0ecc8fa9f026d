package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cob-tracker/internal/logging"
	"cob-tracker/internal/model"
	"cob-tracker/internal/stats"
)

type fixedList struct {
	cobs []model.Cob
	err  error
}

func (f fixedList) ListCobs(context.Context) ([]model.Cob, error) { return f.cobs, f.err }

func july() []model.Cob {
	return []model.Cob{
		{ID: "c", Date: "31/07/2025", StartTime: "10:00", EndTime: "10:00", DurationText: "0h 0m"},
		{ID: "b", Date: "15/07/2025", StartTime: "09:00", EndTime: "17:30", DurationText: "8h 30m"},
		{ID: "a", Date: "01/07/2025", StartTime: "22:00", EndTime: "02:00", DurationText: "4h 0m"},
	}
}

func serve(t *testing.T, l Lister, path string) *httptest.ResponseRecorder {
	t.Helper()
	p, err := New(l, "https://api.example.test/api", logging.Discard())
	require.NoError(t, err)
	r := mux.NewRouter()
	p.Mount(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestDashboard(t *testing.T) {
	rec := serve(t, fixedList{cobs: july()}, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<b>3</b>")
	assert.Contains(t, body, "4.17h")
	assert.Contains(t, body, "<polyline")
	assert.Contains(t, body, "api.example.test")
	// calendar order, oldest first
	assert.Less(t, strings.Index(body, "01/07/2025"), strings.Index(body, "15/07/2025"))
}

func TestDashboardFiltered(t *testing.T) {
	rec := serve(t, fixedList{cobs: july()}, "/?from=2025-07-01&to=2025-07-15")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "15/07/2025")
	assert.NotContains(t, body, "31/07/2025")
	assert.Contains(t, body, `value="2025-07-15"`)
}

func TestDashboardErrors(t *testing.T) {
	rec := serve(t, fixedList{err: errors.New("db down")}, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="error"`)

	rec = serve(t, fixedList{cobs: july()}, "/?from=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "YYYY-MM-DD")
}

func TestDashboardEmpty(t *testing.T) {
	rec := serve(t, fixedList{}, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No entries.")
	assert.NotContains(t, rec.Body.String(), "<svg")
}

func TestStaticPages(t *testing.T) {
	for path, marker := range map[string]string{
		"/admin": "cobToken",
		"/login": "/auth/login",
	} {
		rec := serve(t, fixedList{}, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), marker, path)
	}
}

func TestBuildChart(t *testing.T) {
	assert.True(t, buildChart(nil).Empty)

	_, sum := stats.Dashboard(july(), stats.Range{})
	c := buildChart(sum.Points)
	require.Len(t, c.Bars, 3)
	assert.Equal(t, 0.0, c.Bars[2].H, "zero-length shift")
	assert.Greater(t, c.Bars[1].H, c.Bars[0].H, "8.5h bar taller than 4h bar")
	assert.Len(t, strings.Fields(c.Line), 3)
	assert.Len(t, c.Ticks, 5)
	assert.Equal(t, "0h", c.Ticks[0].Label)
}
