package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"transitboard/internal/metrics"
	"transitboard/internal/models"
	"transitboard/internal/service"
)

type fakeRidershipService struct {
	lastFilter models.RidershipFilter
	rows       []models.RidershipRow
	totals     []models.DailyRidership
	buses      []string
	drivers    []string
	inserted   []service.InsertRequest
	err        error
}

func (f *fakeRidershipService) List(ctx context.Context, filter models.RidershipFilter) ([]models.RidershipRow, error) {
	f.lastFilter = filter
	return f.rows, f.err
}

func (f *fakeRidershipService) DailyTotals(ctx context.Context) ([]models.DailyRidership, error) {
	return f.totals, f.err
}

func (f *fakeRidershipService) Insert(ctx context.Context, req service.InsertRequest) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, req)
	return nil
}

func (f *fakeRidershipService) DistinctBusIDs(ctx context.Context) ([]string, error) {
	return f.buses, f.err
}

func (f *fakeRidershipService) DistinctDriverIDs(ctx context.Context) ([]string, error) {
	return f.drivers, f.err
}

func newRidershipHandlers(svc *fakeRidershipService) *RidershipHandlers {
	return NewRidershipHandlers(svc, metrics.NewCollector(), zap.NewNop())
}

func TestBusDataParsesQueryParams(t *testing.T) {
	svc := &fakeRidershipService{rows: []models.RidershipRow{}}
	h := newRidershipHandlers(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/busdata?page=3&per_page=20&route_id=R12&date_from=2024-01-01&date_to=2024-01-31&trip_headsign=down", nil)
	rec := httptest.NewRecorder()
	h.BusData(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RidershipFilter{
		Page:         3,
		PerPage:      20,
		RouteID:      "R12",
		DateFrom:     "2024-01-01",
		DateTo:       "2024-01-31",
		TripHeadsign: "down",
	}, svc.lastFilter)
}

func TestBusDataDefaultsPagination(t *testing.T) {
	svc := &fakeRidershipService{}
	h := newRidershipHandlers(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/busdata?page=junk", nil)
	rec := httptest.NewRecorder()
	h.BusData(rec, req)

	assert.Equal(t, 1, svc.lastFilter.Page)
	assert.Equal(t, 50, svc.lastFilter.PerPage)
}

func TestBusDataEmptyResultIsJSONArray(t *testing.T) {
	h := newRidershipHandlers(&fakeRidershipService{rows: []models.RidershipRow{}})

	req := httptest.NewRequest(http.MethodGet, "/api/busdata", nil)
	rec := httptest.NewRecorder()
	h.BusData(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestBusDataStorageFailureIsGeneric500(t *testing.T) {
	h := newRidershipHandlers(&fakeRidershipService{err: errors.New("pq: connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/api/busdata", nil)
	rec := httptest.NewRecorder()
	h.BusData(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestMetricsReturnsTotals(t *testing.T) {
	h := newRidershipHandlers(&fakeRidershipService{totals: []models.DailyRidership{
		{Date: "2024-06-17", TotalRiders: 120},
		{Date: "2024-06-16", TotalRiders: 80},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	rec := httptest.NewRecorder()
	h.Metrics(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.DailyRidership
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2024-06-17", got[0].Date)
	assert.Equal(t, int64(120), got[0].TotalRiders)
}

func TestInsertRidershipSuccess(t *testing.T) {
	svc := &fakeRidershipService{}
	h := newRidershipHandlers(svc)

	body := `{
		"fact_date":"2024-06-15","arrival_time":"08:15:00","departure_time":"08:17:00",
		"trip_id":"T100","route_id":"R12","ridership_count":42,"avg_wait_time_min":3.5,
		"avg_delay_min":1.2,"fare_collected":96.4,"weather_code":"RA","bus_id":"BUS-7","driver_id":"DRV-3"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/insert_ridership", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.InsertRidership(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"ridership data inserted successfully"}`, rec.Body.String())
	require.Len(t, svc.inserted, 1)
}

func TestInsertRidershipMissingFieldsIs400(t *testing.T) {
	svc := &fakeRidershipService{err: service.ErrMissingFields}
	h := newRidershipHandlers(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/insert_ridership", strings.NewReader(`{"fact_date":"2024-06-15"}`))
	rec := httptest.NewRecorder()
	h.InsertRidership(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"missing required fields"}`, rec.Body.String())
}

func TestInsertRidershipStorageErrorIsGeneric(t *testing.T) {
	svc := &fakeRidershipService{err: errors.New("duplicate key value violates unique constraint")}
	h := newRidershipHandlers(svc)

	body := `{"fact_date":"2024-06-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/insert_ridership", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.InsertRidership(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "duplicate key", "storage detail must not leak to clients")
}

func TestInsertRidershipBadJSONIs400(t *testing.T) {
	h := newRidershipHandlers(&fakeRidershipService{})

	req := httptest.NewRequest(http.MethodPost, "/api/insert_ridership", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.InsertRidership(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDropdownsReturnPlainArrays(t *testing.T) {
	h := newRidershipHandlers(&fakeRidershipService{
		buses:   []string{"BUS-1", "BUS-2"},
		drivers: []string{"DRV-1"},
	})

	rec := httptest.NewRecorder()
	h.BusDropdown(rec, httptest.NewRequest(http.MethodGet, "/api/bus_dropdown", nil))
	assert.JSONEq(t, `["BUS-1","BUS-2"]`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.DriverDropdown(rec, httptest.NewRequest(http.MethodGet, "/api/driver_dropdown", nil))
	assert.JSONEq(t, `["DRV-1"]`, rec.Body.String())
}

func TestDropdownFailureIs500(t *testing.T) {
	h := newRidershipHandlers(&fakeRidershipService{err: errors.New("dial tcp: connection refused")})

	rec := httptest.NewRecorder()
	h.BusDropdown(rec, httptest.NewRequest(http.MethodGet, "/api/bus_dropdown", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "dial tcp")
}
