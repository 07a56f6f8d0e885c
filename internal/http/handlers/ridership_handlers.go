package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"transitboard/internal/metrics"
	"transitboard/internal/models"
	"transitboard/internal/service"
)

// RidershipService is the data contract used by the API handlers.
type RidershipService interface {
	List(ctx context.Context, filter models.RidershipFilter) ([]models.RidershipRow, error)
	DailyTotals(ctx context.Context) ([]models.DailyRidership, error)
	Insert(ctx context.Context, req service.InsertRequest) error
	DistinctBusIDs(ctx context.Context) ([]string, error)
	DistinctDriverIDs(ctx context.Context) ([]string, error)
}

// RidershipHandlers serves the /api ridership surface.
type RidershipHandlers struct {
	svc       RidershipService
	collector *metrics.Collector
	logger    *zap.Logger
}

// NewRidershipHandlers returns handler struct.
func NewRidershipHandlers(svc RidershipService, collector *metrics.Collector, logger *zap.Logger) *RidershipHandlers {
	return &RidershipHandlers{svc: svc, collector: collector, logger: logger}
}

// BusData handles GET /api/busdata: the filtered, paginated ridership read.
func (h *RidershipHandlers) BusData(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.RidershipFilter{
		Page:         intParam(query.Get("page"), 1),
		PerPage:      intParam(query.Get("per_page"), 50),
		RouteID:      query.Get("route_id"),
		DateFrom:     query.Get("date_from"),
		DateTo:       query.Get("date_to"),
		TripHeadsign: query.Get("trip_headsign"),
	}

	rows, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("ridership list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch ridership data")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// Metrics handles GET /api/metrics: last-30-dates rider totals.
func (h *RidershipHandlers) Metrics(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.DailyTotals(r.Context())
	if err != nil {
		h.logger.Error("daily totals failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch metrics")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// InsertRidership handles POST /api/insert_ridership. Admin gating happens
// in middleware; this handler validates and writes.
func (h *RidershipHandlers) InsertRidership(w http.ResponseWriter, r *http.Request) {
	var req service.InsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.collector.InsertFailures.Inc()
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.svc.Insert(r.Context(), req); err != nil {
		h.collector.InsertFailures.Inc()
		switch {
		case errors.Is(err, service.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "missing required fields")
		case errors.Is(err, service.ErrInvalidDate):
			writeError(w, http.StatusBadRequest, "fact_date must be YYYY-MM-DD")
		default:
			// Storage error detail stays in the server log.
			h.logger.Error("ridership insert failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to insert ridership data")
		}
		return
	}

	h.collector.RidershipInserts.Inc()
	writeMessage(w, http.StatusCreated, "ridership data inserted successfully")
}

// BusDropdown handles GET /api/bus_dropdown.
func (h *RidershipHandlers) BusDropdown(w http.ResponseWriter, r *http.Request) {
	h.dropdown(w, r, h.svc.DistinctBusIDs)
}

// DriverDropdown handles GET /api/driver_dropdown.
func (h *RidershipHandlers) DriverDropdown(w http.ResponseWriter, r *http.Request) {
	h.dropdown(w, r, h.svc.DistinctDriverIDs)
}

func (h *RidershipHandlers) dropdown(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]string, error)) {
	values, err := fetch(r.Context())
	if err != nil {
		h.logger.Error("dropdown lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch lookup values")
		return
	}
	if values == nil {
		values = []string{}
	}
	writeJSON(w, http.StatusOK, values)
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
