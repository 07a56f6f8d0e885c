package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"transitboard/internal/models"
)

var (
	// ErrMissingFields rejects an insert payload before storage is touched.
	ErrMissingFields = errors.New("ridership: missing required fields")
	// ErrInvalidDate rejects a fact_date that is not a YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("ridership: fact_date must be YYYY-MM-DD")
)

// RidershipRepository defines the storage contract used by the service.
type RidershipRepository interface {
	List(ctx context.Context, filter models.RidershipFilter) ([]models.RidershipRow, error)
	DailyTotals(ctx context.Context) ([]models.DailyRidership, error)
	Insert(ctx context.Context, fact *models.RidershipFact) error
	DistinctBusIDs(ctx context.Context) ([]string, error)
	DistinctDriverIDs(ctx context.Context) ([]string, error)
}

// InsertRequest is the raw admin insert payload. Fields are pointers so that
// an absent field is distinguishable from a zero value.
type InsertRequest struct {
	FactDate       *string  `json:"fact_date"`
	ArrivalTime    *string  `json:"arrival_time"`
	DepartureTime  *string  `json:"departure_time"`
	TripID         *string  `json:"trip_id"`
	RouteID        *string  `json:"route_id"`
	RidershipCount *int64   `json:"ridership_count"`
	AvgWaitTimeMin *float64 `json:"avg_wait_time_min"`
	AvgDelayMin    *float64 `json:"avg_delay_min"`
	FareCollected  *float64 `json:"fare_collected"`
	WeatherCode    *string  `json:"weather_code"`
	BusID          *string  `json:"bus_id"`
	DriverID       *string  `json:"driver_id"`
}

func (r *InsertRequest) complete() bool {
	return r.FactDate != nil &&
		r.ArrivalTime != nil &&
		r.DepartureTime != nil &&
		r.TripID != nil &&
		r.RouteID != nil &&
		r.RidershipCount != nil &&
		r.AvgWaitTimeMin != nil &&
		r.AvgDelayMin != nil &&
		r.FareCollected != nil &&
		r.WeatherCode != nil &&
		r.BusID != nil &&
		r.DriverID != nil
}

// RidershipService validates and executes ridership reads and writes.
type RidershipService struct {
	repo   RidershipRepository
	logger *zap.Logger
}

// NewRidershipService builds RidershipService.
func NewRidershipService(repo RidershipRepository, logger *zap.Logger) *RidershipService {
	return &RidershipService{repo: repo, logger: logger}
}

// List returns one page of ridership rows.
func (s *RidershipService) List(ctx context.Context, filter models.RidershipFilter) ([]models.RidershipRow, error) {
	return s.repo.List(ctx, filter)
}

// DailyTotals returns at most the 30 most recent per-date rider sums.
func (s *RidershipService) DailyTotals(ctx context.Context) ([]models.DailyRidership, error) {
	return s.repo.DailyTotals(ctx)
}

// DistinctBusIDs lists known bus identifiers.
func (s *RidershipService) DistinctBusIDs(ctx context.Context) ([]string, error) {
	return s.repo.DistinctBusIDs(ctx)
}

// DistinctDriverIDs lists known driver identifiers.
func (s *RidershipService) DistinctDriverIDs(ctx context.Context) ([]string, error) {
	return s.repo.DistinctDriverIDs(ctx)
}

// Insert validates the payload, derives the weekday/weekend flags from
// fact_date and appends one fact row. Validation failures never reach
// storage.
func (s *RidershipService) Insert(ctx context.Context, req InsertRequest) error {
	if !req.complete() {
		return ErrMissingFields
	}

	factDate, err := time.Parse("2006-01-02", *req.FactDate)
	if err != nil {
		return ErrInvalidDate
	}

	weekend := isWeekend(factDate)
	fact := &models.RidershipFact{
		FactDate:       *req.FactDate,
		ArrivalTime:    *req.ArrivalTime,
		DepartureTime:  *req.DepartureTime,
		TripID:         *req.TripID,
		ServiceID:      models.DefaultServiceID,
		RouteID:        *req.RouteID,
		Weekday:        !weekend,
		Weekend:        weekend,
		RidershipCount: *req.RidershipCount,
		AvgWaitTimeMin: *req.AvgWaitTimeMin,
		AvgDelayMin:    *req.AvgDelayMin,
		FareCollected:  *req.FareCollected,
		WeatherCode:    *req.WeatherCode,
		BusID:          *req.BusID,
		DriverID:       *req.DriverID,
	}

	if err := s.repo.Insert(ctx, fact); err != nil {
		return err
	}

	s.logger.Info("ridership fact inserted",
		zap.String("fact_date", fact.FactDate),
		zap.String("trip_id", fact.TripID),
		zap.String("route_id", fact.RouteID),
	)
	return nil
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
