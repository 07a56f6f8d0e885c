package repository

import (
	"context"
	"database/sql"
	"fmt"

	"transitboard/internal/models"
)

// RidershipRepository handles the ridership_fact table and its join to trip
// metadata.
type RidershipRepository struct {
	db *sql.DB
}

// NewRidershipRepository returns repository instance.
func NewRidershipRepository(db *sql.DB) *RidershipRepository {
	return &RidershipRepository{db: db}
}

// List returns one page of ridership facts joined to their trips, newest
// fact_date first. No matching rows yields an empty slice, not an error.
func (r *RidershipRepository) List(ctx context.Context, filter models.RidershipFilter) ([]models.RidershipRow, error) {
	query, args := buildListQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ridership list: %w", err)
	}
	defer rows.Close()

	result := make([]models.RidershipRow, 0)
	for rows.Next() {
		var row models.RidershipRow
		if err := rows.Scan(
			&row.FactDate,
			&row.RouteID,
			&row.TripID,
			&row.TripHeadsign,
			&row.ArrivalTime,
			&row.DepartureTime,
			&row.RidershipCount,
			&row.AvgWaitTimeMin,
			&row.AvgDelayMin,
			&row.FareCollected,
			&row.WeatherCode,
			&row.BusID,
			&row.DriverID,
		); err != nil {
			return nil, fmt.Errorf("ridership list: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ridership list: %w", err)
	}
	return result, nil
}

// DailyTotals sums riders per fact_date for the 30 most recent dates.
func (r *RidershipRepository) DailyTotals(ctx context.Context) ([]models.DailyRidership, error) {
	const query = `
		SELECT to_char(fact_date, 'YYYY-MM-DD'), SUM(ridership_count)
		FROM ridership_fact
		GROUP BY fact_date
		ORDER BY fact_date DESC
		LIMIT 30
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	result := make([]models.DailyRidership, 0, 30)
	for rows.Next() {
		var entry models.DailyRidership
		if err := rows.Scan(&entry.Date, &entry.TotalRiders); err != nil {
			return nil, fmt.Errorf("daily totals: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	return result, nil
}

// Insert appends one ridership fact. There is no uniqueness constraint:
// repeated identical submissions create duplicate rows.
func (r *RidershipRepository) Insert(ctx context.Context, fact *models.RidershipFact) error {
	const query = `
		INSERT INTO ridership_fact
			(fact_date, arrival_time, departure_time, trip_id, service_id, route_id,
			 weekday, weekend, ridership_count, avg_wait_time_min, avg_delay_min,
			 fare_collected, weather_code, bus_id, driver_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		fact.FactDate,
		fact.ArrivalTime,
		fact.DepartureTime,
		fact.TripID,
		fact.ServiceID,
		fact.RouteID,
		fact.Weekday,
		fact.Weekend,
		fact.RidershipCount,
		fact.AvgWaitTimeMin,
		fact.AvgDelayMin,
		fact.FareCollected,
		fact.WeatherCode,
		fact.BusID,
		fact.DriverID,
	)
	if err != nil {
		return fmt.Errorf("ridership insert: %w", err)
	}
	return nil
}

// DistinctBusIDs returns the set of bus identifiers present in the fact
// table, for populating selection inputs.
func (r *RidershipRepository) DistinctBusIDs(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, `SELECT DISTINCT bus_id FROM ridership_fact ORDER BY bus_id`)
}

// DistinctDriverIDs returns the set of driver identifiers present in the
// fact table.
func (r *RidershipRepository) DistinctDriverIDs(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, `SELECT DISTINCT driver_id FROM ridership_fact ORDER BY driver_id`)
}

func (r *RidershipRepository) distinctColumn(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct lookup: %w", err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("distinct lookup: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("distinct lookup: %w", err)
	}
	return values, nil
}
