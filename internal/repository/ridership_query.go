package repository

import (
	"fmt"
	"strings"

	"transitboard/internal/models"
)

const (
	defaultPerPage = 50
	maxPerPage     = 500
)

// normalizeFilter clamps pagination inputs so offsets can never go negative
// and a single page can never be unbounded.
func normalizeFilter(f models.RidershipFilter) models.RidershipFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage <= 0 {
		f.PerPage = defaultPerPage
	}
	if f.PerPage > maxPerPage {
		f.PerPage = maxPerPage
	}
	return f
}

// buildListQuery composes the filtered, paginated ridership SELECT. Only
// filters that were actually supplied contribute a predicate, and every
// value travels as a bound parameter — nothing is interpolated into the
// query text.
func buildListQuery(f models.RidershipFilter) (string, []any) {
	f = normalizeFilter(f)

	var (
		predicates []string
		args       []any
	)
	bind := func(predicate string, value any) {
		args = append(args, value)
		predicates = append(predicates, fmt.Sprintf(predicate, len(args)))
	}

	if f.RouteID != "" {
		bind("rf.route_id = $%d", f.RouteID)
	}
	if f.DateFrom != "" {
		bind("rf.fact_date >= $%d", f.DateFrom)
	}
	if f.DateTo != "" {
		bind("rf.fact_date <= $%d", f.DateTo)
	}
	if f.TripHeadsign != "" {
		bind("t.trip_headsign ILIKE $%d", "%"+f.TripHeadsign+"%")
	}

	var where string
	if len(predicates) > 0 {
		where = "WHERE " + strings.Join(predicates, " AND ")
	}

	args = append(args, f.PerPage)
	limit := len(args)
	args = append(args, (f.Page-1)*f.PerPage)
	offset := len(args)

	query := fmt.Sprintf(`
		SELECT
			to_char(rf.fact_date, 'YYYY-MM-DD'),
			rf.route_id,
			rf.trip_id,
			t.trip_headsign,
			to_char(t.arrival_time, 'HH24:MI:SS'),
			to_char(t.departure_time, 'HH24:MI:SS'),
			rf.ridership_count,
			rf.avg_wait_time_min,
			rf.avg_delay_min,
			rf.fare_collected,
			rf.weather_code,
			rf.bus_id,
			rf.driver_id
		FROM ridership_fact rf
		LEFT JOIN trip t ON rf.trip_id = t.trip_id
		%s
		ORDER BY rf.fact_date DESC
		LIMIT $%d OFFSET $%d
	`, where, limit, offset)

	return query, args
}
