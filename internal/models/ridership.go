package models

// DefaultServiceID is stamped onto every inserted ridership fact. The data
// model carries no per-route service calendar, so the service identifier is
// a fixed constant rather than caller input.
const DefaultServiceID = "3302"

// RidershipRow is one joined read row: a ridership fact plus the trip
// metadata it references. Trip fields are nullable because the join is a
// left join — a fact whose trip_id has no match still appears. Time-of-day
// fields are canonical "HH:MM:SS" strings and fact_date is "YYYY-MM-DD".
type RidershipRow struct {
	FactDate       string  `json:"fact_date"`
	RouteID        string  `json:"route_id"`
	TripID         string  `json:"trip_id"`
	TripHeadsign   *string `json:"trip_headsign"`
	ArrivalTime    *string `json:"arrival_time"`
	DepartureTime  *string `json:"departure_time"`
	RidershipCount int64   `json:"ridership_count"`
	AvgWaitTimeMin float64 `json:"avg_wait_time_min"`
	AvgDelayMin    float64 `json:"avg_delay_min"`
	FareCollected  float64 `json:"fare_collected"`
	WeatherCode    string  `json:"weather_code"`
	BusID          string  `json:"bus_id"`
	DriverID       string  `json:"driver_id"`
}

// RidershipFilter narrows and pages the ridership read. Absent string
// filters impose no constraint.
type RidershipFilter struct {
	Page         int
	PerPage      int
	RouteID      string
	DateFrom     string
	DateTo       string
	TripHeadsign string
}

// RidershipFact is a fully validated record ready for insertion. Weekday and
// Weekend are derived from FactDate and are mutually exclusive.
type RidershipFact struct {
	FactDate       string
	ArrivalTime    string
	DepartureTime  string
	TripID         string
	ServiceID      string
	RouteID        string
	Weekday        bool
	Weekend        bool
	RidershipCount int64
	AvgWaitTimeMin float64
	AvgDelayMin    float64
	FareCollected  float64
	WeatherCode    string
	BusID          string
	DriverID       string
}

// DailyRidership is one aggregate entry: total riders observed on a date.
type DailyRidership struct {
	Date        string `json:"date"`
	TotalRiders int64  `json:"total_riders"`
}
