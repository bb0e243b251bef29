package fleet

import "time"

// ParkingPeriod covers a contiguous interval during which a vehicle sat at
// one position. While open (still being observed) EndingTime is zero and
// Duration is unset; both are filled in when the vehicle departs or
// disappears.
type ParkingPeriod struct {
	VIN      string     `json:"vin"`
	Position Coordinate `json:"coords"`
	Fuel     float64    `json:"fuel"`

	StartingTime time.Time `json:"starting_time"`
	EndingTime   time.Time `json:"ending_time,omitzero"`

	// Duration in seconds, computed as ending - starting when closed.
	Duration float64 `json:"duration,omitempty"`

	// Attributes captured when the parking started. Vehicle properties do
	// not change while parked, so no starting/ending pair is kept.
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Close marks the end of the parking period and computes its duration.
func (p *ParkingPeriod) Close(endingTime time.Time) {
	p.EndingTime = endingTime
	p.Duration = endingTime.Sub(p.StartingTime).Seconds()
}

// TripRecord covers a displacement between two observed positions. A trip in
// flight (the vehicle is currently invisible) has only the starting half
// filled in; EndingTime stays zero until the vehicle reappears.
type TripRecord struct {
	VIN  string     `json:"vin"`
	From Coordinate `json:"from"`
	To   Coordinate `json:"to"`

	StartingTime time.Time `json:"starting_time"`
	EndingTime   time.Time `json:"ending_time,omitzero"`

	StartingFuel float64 `json:"starting_fuel"`
	EndingFuel   float64 `json:"ending_fuel"`
	FuelUse      float64 `json:"fuel_use"`

	// Distance in km, Duration in seconds, Speed in km/h. Speed is omitted
	// for zero-duration trips where it is undefined.
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Speed    float64 `json:"speed,omitempty"`

	Start map[string]any `json:"start,omitempty"`
	End   map[string]any `json:"end,omitempty"`
}

// Close fills in the ending half of the trip and computes the derived
// distance, duration, speed and fuel use figures.
func (t *TripRecord) Close(endingTime time.Time, to Coordinate, endingFuel float64, endAttributes map[string]any) {
	t.To = to
	t.EndingTime = endingTime
	t.EndingFuel = endingFuel
	t.End = endAttributes

	t.Distance = Distance(t.From, t.To)
	t.Duration = endingTime.Sub(t.StartingTime).Seconds()
	if t.Duration > 0 {
		t.Speed = t.Distance / (t.Duration / 3600.0)
	}
	t.FuelUse = t.StartingFuel - t.EndingFuel
}

// UnstartedTrip is emitted for a vehicle's very first observation: the
// vehicle arrived from a trip that began before observation did, so the
// starting half is unknown.
type UnstartedTrip struct {
	VIN        string         `json:"vin"`
	To         Coordinate     `json:"to"`
	EndingTime time.Time      `json:"ending_time"`
	EndingFuel float64        `json:"ending_fuel"`
	End        map[string]any `json:"end,omitempty"`
}
