package tracking

// Position is a geographic point in decimal degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

const (
	// seedOffsetDegrees places the simulated vehicle a fixed offset from the
	// destination when tracking begins. It is an arbitrary starting point,
	// not a real location.
	seedOffsetDegrees = 0.01

	// approachFactor is the fraction of the remaining distance covered per
	// tick, per axis. The resulting exponential approach never exactly
	// reaches the destination, which is acceptable for a cosmetic marker.
	approachFactor = 0.1
)

// SeedPosition returns the initial simulated vehicle position for dest.
func SeedPosition(dest Position) Position {
	return Position{
		Lat: dest.Lat + seedOffsetDegrees,
		Lng: dest.Lng + seedOffsetDegrees,
	}
}

// StepToward moves prev one tick closer to dest, covering approachFactor of
// the remaining distance on each axis independently.
func StepToward(prev, dest Position) Position {
	return Position{
		Lat: prev.Lat + approachFactor*(dest.Lat-prev.Lat),
		Lng: prev.Lng + approachFactor*(dest.Lng-prev.Lng),
	}
}
