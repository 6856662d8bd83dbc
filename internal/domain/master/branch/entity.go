package branch

import "github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/geo"

type Branch struct {
	ID        string
	Name      string
	Address   *string
	Latitude  float64
	Longitude float64
	Radius    *int   // meters, nil or <= 0 means the caller's default
	StartHour string // "HH:mm", empty when unset
	EndHour   string
}

func (b Branch) Center() geo.Point {
	return geo.Point{Latitude: b.Latitude, Longitude: b.Longitude}
}

// AllowedRadius resolves the branch radius against the given fallback.
func (b Branch) AllowedRadius(fallback int) float64 {
	return geo.EffectiveRadius(b.Radius, fallback)
}
