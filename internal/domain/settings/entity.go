package settings

const (
	KeyMaxPunishmentPoints = "max_punishment_points"

	DefaultMaxPunishmentPoints = 50
)

type Setting struct {
	Key   string
	Value string
}

// defaults are returned for keys that were never stored.
var defaults = map[string]string{
	KeyMaxPunishmentPoints: "50",
}

// Default returns the built-in value for key.
func Default(key string) (string, bool) {
	v, ok := defaults[key]
	return v, ok
}

// Defaults returns a copy of every built-in value.
func Defaults() map[string]string {
	out := make(map[string]string, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	return out
}

// IsNumeric reports whether key only accepts integer values.
func IsNumeric(key string) bool {
	return key == KeyMaxPunishmentPoints
}
