package schedule

// Shift is a named working window. Assigned to a user it overrides the
// branch's default hours.
type Shift struct {
	ID        string
	Name      string
	StartHour string // "HH:mm"
	EndHour   string // "HH:mm"
}

// Source tells where resolved hours came from.
type Source string

const (
	SourceShift    Source = "shift"
	SourceBranch   Source = "branch"
	SourceFallback Source = "default"
)

const (
	FallbackStartHour = "09:00"
	FallbackEndHour   = "17:00"
)

// Hours is a resolved schedule in business-local minutes since midnight.
type Hours struct {
	Start     int
	End       int
	StartHour string
	EndHour   string
	Source    Source
	// Label names the schedule in user-facing text, e.g. the shift name.
	Label string
}
