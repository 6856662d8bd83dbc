package attendance

import (
	"time"
)

type Type string

const (
	TypeCheckIn  Type = "CHECK_IN"
	TypeCheckOut Type = "CHECK_OUT"
	TypePermit   Type = "PERMIT"
	TypeSick     Type = "SICK"
	TypeAlpha    Type = "ALPHA"
)

// IsDayMarker reports whether the type closes the day for check-in and
// check-out and suppresses the nightly alpha.
func (t Type) IsDayMarker() bool {
	return t == TypePermit || t == TypeSick || t == TypeAlpha
}

func (t Type) IsValid() bool {
	switch t {
	case TypeCheckIn, TypeCheckOut, TypePermit, TypeSick, TypeAlpha:
		return true
	}
	return false
}

const (
	DeviceUnknown   = "UNKNOWN"
	DevicePermit    = "PERMIT_REQUEST"
	DeviceScheduler = "SYSTEM_SCHEDULER"
)

type Record struct {
	ID         string
	UserID     string
	Type       Type
	Timestamp  time.Time
	Latitude   float64
	Longitude  float64
	DeviceID   string
	IsLate     bool
	IsOvertime bool
	IsHalfDay  bool
	Notes      *string
	PhotoURL   *string
	CreatedAt  time.Time
}

// Day is every record a user has inside one business day.
type Day []Record

func (d Day) Find(t Type) *Record {
	for i := range d {
		if d[i].Type == t {
			return &d[i]
		}
	}
	return nil
}

func (d Day) Has(t Type) bool {
	return d.Find(t) != nil
}

// Marker returns the first PERMIT, SICK or ALPHA record of the day.
func (d Day) Marker() *Record {
	for i := range d {
		if d[i].Type.IsDayMarker() {
			return &d[i]
		}
	}
	return nil
}

// State is where a user stands for one business day.
type State string

const (
	StateNone       State = "NONE"
	StateCheckedIn  State = "CHECKED_IN"
	StateCheckedOut State = "CHECKED_OUT"
	StatePermit     State = "PERMIT"
	StateSick       State = "SICK"
	StateAlpha      State = "ALPHA"
)

// State folds the day's records into one state. Day markers are terminal
// and win over check-in and check-out.
func (d Day) State() State {
	if m := d.Marker(); m != nil {
		return State(m.Type)
	}
	switch {
	case d.Has(TypeCheckOut):
		return StateCheckedOut
	case d.Has(TypeCheckIn):
		return StateCheckedIn
	}
	return StateNone
}

// Label is the Indonesian name used in notifications.
func (t Type) Label() string {
	switch t {
	case TypePermit:
		return "Izin"
	case TypeSick:
		return "Sakit"
	case TypeAlpha:
		return "Alpha"
	case TypeCheckIn:
		return "Masuk"
	case TypeCheckOut:
		return "Pulang"
	}
	return string(t)
}
