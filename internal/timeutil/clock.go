package timeutil

import "time"

// Loc is the business timezone for document numbering and day boundaries.
// Branch operations are date-scoped (transfer numbers restart per day), so
// every "what day is it" decision must use the same zone.
var Loc *time.Location

func init() {
	var err error
	Loc, err = time.LoadLocation("Asia/Manila")
	if err != nil {
		Loc = time.FixedZone("PHT", 8*60*60)
	}
}

// Now returns the current time in the business timezone.
func Now() time.Time {
	return time.Now().In(Loc)
}

// Today returns the current date (midnight) in the business timezone.
func Today() time.Time {
	n := Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, Loc)
}

// StartOfDay returns 00:00:00 of t's day in the business timezone.
func StartOfDay(t time.Time) time.Time {
	lt := t.In(Loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, Loc)
}

// EndOfDay returns the last nanosecond of t's day in the business timezone.
func EndOfDay(t time.Time) time.Time {
	lt := t.In(Loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 23, 59, 59, 999999999, Loc)
}

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	SeqDateLayout  = "20060102"
)
