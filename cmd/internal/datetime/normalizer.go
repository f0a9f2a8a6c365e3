package datetime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"meetboard/cmd/internal/domain"
)

var (
	dashedDate  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	shortDate   = regexp.MustCompile(`^(\d{2})/(\d{1,2})/(\d{1,2})$`)
	dottedDate  = regexp.MustCompile(`^(\d{4})\.(\d{1,2})\.(\d{1,2})$`)
	compactDate = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	clockTime   = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// CivilDate is a calendar day without a zone.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// CivilTime is a wall clock time without a zone.
type CivilTime struct {
	Hour   int
	Minute int
}

func (t CivilTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Normalizer turns user supplied dates and times into instants of one
// process-wide zone, independent of the host's local zone.
type Normalizer struct {
	loc *time.Location
}

func New(tz string) (*Normalizer, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return &Normalizer{loc: loc}, nil
}

// NewWithLocation is used when the caller already holds a *time.Location.
func NewWithLocation(loc *time.Location) *Normalizer {
	return &Normalizer{loc: loc}
}

func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// ZoneName is the IANA name sent to the calendar provider alongside every instant.
func (n *Normalizer) ZoneName() string {
	return n.loc.String()
}

// ParseCivilDate accepts YYYY-M-D, YY/M/D (20YY), YYYY.M.D and YYYYMMDD.
func (n *Normalizer) ParseCivilDate(input string) (CivilDate, error) {
	s := strings.TrimSpace(input)

	var parts []string
	century := 0
	switch {
	case dashedDate.MatchString(s):
		parts = dashedDate.FindStringSubmatch(s)
	case shortDate.MatchString(s):
		parts = shortDate.FindStringSubmatch(s)
		century = 2000
	case dottedDate.MatchString(s):
		parts = dottedDate.FindStringSubmatch(s)
	case compactDate.MatchString(s):
		parts = compactDate.FindStringSubmatch(s)
	default:
		return CivilDate{}, &domain.FormatError{Field: "date", Input: input}
	}

	year, _ := strconv.Atoi(parts[1])
	month, _ := strconv.Atoi(parts[2])
	day, _ := strconv.Atoi(parts[3])
	year += century

	// time.Date normalizes overflow (Feb 30 -> Mar 2); a mismatch means the day does not exist.
	probe := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if probe.Year() != year || int(probe.Month()) != month || probe.Day() != day {
		return CivilDate{}, &domain.FormatError{Field: "date", Input: input}
	}
	return CivilDate{Year: year, Month: time.Month(month), Day: day}, nil
}

// ParseCivilTime accepts H:MM and HH:MM with an ASCII or full-width colon.
func (n *Normalizer) ParseCivilTime(input string) (CivilTime, error) {
	s := strings.ReplaceAll(strings.TrimSpace(input), "：", ":")

	parts := clockTime.FindStringSubmatch(s)
	if parts == nil {
		return CivilTime{}, &domain.FormatError{Field: "time", Input: input}
	}

	hour, _ := strconv.Atoi(parts[1])
	minute, _ := strconv.Atoi(parts[2])
	if hour > 23 || minute > 59 {
		return CivilTime{}, &domain.FormatError{Field: "time", Input: input}
	}
	return CivilTime{Hour: hour, Minute: minute}, nil
}

func (n *Normalizer) Combine(d CivilDate, t CivilTime) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, 0, 0, n.loc)
}

// Parse is ParseCivilDate + ParseCivilTime + Combine.
func (n *Normalizer) Parse(date, clock string) (time.Time, error) {
	d, err := n.ParseCivilDate(date)
	if err != nil {
		return time.Time{}, err
	}
	t, err := n.ParseCivilTime(clock)
	if err != nil {
		return time.Time{}, err
	}
	return n.Combine(d, t), nil
}

// In converts t to the configured zone.
func (n *Normalizer) In(t time.Time) time.Time {
	return t.In(n.loc)
}

func (n *Normalizer) Format(t time.Time, layout string) string {
	return t.In(n.loc).Format(layout)
}

// DayRange returns [start of day, start of next day) around t in the configured zone.
func (n *Normalizer) DayRange(t time.Time) (time.Time, time.Time) {
	local := t.In(n.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, n.loc)
	return start, start.AddDate(0, 0, 1)
}

// ISOWeekRange returns the Monday-based week containing t.
func (n *Normalizer) ISOWeekRange(t time.Time) (time.Time, time.Time) {
	dayStart, _ := n.DayRange(t)
	offset := (int(dayStart.Weekday()) + 6) % 7
	start := dayStart.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

func (n *Normalizer) MonthRange(t time.Time) (time.Time, time.Time) {
	local := t.In(n.loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, n.loc)
	return start, start.AddDate(0, 1, 0)
}
