// Package expiry classifies certificates by how close their expiry date is.
// Everything here is a pure function of (expiry, now, warning window).
package expiry

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/certtrack/pkg/sheet"
)

// DefaultWarningDays is the window before expiry in which a certificate is
// reported as expiring soon.
const DefaultWarningDays = 60

const secondsPerDay = 24 * 60 * 60

// Status is the lifecycle state of a certificate.
type Status string

const (
	Valid        Status = "valid"
	ExpiringSoon Status = "expiring_soon"
	Expired      Status = "expired"
	Unknown      Status = "unknown"
)

// Statuses lists every status in display order.
var Statuses = []Status{Valid, ExpiringSoon, Expired, Unknown}

var labels = map[Status]string{
	Valid:        "Valid",
	ExpiringSoon: "Expiring Soon",
	Expired:      "Expired",
	Unknown:      "Unknown",
}

// Label returns the human-readable form used in exports.
func (s Status) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return labels[Unknown]
}

// ParseStatus accepts either the wire form ("expiring_soon") or the label
// ("Expiring Soon"), case-insensitively.
func ParseStatus(v string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(v))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	for _, s := range Statuses {
		if string(s) == key {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", v)
}

// UnmarshalJSON accepts any form ParseStatus does.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Policy carries the classification settings.
type Policy struct {
	WarningDays int
}

// DefaultPolicy returns a Policy with the 60 day warning window.
func DefaultPolicy() Policy {
	return Policy{WarningDays: DefaultWarningDays}
}

// Result is the outcome of evaluating one expiry cell. Date and DaysUntil are
// nil when the cell could not be read as a date, in which case Status is Unknown.
type Result struct {
	Date      *time.Time
	DaysUntil *int
	Status    Status
}

// Classify applies the rules in order: on or before now is Expired, before
// now + window days is ExpiringSoon, anything later is Valid.
func Classify(date, now time.Time, window int) Status {
	if !date.After(now) {
		return Expired
	}
	if date.Before(now.AddDate(0, 0, window)) {
		return ExpiringSoon
	}
	return Valid
}

// DaysUntil is date - now floored to whole days, so anything already past
// is negative. Computed from Unix seconds so far-future dates do not
// overflow a Duration.
func DaysUntil(date, now time.Time) int {
	diff := date.Unix() - now.Unix()
	days := diff / secondsPerDay
	if diff%secondsPerDay < 0 {
		days--
	}
	return int(days)
}

// Evaluate parses raw and classifies it. Unreadable input is Unknown
// regardless of now.
func (p Policy) Evaluate(raw string, now time.Time) Result {
	date, ok := sheet.ParseDate(raw)
	if !ok {
		return Result{Status: Unknown}
	}
	return p.EvaluateDate(date, now)
}

// EvaluateDate classifies an already parsed date.
func (p Policy) EvaluateDate(date, now time.Time) Result {
	days := DaysUntil(date, now)
	return Result{
		Date:      &date,
		DaysUntil: &days,
		Status:    Classify(date, now, p.WarningDays),
	}
}
