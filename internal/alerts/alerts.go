// Package alerts turns a day's statistics into management notifications.
package alerts

import (
	"fmt"
	"time"

	"github.com/breakroster/internal/stats"
)

// MaxNotifications bounds the feed; older notifications fall off the end.
const MaxNotifications = 10

// Thresholds are the management limits checked against each rollup.
type Thresholds struct {
	BreakCompliance    float64 `yaml:"BreakCompliance" json:"breakCompliance"`
	CoverageCompliance float64 `yaml:"CoverageCompliance" json:"coverageCompliance"`
	OvertimeLimit      int     `yaml:"OvertimeLimit" json:"overtimeLimit"`
	MissingBreaksLimit int     `yaml:"MissingBreaksLimit" json:"missingBreaksLimit"`
}

// DefaultThresholds returns the stock limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BreakCompliance:    85,
		CoverageCompliance: 90,
		OvertimeLimit:      3,
		MissingBreaksLimit: 2,
	}
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

const (
	TitleBreakCompliance    = "Break Compliance Below Threshold"
	TitleCoverageCompliance = "Coverage Compliance Below Threshold"
	TitleOvertime           = "Overtime Limit Exceeded"
	TitleMissingBreaks      = "Too Many Missing Breaks"
)

type Notification struct {
	ID           string    `json:"id"`
	Severity     Severity  `json:"type"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	Acknowledged bool      `json:"acknowledged"`
}

// Evaluate compares s against t and returns one notification per breached limit.
func Evaluate(s stats.DetailedStats, t Thresholds, now time.Time) []Notification {
	var out []Notification
	add := func(prefix string, sev Severity, title, msg string) {
		out = append(out, Notification{
			ID:        fmt.Sprintf("%s-%d", prefix, now.UnixMilli()),
			Severity:  sev,
			Title:     title,
			Message:   msg,
			Timestamp: now,
		})
	}

	if s.BreakComplianceRate < t.BreakCompliance && s.TotalEmployees > 0 {
		add("break-compliance", SeverityWarning, TitleBreakCompliance,
			fmt.Sprintf("Break compliance rate is %.1f%%, below the %g%% threshold.", s.BreakComplianceRate, t.BreakCompliance))
	}
	if s.CoverageComplianceRate < t.CoverageCompliance && s.TotalBreaksScheduled > 0 {
		add("coverage-compliance", SeverityWarning, TitleCoverageCompliance,
			fmt.Sprintf("Coverage compliance rate is %.1f%%, below the %g%% threshold.", s.CoverageComplianceRate, t.CoverageCompliance))
	}
	if s.OvertimeAlerts > t.OvertimeLimit {
		add("overtime-limit", SeverityError, TitleOvertime,
			fmt.Sprintf("%d employees are working overtime, exceeding the limit of %d.", s.OvertimeAlerts, t.OvertimeLimit))
	}
	if s.MissingBreaks > t.MissingBreaksLimit {
		add("missing-breaks-limit", SeverityError, TitleMissingBreaks,
			fmt.Sprintf("%d employees are missing breaks, exceeding the limit of %d.", s.MissingBreaks, t.MissingBreaksLimit))
	}
	return out
}

// Feed is the list of notifications shown to a manager, newest first.
type Feed struct {
	items []Notification
}

// NewFeed wraps previously saved notifications.
func NewFeed(saved []Notification) *Feed {
	items := append([]Notification(nil), saved...)
	if len(items) > MaxNotifications {
		items = items[:MaxNotifications]
	}
	return &Feed{items: items}
}

// Merge prepends the notifications whose title is not already in the feed and
// returns the ones that were added.
func (f *Feed) Merge(incoming []Notification) []Notification {
	seen := make(map[string]bool, len(f.items))
	for _, n := range f.items {
		seen[n.Title] = true
	}

	var added []Notification
	for _, n := range incoming {
		if seen[n.Title] {
			continue
		}
		seen[n.Title] = true
		added = append(added, n)
	}
	if len(added) == 0 {
		return nil
	}

	f.items = append(append([]Notification(nil), added...), f.items...)
	if len(f.items) > MaxNotifications {
		f.items = f.items[:MaxNotifications]
	}
	return added
}

// Acknowledge marks the notification with id as seen.
func (f *Feed) Acknowledge(id string) bool {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Acknowledged = true
			return true
		}
	}
	return false
}

// Clear empties the feed.
func (f *Feed) Clear() {
	f.items = nil
}

// All returns a copy of the feed.
func (f *Feed) All() []Notification {
	return append([]Notification(nil), f.items...)
}

// Unacknowledged returns the notifications not yet acknowledged.
func (f *Feed) Unacknowledged() []Notification {
	var out []Notification
	for _, n := range f.items {
		if !n.Acknowledged {
			out = append(out, n)
		}
	}
	return out
}
