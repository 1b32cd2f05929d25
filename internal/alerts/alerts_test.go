package alerts

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breakroster/internal/stats"
)

var now = time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

func titles(ns []Notification) []string {
	var out []string
	for _, n := range ns {
		out = append(out, n.Title)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		stats    stats.DetailedStats
		expected []string
	}{
		{"empty day", stats.DetailedStats{}, nil},
		{
			"all healthy",
			stats.DetailedStats{TotalEmployees: 4, BreakComplianceRate: 100, TotalBreaksScheduled: 4, CoverageComplianceRate: 100},
			nil,
		},
		{
			"low break compliance",
			stats.DetailedStats{TotalEmployees: 4, BreakComplianceRate: 50},
			[]string{TitleBreakCompliance},
		},
		{
			"low coverage needs scheduled breaks",
			stats.DetailedStats{TotalEmployees: 1, BreakComplianceRate: 100, CoverageComplianceRate: 0},
			nil,
		},
		{
			"everything breached",
			stats.DetailedStats{
				TotalEmployees: 10, BreakComplianceRate: 40,
				TotalBreaksScheduled: 5, CoverageComplianceRate: 20,
				OvertimeAlerts: 4, MissingBreaks: 3,
			},
			[]string{TitleBreakCompliance, TitleCoverageCompliance, TitleOvertime, TitleMissingBreaks},
		},
		{
			"at limits is fine",
			stats.DetailedStats{TotalEmployees: 5, BreakComplianceRate: 85, OvertimeAlerts: 3, MissingBreaks: 2},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.stats, DefaultThresholds(), now)
			assert.Equal(t, tt.expected, titles(got))
		})
	}
}

func TestEvaluateMessages(t *testing.T) {
	got := Evaluate(stats.DetailedStats{TotalEmployees: 3, BreakComplianceRate: 200.0 / 3, OvertimeAlerts: 5}, DefaultThresholds(), now)
	require.Len(t, got, 2)

	assert.Equal(t, "Break compliance rate is 66.7%, below the 85% threshold.", got[0].Message)
	assert.Equal(t, SeverityWarning, got[0].Severity)
	assert.Equal(t, fmt.Sprintf("break-compliance-%d", now.UnixMilli()), got[0].ID)

	assert.Equal(t, "5 employees are working overtime, exceeding the limit of 3.", got[1].Message)
	assert.Equal(t, SeverityError, got[1].Severity)
}

func TestFeedMergeSuppressesDuplicateTitles(t *testing.T) {
	feed := NewFeed(nil)
	breached := stats.DetailedStats{TotalEmployees: 10, BreakComplianceRate: 10, OvertimeAlerts: 9}

	added := feed.Merge(Evaluate(breached, DefaultThresholds(), now))
	assert.Len(t, added, 2)

	added = feed.Merge(Evaluate(breached, DefaultThresholds(), now.Add(time.Minute)))
	assert.Empty(t, added)
	assert.Len(t, feed.All(), 2)

	added = feed.Merge(Evaluate(stats.DetailedStats{MissingBreaks: 7}, DefaultThresholds(), now))
	require.Len(t, added, 1)
	assert.Equal(t, TitleMissingBreaks, feed.All()[0].Title, "new notifications go first")
}

func TestFeedCap(t *testing.T) {
	feed := NewFeed(nil)
	for i := 0; i < MaxNotifications+5; i++ {
		feed.Merge([]Notification{{ID: fmt.Sprint(i), Title: fmt.Sprintf("title %d", i)}})
	}
	all := feed.All()
	require.Len(t, all, MaxNotifications)
	assert.Equal(t, fmt.Sprint(MaxNotifications+4), all[0].ID)
}

func TestFeedAcknowledgeAndClear(t *testing.T) {
	feed := NewFeed([]Notification{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}})

	assert.True(t, feed.Acknowledge("a"))
	assert.False(t, feed.Acknowledge("missing"))
	assert.Equal(t, []string{"B"}, titles(feed.Unacknowledged()))

	feed.Clear()
	assert.Empty(t, feed.All())
}
