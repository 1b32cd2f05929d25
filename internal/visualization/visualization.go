package visualization

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/breakroster/internal/roster"
	"github.com/breakroster/internal/schedule"
	"github.com/breakroster/internal/stats"
)

type Visualizer struct {
	now func() time.Time
}

func New() *Visualizer {
	return &Visualizer{now: time.Now}
}

func gradeColor(rate float64) string {
	switch stats.Grade(rate) {
	case stats.GradeExcellent:
		return "#4CAF50"
	case stats.GradeGood:
		return "#FF9800"
	default:
		return "#F44336"
	}
}

// GenerateDaySVG draws the day's headcount per department.
func (v *Visualizer) GenerateDaySVG(day time.Time, s stats.DetailedStats) string {
	width := 600
	height := 300
	padding := 40
	barWidth := float64(width-2*padding) / float64(len(schedule.Departments))

	maxCount := 1
	for _, n := range s.DepartmentBreakdown {
		if n > maxCount {
			maxCount = n
		}
	}

	var labels []string
	var bars strings.Builder
	for i, d := range schedule.Departments {
		n := s.DepartmentBreakdown[d]
		labels = append(labels, string(d))

		barHeight := float64(n) / float64(maxCount) * float64(height-2*padding-30)
		x := float64(padding) + float64(i)*barWidth + 5
		y := float64(height) - float64(padding) - barHeight

		bars.WriteString(fmt.Sprintf(`<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="#3498DB" rx="4"/>
    <text x="%.0f" y="%d" text-anchor="middle" font-size="12" fill="#333">%d</text>`,
			x, y, barWidth-10, barHeight,
			x+barWidth/2-5, int(y)-5, n))
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">
  <defs>
    <linearGradient id="bgGrad" x1="0%%" y1="0%%" x2="0%%" y2="100%%">
      <stop offset="0%%" style="stop-color:#f5f7fa"/>
      <stop offset="100%%" style="stop-color:#e4e8ec"/>
    </linearGradient>
  </defs>
  <rect width="%d" height="%d" fill="url(#bgGrad)" rx="10"/>
  <text x="%d" y="30" text-anchor="middle" font-size="18" font-weight="bold" fill="#2c3e50">Staff On Shift</text>
  <text x="%d" y="55" text-anchor="middle" font-size="12" fill="%s">%s | %d working | Break compliance: %.1f%%</text>

  <!-- Bars -->
  %s

  <!-- X-axis labels -->
  %s

  <!-- Grid lines -->
  %s
</svg>`,
		width, height, width, height,
		width, height,
		width/2,
		width/2, gradeColor(s.BreakComplianceRate), day.Format("Mon Jan 2"), s.TotalEmployees, s.BreakComplianceRate,
		bars.String(),
		v.generateXLabels(labels, float64(padding), barWidth, float64(height-padding)),
		v.generateGridLines(height, padding, width),
	)
}

// GenerateWeekSVG draws break compliance for each day of a week.
func (v *Visualizer) GenerateWeekSVG(week []roster.DaySummary) string {
	width := 600
	height := 300
	padding := 40
	barWidth := float64(width-2*padding) / 7

	var days []string
	var bars strings.Builder
	for i, d := range week {
		rate := d.Stats.BreakComplianceRate
		days = append(days, d.Date.Format("Mon"))

		barHeight := rate / 100 * float64(height-2*padding-30)
		x := float64(padding) + float64(i)*barWidth + 5
		y := float64(height) - float64(padding) - barHeight

		label := "-"
		if d.Stats.TotalEmployees > 0 {
			label = fmt.Sprintf("%.0f%%", rate)
		}
		bars.WriteString(fmt.Sprintf(`<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="%s" rx="4"/>
    <text x="%.0f" y="%d" text-anchor="middle" font-size="12" fill="#333">%s</text>`,
			x, y, barWidth-10, barHeight, gradeColor(rate),
			x+barWidth/2-5, int(y)-5, label))
	}

	subtitle := ""
	if len(week) > 0 {
		subtitle = week[0].Date.Format("Jan 2") + " - " + week[len(week)-1].Date.Format("Jan 2")
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">
  <rect width="%d" height="%d" fill="#f5f7fa" rx="10"/>
  <text x="%d" y="30" text-anchor="middle" font-size="18" font-weight="bold" fill="#2c3e50">Weekly Break Compliance</text>
  <text x="%d" y="55" text-anchor="middle" font-size="12" fill="#7f8c8d">%s</text>

  <!-- Bars -->
  %s

  <!-- X-axis labels -->
  %s

  <!-- Grid lines -->
  %s
</svg>`,
		width, height, width, height,
		width, height,
		width/2,
		width/2, subtitle,
		bars.String(),
		v.generateXLabels(days, float64(padding), barWidth, float64(height-padding)),
		v.generateGridLines(height, padding, width),
	)
}

// GenerateHTMLReport renders the day's stats and working roster as a
// standalone page.
func (v *Visualizer) GenerateHTMLReport(day time.Time, s stats.DetailedStats, rows []stats.WorkingEmployee) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Break Roster - %s</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 40px; background: #f5f7fa; }
    .container { max-width: 960px; margin: 0 auto; }
    .card { background: white; border-radius: 10px; padding: 24px; margin-bottom: 20px; box-shadow: 0 2px 8px rgba(0,0,0,0.1); }
    h1 { color: #2c3e50; margin-bottom: 8px; }
    h2 { color: #34495e; font-size: 18px; margin-bottom: 16px; }
    .subtitle { color: #7f8c8d; margin-bottom: 30px; }
    .stat { display: inline-block; text-align: center; padding: 20px; margin: 10px; background: #f8f9fa; border-radius: 8px; min-width: 120px; }
    .stat-value { font-size: 32px; font-weight: bold; color: #3498DB; }
    .stat-label { font-size: 12px; color: #7f8c8d; margin-top: 4px; }
    .progress-bar { height: 24px; background: #E0E0E0; border-radius: 12px; overflow: hidden; margin: 16px 0 4px; }
    .progress-fill { height: 100%%; border-radius: 12px; }
    table { width: 100%%; border-collapse: collapse; margin-top: 16px; }
    th, td { padding: 10px; text-align: left; border-bottom: 1px solid #eee; }
    th { color: #7f8c8d; font-weight: 500; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Break Roster Report</h1>
    <p class="subtitle">%s | Generated on %s</p>

    <div class="card">
      <h2>Today's Overview</h2>
      <div class="stat">
        <div class="stat-value">%d</div>
        <div class="stat-label">Working</div>
      </div>
      <div class="stat">
        <div class="stat-value">%d</div>
        <div class="stat-label">Missing Breaks</div>
      </div>
      <div class="stat">
        <div class="stat-value">%d</div>
        <div class="stat-label">Coverage Issues</div>
      </div>
      <div class="stat">
        <div class="stat-value">%d</div>
        <div class="stat-label">Overtime</div>
      </div>
      <div class="stat">
        <div class="stat-value">%.1fh</div>
        <div class="stat-label">Average Shift</div>
      </div>
    </div>

    <div class="card">
      <h2>Compliance</h2>
      %s
      %s
    </div>

    <div class="card">
      <h2>Working Employees</h2>
      <table>
        <tr><th>Employee</th><th>Department</th><th>Shift</th><th>Break 1</th><th>Break 2</th><th>Net</th><th>Breaks</th><th>Coverage</th></tr>
        %s
      </table>
    </div>
  </div>
</body>
</html>`,
		day.Format(schedule.DateLayout),
		day.Format("Monday, January 2, 2006"), v.now().Format("2006-01-02 15:04"),
		s.TotalEmployees, s.MissingBreaks, s.CoverageIssues, s.OvertimeAlerts, s.AverageShiftLength,
		complianceBar("Break Compliance", s.BreakComplianceRate),
		complianceBar("Coverage Compliance", s.CoverageComplianceRate),
		v.formatWorkingRows(rows),
	)
}

func complianceBar(label string, rate float64) string {
	return fmt.Sprintf(`<div class="progress-bar"><div class="progress-fill" style="width: %.1f%%; background: %s"></div></div>
      <p style="color: #7f8c8d;">%s: %.1f%% (%s)</p>`,
		rate, gradeColor(rate), label, rate, stats.Grade(rate))
}

func (v *Visualizer) formatWorkingRows(rows []stats.WorkingEmployee) string {
	if len(rows) == 0 {
		return `<tr><td colspan="8">No employees scheduled</td></tr>`
	}

	out := make([]string, 0, len(rows))
	for _, w := range rows {
		e := w.Entry
		out = append(out, fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(w.Employee.Name),
			html.EscapeString(string(w.Employee.Department)),
			span(e.ShiftStart, e.ShiftEnd),
			breakCell(e.Break1Start, e.Break1End, w.Coverage1),
			breakCell(e.Break2Start, e.Break2End, w.Coverage2),
			schedule.NetWorkedHours(e),
			w.Analysis.BreakStatus.Label(),
			w.Analysis.CoverageStatus.Label(),
		))
	}
	return strings.Join(out, "\n        ")
}

func span(start, end string) string {
	if start == "" || end == "" {
		return "-"
	}
	return fmt.Sprintf("%s - %s", start, end)
}

func breakCell(start, end string, cover *schedule.Employee) string {
	s := span(start, end)
	if s == "-" || cover == nil {
		return s
	}
	return s + " (" + html.EscapeString(cover.Name) + ")"
}

func (v *Visualizer) generateXLabels(labels []string, padding float64, barWidth float64, y float64) string {
	var sb strings.Builder
	for i, label := range labels {
		x := padding + float64(i)*barWidth + barWidth/2
		sb.WriteString(fmt.Sprintf(`<text x="%.0f" y="%d" text-anchor="middle" font-size="12" fill="#7f8c8d">%s</text>`,
			x, int(y)+20, label))
	}
	return sb.String()
}

func (v *Visualizer) generateGridLines(height int, padding int, width int) string {
	var lines strings.Builder
	for i := 1; i <= 4; i++ {
		y := float64(height) - float64(padding) - (float64(i)/4.0)*float64(height-2*padding-30)
		lines.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.0f" x2="%d" y2="%.0f" stroke="#E0E0E0"/>`,
			padding, y, width-padding, y))
	}
	return lines.String()
}
