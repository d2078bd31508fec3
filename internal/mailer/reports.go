package mailer

import (
	"fmt"
	"strings"

	"github.com/ramnagarhs/mdm-service/internal/models"
)

// DailyReportHTML renders the end-of-day meal report for one date.
func DailyReportHTML(date string, entries []models.FormC) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Mid-Day Meal Report - %s</h2>", date)

	if len(entries) == 0 {
		b.WriteString("<p>No meal records were entered for today.</p>")
		return b.String()
	}

	meals, rice, cost := 0, 0.0, 0.0
	b.WriteString("<table border=\"1\" cellpadding=\"6\" cellspacing=\"0\">")
	b.WriteString("<tr><th>Class</th><th>Attendance</th><th>Meals</th><th>Rice (kg)</th><th>Cost</th></tr>")
	for _, e := range entries {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%d</td><td>%.2f</td><td>%.2f</td></tr>",
			e.Class, e.Attendance, e.Meals, e.Rice, e.TotalCost)
		meals += e.Meals
		rice += e.Rice
		cost += e.TotalCost
	}
	fmt.Fprintf(&b, "<tr><th>Total</th><th></th><th>%d</th><th>%.2f</th><th>%.2f</th></tr>", meals, rice, cost)
	b.WriteString("</table>")
	return b.String()
}

// LowStockHTML renders the rice stock alert.
func LowStockHTML(balance, threshold float64) string {
	return fmt.Sprintf(`
		<h2>Low Rice Stock Alert</h2>
		<p>The current rice stock is <strong>%.2f kg</strong>, below the
		%.0f kg threshold.</p>
		<p>Please arrange for a fresh allotment.</p>`, balance, threshold)
}

// WeeklySummaryHTML renders the Friday summary over the last seven days.
func WeeklySummaryHTML(from, to string, entries []models.FormC) string {
	meals, rice, cost := 0, 0.0, 0.0
	for _, e := range entries {
		meals += e.Meals
		rice += e.Rice
		cost += e.TotalCost
	}

	return fmt.Sprintf(`
		<h2>Weekly Mid-Day Meal Summary</h2>
		<p>Period: %s to %s</p>
		<ul>
			<li>Days recorded: %d</li>
			<li>Meals served: %d</li>
			<li>Rice consumed: %.2f kg</li>
			<li>Total cost: %.2f</li>
		</ul>`, from, to, len(entries), meals, rice, cost)
}
