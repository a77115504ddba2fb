// Package calendar turns projects into dated, colored events.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"studio-dashboard/internal/models"
)

const fallbackColor = "#757575"

var statusColors = map[models.ProjectStatus]string{
	models.StatusPending:    "#9e9e9e",
	models.StatusConfirmed:  "#2196f3",
	models.StatusShooting:   "#ff9800",
	models.StatusRetouching: "#9c27b0",
	models.StatusDelivered:  "#4caf50",
	models.StatusCompleted:  "#00bcd4",
	models.StatusCancelled:  "#f44336",
}

func StatusColor(s models.ProjectStatus) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return fallbackColor
}

type Options struct {
	EventDuration time.Duration
	Location      *time.Location
}

func DefaultOptions() Options {
	return Options{EventDuration: 2 * time.Hour, Location: time.Local}
}

// Event is also the JSON shape of the event feed.
type Event struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Start       time.Time            `json:"start"`
	End         time.Time            `json:"end"`
	Color       string               `json:"backgroundColor"`
	Status      models.ProjectStatus `json:"status"`
	StatusLabel string               `json:"status_label"`
	ProjectCode string               `json:"project_code"`
	Location    string               `json:"location,omitempty"`
}

// FromProject maps one project. Start is shoot_date at shoot_time (00:00 when
// missing) in opts.Location; End is Start plus the event duration.
func FromProject(p models.Project, opts Options) (Event, error) {
	start, err := startOf(p, opts.Location)
	if err != nil {
		return Event{}, err
	}
	ev := Event{
		ID:          string(p.ID),
		Title:       p.CustomerName + " - " + p.PackageName,
		Start:       start,
		End:         start.Add(opts.EventDuration),
		Color:       StatusColor(p.Status),
		Status:      p.Status,
		StatusLabel: p.Status.Label(),
		ProjectCode: p.ProjectCode,
	}
	if p.Location != nil {
		ev.Location = *p.Location
	}
	return ev, nil
}

// Events maps every project with a usable shoot date; the rest are returned
// as skipped ids.
func Events(projects []models.Project, opts Options) ([]Event, []string) {
	events := make([]Event, 0, len(projects))
	var skipped []string
	for _, p := range projects {
		ev, err := FromProject(p, opts)
		if err != nil {
			skipped = append(skipped, string(p.ID))
			continue
		}
		events = append(events, ev)
	}
	return events, skipped
}

func startOf(p models.Project, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	date := strings.TrimSpace(p.ShootDate)
	if len(date) > 10 {
		date = date[:10]
	}
	d, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("project %s: shoot date %q: %w", p.ID, p.ShootDate, err)
	}

	hour, minute := 0, 0
	if p.ShootTime != nil && strings.TrimSpace(*p.ShootTime) != "" {
		hour, minute, err = parseClock(*p.ShootTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("project %s: %w", p.ID, err)
		}
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}

// parseClock reads "HH:MM" or "HH:MM:SS".
func parseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("shoot time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("shoot time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("shoot time %q", s)
	}
	return h, m, nil
}

// Legend lists statuses with their colors in lifecycle order.
type LegendItem struct {
	Status models.ProjectStatus
	Label  string
	Color  string
}

func Legend() []LegendItem {
	out := make([]LegendItem, 0, len(models.ProjectStatuses))
	for _, s := range models.ProjectStatuses {
		out = append(out, LegendItem{Status: s, Label: s.Label(), Color: StatusColor(s)})
	}
	return out
}
