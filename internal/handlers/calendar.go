package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studio-dashboard/internal/calendar"
	"studio-dashboard/internal/listing"
)

// monthParam parses ?month=YYYY-MM, defaulting to the current month.
func (h *Handler) monthParam(c *gin.Context) time.Time {
	now := h.now()
	if m, err := time.ParseInLocation("2006-01", c.Query("month"), h.Calendar.Location); err == nil {
		return m
	}
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.Calendar.Location)
}

func (h *Handler) loadEvents(c *gin.Context) ([]calendar.Event, bool) {
	all, err := guardedList(h, c, "calendar", h.api(c).Projects)
	if err != nil {
		h.listFailed(c, err, "Không thể tải lịch chụp")
		return nil, false
	}
	events, skipped := calendar.Events(all, h.Calendar)
	if len(skipped) > 0 {
		h.Log.Warn("projects without a valid shoot date", "ids", skipped)
	}
	return events, true
}

func (h *Handler) CalendarPage(c *gin.Context) {
	first := h.monthParam(c)
	events, ok := h.loadEvents(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "calendar.html", gin.H{
		"month":     calendar.BuildMonth(first, events, h.now()),
		"weekdays":  calendar.WeekdayNames,
		"legend":    calendar.Legend(),
		"CanCreate": can(c, sellers...),
	})
}

// CalendarEvents is the JSON feed. start/end (YYYY-MM-DD) bound the range,
// end exclusive.
func (h *Handler) CalendarEvents(c *gin.Context) {
	events, ok := h.loadEvents(c)
	if !ok {
		return
	}

	loc := h.Calendar.Location
	if start, err := time.ParseInLocation("2006-01-02", c.Query("start"), loc); err == nil {
		events = listing.Filter(events, func(e calendar.Event) bool { return !e.End.Before(start) })
	}
	if end, err := time.ParseInLocation("2006-01-02", c.Query("end"), loc); err == nil {
		events = listing.Filter(events, func(e calendar.Event) bool { return e.Start.Before(end) })
	}
	c.JSON(http.StatusOK, events)
}
