package board

import (
	"sort"
	"time"

	"github.com/Kerhoff/floristbot/internal/models"
)

// Column is one kanban column
type Column struct {
	Status models.EventStatus `json:"status"`
	Events []*models.Event    `json:"events"`
}

// Board is the full kanban view, columns in workflow order
type Board struct {
	Columns []Column `json:"columns"`
}

// Column returns the column for status, or nil.
func (b *Board) Column(status models.EventStatus) *Column {
	for i := range b.Columns {
		if b.Columns[i].Status == status {
			return &b.Columns[i]
		}
	}
	return nil
}

// Counts returns the number of events per column.
func (b *Board) Counts() map[models.EventStatus]int {
	counts := make(map[models.EventStatus]int, len(b.Columns))
	for _, c := range b.Columns {
		counts[c.Status] = len(c.Events)
	}
	return counts
}

// Build places every event in the column given by DeriveDisplayStatus.
// Within a column events are ordered by date, undated ones last.
func Build(events []*models.Event) *Board {
	b := &Board{Columns: make([]Column, len(models.EventStatuses))}
	index := make(map[models.EventStatus]int, len(models.EventStatuses))
	for i, s := range models.EventStatuses {
		b.Columns[i] = Column{Status: s, Events: []*models.Event{}}
		index[s] = i
	}

	sorted := sortByDate(events)
	for _, e := range sorted {
		status := DeriveDisplayStatus(e)
		i, ok := index[status]
		if !ok {
			i = index[models.EventStatusDraft]
		}
		b.Columns[i].Events = append(b.Columns[i].Events, e)
	}
	return b
}

func sortByDate(events []*models.Event) []*models.Event {
	type dated struct {
		event *models.Event
		day   time.Time
		ok    bool
	}
	items := make([]dated, 0, len(events))
	for _, e := range events {
		if e == nil {
			continue
		}
		day, ok := e.Day(time.UTC)
		items = append(items, dated{event: e, day: day, ok: ok})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		return items[i].day.Before(items[j].day)
	})

	out := make([]*models.Event, len(items))
	for i, it := range items {
		out[i] = it.event
	}
	return out
}

// Day is one date cell of the calendar view
type Day struct {
	Date   string          `json:"date"`
	Events []*models.Event `json:"events"`
}

// Calendar groups events into the days of one month. Days without events are
// included so the caller can render a full grid.
func Calendar(events []*models.Event, year int, month time.Month) []Day {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	days := make([]Day, 0, 31)
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		days = append(days, Day{Date: models.FormatDay(d), Events: []*models.Event{}})
	}

	for _, e := range sortByDate(events) {
		day, ok := e.Day(time.UTC)
		if !ok || day.Before(first) || !day.Before(next) {
			continue
		}
		i := day.Day() - 1
		days[i].Events = append(days[i].Events, e)
	}
	return days
}
