package planner

import (
	"math"
	"time"

	"workhub/internal/models"
)

// MaxCalendarTasks is how many tasks a calendar cell shows inline.
const MaxCalendarTasks = 3

// CompletionRate returns round(completed/assigned*100). ok is false when
// nothing is assigned.
func CompletionRate(completed, assigned int) (rate int, ok bool) {
	if assigned <= 0 {
		return 0, false
	}
	return int(math.Round(float64(completed) / float64(assigned) * 100)), true
}

// ComputeWorkspaceStats rolls tasks up per workspace. Known workspaces come
// first in the given order; workspaces only seen through task projects follow
// in encounter order, with ProjectsCount taken from the distinct projects seen.
func ComputeWorkspaceStats(tasks []models.Task, workspaces []models.Workspace) []models.WorkspaceStat {
	stats := make([]models.WorkspaceStat, 0, len(workspaces))
	index := make(map[int64]int, len(workspaces))
	known := make(map[int64]bool, len(workspaces))
	projects := make(map[int64]map[int64]struct{})

	for _, ws := range workspaces {
		if _, dup := index[ws.ID]; dup {
			continue
		}
		index[ws.ID] = len(stats)
		known[ws.ID] = true
		stats = append(stats, models.WorkspaceStat{
			ID:            ws.ID,
			Name:          ws.Name,
			Color:         ws.Color,
			ProjectsCount: ws.ProjectsCount,
		})
	}

	for _, t := range tasks {
		wsID, ok := t.WorkspaceID()
		if !ok {
			continue
		}
		i, seen := index[wsID]
		if !seen {
			ref := t.Project.Workspace
			i = len(stats)
			index[wsID] = i
			stats = append(stats, models.WorkspaceStat{ID: ref.ID, Name: ref.Name, Color: ref.Color})
		}
		if !known[wsID] {
			if projects[wsID] == nil {
				projects[wsID] = make(map[int64]struct{})
			}
			projects[wsID][t.Project.ID] = struct{}{}
			stats[i].ProjectsCount = len(projects[wsID])
		}

		stats[i].AssignedTasksCount++
		switch t.Status {
		case models.StatusInProgress:
			stats[i].InProgressCount++
		case models.StatusDone:
			stats[i].CompletedTasksCount++
		}
	}

	for i := range stats {
		if rate, ok := CompletionRate(stats[i].CompletedTasksCount, stats[i].AssignedTasksCount); ok {
			stats[i].CompletionRate = &rate
		}
	}
	return stats
}

// GroupTasksByDueDate keys tasks by the YYYY-MM-DD of their due date in loc.
// Tasks without a due date are left out. Order within a day follows input order.
func GroupTasksByDueDate(tasks []models.Task, loc *time.Location) map[string][]models.Task {
	loc = locationOrLocal(loc)
	groups := make(map[string][]models.Task)
	for _, t := range tasks {
		if !present(t.DueDate) {
			continue
		}
		key := DateKey(*t.DueDate, loc)
		groups[key] = append(groups[key], t)
	}
	return groups
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date     string        `json:"date"`
	Tasks    []models.Task `json:"tasks"`
	Overflow int           `json:"overflow"`
	Total    int           `json:"total"`
}

// NewCalendarDay trims tasks to MaxCalendarTasks and records the remainder.
func NewCalendarDay(date string, tasks []models.Task) CalendarDay {
	day := CalendarDay{Date: date, Total: len(tasks)}
	visible := min(len(tasks), MaxCalendarTasks)
	day.Tasks = append(make([]models.Task, 0, visible), tasks[:visible]...)
	day.Overflow = len(tasks) - visible
	return day
}

// CalendarMonth builds one cell for every day of month's month, in month's location.
func CalendarMonth(tasks []models.Task, month time.Time) []CalendarDay {
	loc := month.Location()
	groups := GroupTasksByDueDate(tasks, loc)

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)
	days := make([]CalendarDay, 0, 31)
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		key := d.Format(DateKeyLayout)
		days = append(days, NewCalendarDay(key, groups[key]))
	}
	return days
}

// DateGroup is a section header of the activity feed.
type DateGroup string

const (
	GroupToday     DateGroup = "Today"
	GroupYesterday DateGroup = "Yesterday"
	GroupThisWeek  DateGroup = "This Week"
	GroupEarlier   DateGroup = "Earlier"
)

// DateGroupOrder is the display order of feed sections.
var DateGroupOrder = []DateGroup{GroupToday, GroupYesterday, GroupThisWeek, GroupEarlier}

// DateGroupFor maps ts to a feed section using calendar days in now's location.
// This Week looks back over the 7 calendar days before today.
func DateGroupFor(ts, now time.Time) DateGroup {
	days := daysBetween(ts, now)
	switch {
	case days == 0:
		return GroupToday
	case days == 1:
		return GroupYesterday
	case days <= 7:
		return GroupThisWeek
	}
	return GroupEarlier
}

// TrackedSeconds sums the durations of stopped entries.
func TrackedSeconds(entries []models.TimeEntry) int64 {
	var total int64
	for _, e := range entries {
		if e.Running() || e.Duration < 0 {
			continue
		}
		total += e.Duration
	}
	return total
}
