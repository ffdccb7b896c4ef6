package planner

import (
	"sort"
	"time"

	"workhub/internal/models"
)

type TimelineKind string

const (
	KindTimeEntry TimelineKind = "time_entry"
	KindTaskDone  TimelineKind = "task_done"
)

// TimelineItem is either a finished time entry or a completed task.
type TimelineItem struct {
	Kind      TimelineKind      `json:"kind"`
	Timestamp time.Time         `json:"timestamp"`
	TimeEntry *models.TimeEntry `json:"time_entry,omitempty"`
	Task      *models.Task      `json:"task,omitempty"`
}

// Title is the display line for the item.
func (it TimelineItem) Title() string {
	switch it.Kind {
	case KindTimeEntry:
		if it.TimeEntry.Description != "" {
			return it.TimeEntry.Description
		}
		if it.TimeEntry.Task != nil {
			return it.TimeEntry.Task.Title
		}
		return "Time entry"
	case KindTaskDone:
		return it.Task.Title
	}
	return ""
}

type TimelineGroup struct {
	Label          DateGroup      `json:"label"`
	Items          []TimelineItem `json:"items"`
	TrackedSeconds int64          `json:"tracked_seconds"`
}

// TimelineItems returns the merged feed newest first. Time entries precede
// tasks when timestamps tie. Running entries and records without a usable
// timestamp are skipped.
func TimelineItems(tasks []models.Task, entries []models.TimeEntry) []TimelineItem {
	items := make([]TimelineItem, 0, len(entries)+len(tasks))
	for i := range entries {
		if !present(entries[i].StoppedAt) {
			continue
		}
		e := entries[i]
		items = append(items, TimelineItem{Kind: KindTimeEntry, Timestamp: *e.StoppedAt, TimeEntry: &e})
	}
	for i := range tasks {
		if tasks[i].Status != models.StatusDone || tasks[i].UpdatedAt.IsZero() {
			continue
		}
		t := tasks[i]
		items = append(items, TimelineItem{Kind: KindTaskDone, Timestamp: t.UpdatedAt, Task: &t})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	return items
}

// MergeTimeline builds the sectioned activity feed. Sections follow
// DateGroupOrder and empty sections are omitted.
func MergeTimeline(tasks []models.Task, entries []models.TimeEntry, now time.Time) []TimelineGroup {
	byLabel := make(map[DateGroup]*TimelineGroup, len(DateGroupOrder))
	for _, it := range TimelineItems(tasks, entries) {
		label := DateGroupFor(it.Timestamp, now)
		g, ok := byLabel[label]
		if !ok {
			g = &TimelineGroup{Label: label}
			byLabel[label] = g
		}
		g.Items = append(g.Items, it)
		if it.Kind == KindTimeEntry {
			g.TrackedSeconds += max(it.TimeEntry.Duration, 0)
		}
	}

	groups := make([]TimelineGroup, 0, len(byLabel))
	for _, label := range DateGroupOrder {
		if g, ok := byLabel[label]; ok {
			groups = append(groups, *g)
		}
	}
	return groups
}
