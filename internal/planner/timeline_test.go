package planner

import (
	"testing"
	"time"

	"workhub/internal/models"
)

func entry(id int64, stopped *time.Time, dur int64) models.TimeEntry {
	return models.TimeEntry{ID: id, StoppedAt: stopped, Duration: dur}
}

func TestTimelineItems_ExcludesRunningEntriesAndOpenTasks(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	stopped := now.Add(-time.Hour)
	zero := time.Time{}

	items := TimelineItems(
		[]models.Task{
			{ID: 1, Status: models.StatusInProgress, UpdatedAt: now},
			{ID: 2, Status: models.StatusDone, UpdatedAt: now.Add(-2 * time.Hour)},
		},
		[]models.TimeEntry{
			entry(10, nil, 300),
			entry(11, &stopped, 300),
			entry(12, &zero, 300),
		},
	)
	if len(items) != 2 {
		t.Fatalf("len(items)=%d, want 2", len(items))
	}
	for _, it := range items {
		if it.Kind == KindTimeEntry && it.TimeEntry.ID != 11 {
			t.Fatalf("running entry %d leaked into timeline", it.TimeEntry.ID)
		}
	}
}

func TestTimelineItems_OrderAndTies(t *testing.T) {
	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	later := base.Add(time.Hour)

	items := TimelineItems(
		[]models.Task{
			{ID: 1, Title: "done at base", Status: models.StatusDone, UpdatedAt: base},
			{ID: 2, Title: "done later", Status: models.StatusDone, UpdatedAt: later},
		},
		[]models.TimeEntry{entry(10, &base, 60)},
	)
	if len(items) != 3 {
		t.Fatalf("len(items)=%d, want 3", len(items))
	}
	if items[0].Kind != KindTaskDone || items[0].Task.ID != 2 {
		t.Fatalf("items[0]=%+v, want task 2", items[0])
	}
	if items[1].Kind != KindTimeEntry || items[1].TimeEntry.ID != 10 {
		t.Fatalf("items[1]=%+v, want entry 10 before tied task", items[1])
	}
	if items[2].Kind != KindTaskDone || items[2].Task.ID != 1 {
		t.Fatalf("items[2]=%+v, want task 1", items[2])
	}
}

func TestMergeTimeline_Groups(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	today := now.Add(-2 * time.Hour)
	lastWeek := time.Date(2024, 6, 5, 15, 0, 0, 0, time.UTC)
	old := time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)

	groups := MergeTimeline(
		[]models.Task{{ID: 1, Title: "ship", Status: models.StatusDone, UpdatedAt: lastWeek}},
		[]models.TimeEntry{
			entry(10, &today, 1800),
			entry(11, &old, 600),
			entry(12, nil, 999),
			entry(13, &today, 600),
		},
		now,
	)

	if len(groups) != 3 {
		t.Fatalf("len(groups)=%d, want 3 (yesterday omitted)", len(groups))
	}
	wantLabels := []DateGroup{GroupToday, GroupThisWeek, GroupEarlier}
	for i, g := range groups {
		if g.Label != wantLabels[i] {
			t.Fatalf("groups[%d].Label=%q, want %q", i, g.Label, wantLabels[i])
		}
		if len(g.Items) == 0 {
			t.Fatalf("groups[%d] is empty", i)
		}
	}
	if groups[0].TrackedSeconds != 2400 {
		t.Fatalf("today tracked=%d, want 2400", groups[0].TrackedSeconds)
	}
	if groups[1].Items[0].Title() != "ship" {
		t.Fatalf("this week title=%q, want ship", groups[1].Items[0].Title())
	}
}

func TestMergeTimeline_Empty(t *testing.T) {
	groups := MergeTimeline(nil, nil, time.Now())
	if groups == nil || len(groups) != 0 {
		t.Fatalf("MergeTimeline(nil, nil)=%v, want empty non-nil", groups)
	}
}

func TestTimelineItem_Title(t *testing.T) {
	stopped := time.Now()
	withTask := models.TimeEntry{StoppedAt: &stopped, Task: &models.TaskRef{ID: 1, Title: "Write docs"}}
	items := TimelineItems(nil, []models.TimeEntry{withTask, {StoppedAt: &stopped}})
	if got := items[0].Title(); got != "Write docs" {
		t.Fatalf("Title()=%q, want task title", got)
	}
	if got := items[1].Title(); got != "Time entry" {
		t.Fatalf("Title()=%q, want fallback", got)
	}
}
