package planner

import (
	"sort"
	"time"

	"workhub/internal/models"
)

// DoneLimit caps the done bucket to the most recently updated tasks.
const DoneLimit = 20

type Bucket string

const (
	BucketOverdue  Bucket = "overdue"
	BucketToday    Bucket = "today"
	BucketThisWeek Bucket = "this_week"
	BucketLater    Bucket = "later"
	BucketDone     Bucket = "done"
)

// Buckets is the board view. Every slice is non-nil.
type Buckets struct {
	Overdue  []models.Task `json:"overdue"`
	Today    []models.Task `json:"today"`
	ThisWeek []models.Task `json:"this_week"`
	Later    []models.Task `json:"later"`
	Done     []models.Task `json:"done"`
}

// Counts returns the size of each bucket as shown, done capped at DoneLimit.
func (b Buckets) Counts() map[Bucket]int {
	return map[Bucket]int{
		BucketOverdue:  len(b.Overdue),
		BucketToday:    len(b.Today),
		BucketThisWeek: len(b.ThisWeek),
		BucketLater:    len(b.Later),
		BucketDone:     len(b.Done),
	}
}

// Classify places a single task relative to now. Done always wins over the
// due date; a missing or zero due date means later.
func Classify(t models.Task, now time.Time) Bucket {
	if t.Status == models.StatusDone {
		return BucketDone
	}
	if !present(t.DueDate) {
		return BucketLater
	}

	dueDay := StartOfDay(t.DueDate.In(now.Location()))
	today := StartOfDay(now)
	switch {
	case dueDay.Before(today):
		return BucketOverdue
	case IsSameDay(dueDay, today):
		return BucketToday
	case !dueDay.After(EndOfWeek(today)):
		return BucketThisWeek
	}
	return BucketLater
}

// CountBuckets counts tasks per bucket without the done cap.
func CountBuckets(tasks []models.Task, now time.Time) map[Bucket]int {
	counts := map[Bucket]int{
		BucketOverdue:  0,
		BucketToday:    0,
		BucketThisWeek: 0,
		BucketLater:    0,
		BucketDone:     0,
	}
	for _, t := range tasks {
		counts[Classify(t, now)]++
	}
	return counts
}

// BucketTasks splits tasks into the five board columns. Open buckets keep
// input order; done is sorted by UpdatedAt descending and capped at DoneLimit.
func BucketTasks(tasks []models.Task, now time.Time) Buckets {
	b := Buckets{
		Overdue:  []models.Task{},
		Today:    []models.Task{},
		ThisWeek: []models.Task{},
		Later:    []models.Task{},
		Done:     []models.Task{},
	}
	for _, t := range tasks {
		switch Classify(t, now) {
		case BucketDone:
			b.Done = append(b.Done, t)
		case BucketOverdue:
			b.Overdue = append(b.Overdue, t)
		case BucketToday:
			b.Today = append(b.Today, t)
		case BucketThisWeek:
			b.ThisWeek = append(b.ThisWeek, t)
		default:
			b.Later = append(b.Later, t)
		}
	}

	sort.SliceStable(b.Done, func(i, j int) bool {
		return b.Done[i].UpdatedAt.After(b.Done[j].UpdatedAt)
	})
	if len(b.Done) > DoneLimit {
		b.Done = b.Done[:DoneLimit]
	}
	return b
}
