package services

import "workhub/internal/models"

// Допустимые переходы статусов. Открытые статусы свободно переходят друг в друга,
// done можно только переоткрыть.
var TaskTransitions = map[models.TaskStatus]map[models.TaskStatus]bool{
	models.StatusTodo:       {models.StatusInProgress: true, models.StatusBlocked: true, models.StatusOnHold: true, models.StatusDone: true},
	models.StatusInProgress: {models.StatusTodo: true, models.StatusBlocked: true, models.StatusOnHold: true, models.StatusDone: true},
	models.StatusBlocked:    {models.StatusTodo: true, models.StatusInProgress: true, models.StatusOnHold: true, models.StatusDone: true},
	models.StatusOnHold:     {models.StatusTodo: true, models.StatusInProgress: true, models.StatusBlocked: true, models.StatusDone: true},
	models.StatusDone:       {models.StatusTodo: true, models.StatusInProgress: true},
}

func CanTransition(current, to models.TaskStatus) bool {
	if !models.IsValidStatus(to) {
		return false
	}
	if current == "" || current == to {
		return true
	}
	return TaskTransitions[current][to]
}
