// Package planner classifies and aggregates tasks and time entries into the
// derived views used by the board, calendar, timeline and hub screens.
//
// Every function is pure: the reference instant is always passed in, inputs
// are never mutated and the same input always yields the same output.
package planner
