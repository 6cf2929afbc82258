// Package tutorial produces the lesson and challenge shown when the player
// reaches a marker.
package tutorial

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/cryptocity/internal/city"
)

type Puzzle struct {
	ID            string     `json:"id"`
	Topic         city.Topic `json:"topic"`
	Title         string     `json:"title"`
	Tutorial      string     `json:"tutorial"`
	Task          string     `json:"task"`
	CorrectAnswer string     `json:"correctAnswer"`
	Explanation   string     `json:"explanation"`
}

func (p *Puzzle) Validate() error {
	el := errors.NewErrorList()

	if p.Topic == "" {
		el.Add(fmt.Errorf("topic is required"))
	}
	if p.Title == "" {
		el.Add(fmt.Errorf("title is required"))
	}
	if p.Task == "" {
		el.Add(fmt.Errorf("task is required"))
	}
	if p.CorrectAnswer == "" {
		el.Add(fmt.Errorf("correctAnswer is required"))
	}

	return el.Err()
}

// Check reports whether input answers the puzzle.
func (p *Puzzle) Check(input string) bool {
	return CheckAnswer(input, p.CorrectAnswer)
}
