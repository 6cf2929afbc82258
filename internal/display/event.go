package display

import (
	"fmt"
	"strings"

	"github.com/pixil98/cryptocity/internal/protocol"
)

// FormatEvent renders a session event for a terminal. Events a terminal has
// no use for, such as frame snapshots, render as "".
func FormatEvent(ev protocol.Event) string {
	switch ev.Type {
	case protocol.EventInteraction:
		if ev.Entity == nil {
			return ""
		}
		return Wrap(fmt.Sprintf("You reach the %s. Deciphering its lesson...", describe(ev.Entity)))

	case protocol.EventTutorial:
		if ev.Puzzle == nil {
			return ""
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "== %s ==\n\n", ev.Puzzle.Title)
		if ev.Puzzle.Tutorial != "" {
			sb.WriteString(Wrap(ev.Puzzle.Tutorial))
			sb.WriteString("\n\n")
		}
		sb.WriteString(Wrap("Task: " + ev.Puzzle.Task))
		sb.WriteString("\n\nType 'answer <text>' to respond or 'close' to walk away.")
		return sb.String()

	case protocol.EventSolved:
		msg := "Correct!"
		if ev.Message != "" {
			msg += " " + ev.Message
		}
		if ev.Stats != nil {
			msg += fmt.Sprintf(" Score: %d, level %d, %d left to find.", ev.Stats.Score, ev.Stats.Level, ev.Stats.Remaining)
		}
		return Wrap(msg)

	case protocol.EventWrongAnswer:
		return "That is not it. Try again, or 'close' to walk away."

	case protocol.EventReset:
		return "The city resets around you. Type 'start' to play again."

	case protocol.EventError:
		return Capitalize(ev.Message)

	default:
		return ""
	}
}

func describe(e *protocol.Entity) string {
	if e.Kind == "monolith" {
		return e.Label
	}
	return fmt.Sprintf("%s gem", e.Topic)
}
