package console

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pixil98/cryptocity/internal/city"
	"github.com/pixil98/cryptocity/internal/display"
	"github.com/pixil98/cryptocity/internal/geom"
	"github.com/pixil98/cryptocity/internal/movement"
	"github.com/pixil98/cryptocity/internal/session"
)

const (
	defaultHold = time.Second
	maxHold     = 10 * time.Second
	lookRange   = 30.0
	mapRadius   = 10
	mapCellSize = 3.0
)

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, p *player, args []string) (string, error)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"start":  {usage: "start", help: "Begin exploring the city.", run: cmdStart},
		"go":     {usage: "go <forward|back|left|right> [seconds]", help: "Walk in a direction for a while (default 1s).", run: cmdGo},
		"stop":   {usage: "stop", help: "Stop walking.", run: cmdStop},
		"turn":   {usage: "turn <degrees>", help: "Turn right by degrees; negative turns left.", run: cmdTurn},
		"look":   {usage: "look", help: "Describe where you are and what is nearby.", run: cmdLook},
		"map":    {usage: "map", help: "Draw a map of the surrounding blocks.", run: cmdMap},
		"answer": {usage: "answer <text>", help: "Answer the open challenge.", run: cmdAnswer},
		"close":  {usage: "close", help: "Walk away from the open challenge.", run: cmdClose},
		"home":   {usage: "home", help: "Give up and reset the city.", run: cmdHome},
		"help":   {usage: "help", help: "List commands.", run: cmdHelp},
		"quit":   {usage: "quit", help: "Disconnect.", run: cmdQuit},
	}
}

var directions = map[string]movement.Intent{
	"forward": {Forward: true},
	"f":       {Forward: true},
	"back":    {Backward: true},
	"b":       {Backward: true},
	"left":    {Left: true},
	"l":       {Left: true},
	"right":   {Right: true},
	"r":       {Right: true},
}

func (p *player) exec(ctx context.Context, name string, args []string) (string, error) {
	cmd, ok := commands[name]
	if !ok {
		return "", NewUserError(fmt.Sprintf("Unknown command %q. Type 'help' for a list.", name))
	}
	return cmd.run(ctx, p, args)
}

// sessionError turns flow errors into messages for the player.
func sessionError(err error) error {
	switch {
	case errors.Is(err, session.ErrNoActivePuzzle):
		return NewUserError("There is no open challenge.")
	case errors.Is(err, session.ErrAlreadyStarted):
		return NewUserError("You are already exploring.")
	case errors.Is(err, session.ErrNotPlaying):
		return NewUserError("Type 'start' first.")
	default:
		return err
	}
}

func requirePlaying(p *player) error {
	if p.session.State() == session.StateHome {
		return sessionError(session.ErrNotPlaying)
	}
	return nil
}

func cmdStart(ctx context.Context, p *player, _ []string) (string, error) {
	if err := p.session.Start(ctx); err != nil {
		return "", sessionError(err)
	}
	return "You step onto the street. Type 'look' to get your bearings.", nil
}

func cmdGo(_ context.Context, p *player, args []string) (string, error) {
	if err := requirePlaying(p); err != nil {
		return "", err
	}
	if len(args) == 0 {
		return "", NewUserError("Go where? Usage: " + commands["go"].usage)
	}

	intent, ok := directions[strings.ToLower(args[0])]
	if !ok {
		return "", NewUserError(fmt.Sprintf("Unknown direction %q.", args[0]))
	}

	d := defaultHold
	if len(args) > 1 {
		secs, err := strconv.ParseFloat(args[1], 64)
		if err != nil || math.IsNaN(secs) || secs <= 0 {
			return "", NewUserError(fmt.Sprintf("Invalid duration %q.", args[1]))
		}
		d = time.Duration(min(secs, maxHold.Seconds()) * float64(time.Second))
	}

	p.hold(intent, d)
	return "", nil
}

func cmdStop(_ context.Context, p *player, _ []string) (string, error) {
	p.halt()
	return "You stop.", nil
}

func cmdTurn(_ context.Context, p *player, args []string) (string, error) {
	if len(args) == 0 {
		return "", NewUserError("Turn how far? Usage: " + commands["turn"].usage)
	}
	deg, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsNaN(deg) || math.IsInf(deg, 0) {
		return "", NewUserError(fmt.Sprintf("Invalid angle %q.", args[0]))
	}

	// Positive yaw turns left.
	p.turn(-mgl64.DegToRad(deg))
	return fmt.Sprintf("You face %s.", heading(p.yaw())), nil
}

func cmdLook(_ context.Context, p *player, _ []string) (string, error) {
	yaw := p.yaw()

	var sb strings.Builder
	p.session.Inspect(func(w *city.World, st movement.State, _ movement.Input) {
		pos := st.Position
		fmt.Fprintf(&sb, "You stand at (%.0f, %.0f) facing %s", pos.X(), pos.Z(), heading(yaw))
		if w.Grid.IsOnRoad(pos.X(), pos.Z()) {
			sb.WriteString(" in the road.")
		} else {
			sb.WriteString(" on a block.")
		}

		type sighting struct {
			text string
			dist float64
		}
		var seen []sighting
		for _, e := range w.Entities {
			if e.Resolved {
				continue
			}
			d := math.Sqrt(geom.DistSqXZ(pos, e.Position))
			if d > lookRange {
				continue
			}
			name := e.Label
			if e.Kind == city.KindGem {
				name = fmt.Sprintf("a %s gem", e.Topic)
			}
			seen = append(seen, sighting{
				text: fmt.Sprintf("%s, %.0f units %s", name, d, bearing(pos, e.Position, yaw)),
				dist: d,
			})
		}
		sort.Slice(seen, func(i, j int) bool { return seen[i].dist < seen[j].dist })

		if len(seen) == 0 {
			sb.WriteString(" Nothing glitters nearby.")
		}
		for _, s := range seen {
			sb.WriteString("\n  " + display.Capitalize(s.text))
		}
		fmt.Fprintf(&sb, "\n%d markers remain.", w.Remaining())
	})

	return sb.String(), nil
}

func cmdMap(_ context.Context, p *player, _ []string) (string, error) {
	var rows []string
	p.session.Inspect(func(w *city.World, st movement.State, _ movement.Input) {
		rows = display.RenderMap(w, st.Position, mapRadius, mapCellSize)
	})
	legend := "@ you  * gem  M monolith  n pedestrian  # building  = car  . road  (up is north)"
	return strings.Join(rows, "\n") + "\n" + legend, nil
}

func cmdAnswer(ctx context.Context, p *player, args []string) (string, error) {
	if len(args) == 0 {
		return "", NewUserError("Answer what? Usage: " + commands["answer"].usage)
	}
	if _, err := p.session.Answer(ctx, strings.Join(args, " ")); err != nil {
		return "", sessionError(err)
	}
	return "", nil
}

func cmdClose(ctx context.Context, p *player, _ []string) (string, error) {
	if err := p.session.Close(ctx); err != nil {
		return "", sessionError(err)
	}
	return "You step back from the marker.", nil
}

func cmdHome(ctx context.Context, p *player, _ []string) (string, error) {
	p.halt()
	p.session.Home(ctx)
	return "", nil
}

func cmdHelp(_ context.Context, _ *player, _ []string) (string, error) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Commands:")
	for _, name := range names {
		c := commands[name]
		fmt.Fprintf(&sb, "\n  %-40s %s", c.usage, c.help)
	}
	return sb.String(), nil
}

func cmdQuit(_ context.Context, p *player, _ []string) (string, error) {
	p.quit = true
	return "Goodbye!", nil
}

// heading names the compass direction of yaw. Yaw 0 faces north (-Z) and
// positive yaw turns toward west.
func heading(yaw float64) string {
	names := []string{"north", "northwest", "west", "southwest", "south", "southeast", "east", "northeast"}
	i := int(math.Round(yaw/(math.Pi/4))) % 8
	if i < 0 {
		i += 8
	}
	return names[i]
}

// bearing describes where target lies relative to the player's facing.
func bearing(from, target mgl64.Vec3, yaw float64) string {
	dx := target.X() - from.X()
	dz := target.Z() - from.Z()
	// Angle of the target measured like yaw: 0 is -Z, positive toward -X.
	angle := math.Atan2(-dx, -dz)
	rel := math.Remainder(angle-yaw, 2*math.Pi)

	switch {
	case math.Abs(rel) <= math.Pi/4:
		return "ahead"
	case math.Abs(rel) >= 3*math.Pi/4:
		return "behind"
	case rel > 0:
		return "to your left"
	default:
		return "to your right"
	}
}
