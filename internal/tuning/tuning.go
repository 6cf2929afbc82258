// Package tuning loads the gameplay constants from a YAML file.
package tuning

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/pixil98/cryptocity/internal/city"
	"github.com/pixil98/cryptocity/internal/interaction"
	"github.com/pixil98/cryptocity/internal/movement"
)

type Tuning struct {
	city.Params `yaml:",inline"`

	Movement    movement.Params    `yaml:"movement"`
	Interaction interaction.Params `yaml:"interaction"`
	Rules       Rules              `yaml:"rules"`
}

// Rules are the scoring and session flow constants.
type Rules struct {
	ScorePerSolve  int     `yaml:"score_per_solve"`
	PointsPerLevel int     `yaml:"points_per_level"`
	NudgeDistance  float64 `yaml:"nudge_distance"`
	SnapshotEvery  int     `yaml:"snapshot_every"`
}

// Level is the player level for a given score.
func (r Rules) Level(score int) int {
	return score/r.PointsPerLevel + 1
}

func (r *Rules) Validate() error {
	el := errors.NewErrorList()

	if r.ScorePerSolve < 0 {
		el.Add(fmt.Errorf("score_per_solve must not be negative"))
	}
	if r.PointsPerLevel <= 0 {
		el.Add(fmt.Errorf("points_per_level must be positive"))
	}
	if r.NudgeDistance < 0 {
		el.Add(fmt.Errorf("nudge_distance must not be negative"))
	}
	if r.SnapshotEvery < 1 {
		el.Add(fmt.Errorf("snapshot_every must be at least 1"))
	}

	return el.Err()
}

func Default() Tuning {
	return Tuning{
		Params:      city.DefaultParams(),
		Movement:    movement.DefaultParams(),
		Interaction: interaction.DefaultParams(),
		Rules: Rules{
			ScorePerSolve:  250,
			PointsPerLevel: 1000,
			NudgeDistance:  4,
			SnapshotEvery:  3,
		},
	}
}

func (t *Tuning) Validate() error {
	el := errors.NewErrorList()

	el.Add(t.Params.Validate())
	if err := t.Movement.Validate(); err != nil {
		el.Add(fmt.Errorf("movement: %w", err))
	}
	if err := t.Interaction.Validate(); err != nil {
		el.Add(fmt.Errorf("interaction: %w", err))
	}
	if err := t.Rules.Validate(); err != nil {
		el.Add(fmt.Errorf("rules: %w", err))
	}

	return el.Err()
}

// Load reads a tuning file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("reading tuning: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("validating %s: %w", path, err)
	}

	return t, nil
}
