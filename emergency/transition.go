package emergency

import "github.com/guardknight/guardknight-api/schema"

// Transition names a permitted status change of an alert.
type Transition string

const (
	TransitionRespond    Transition = "respond"
	TransitionResolve    Transition = "resolve"
	TransitionFalseAlarm Transition = "false_alarm"
)

type transitionRule struct {
	from       schema.AlertStatus
	to         schema.AlertStatus
	resolution schema.Resolution
}

var transitionRules = map[Transition]transitionRule{
	TransitionRespond:    {schema.AlertActive, schema.AlertResponded, schema.ResolutionNone},
	TransitionResolve:    {schema.AlertResponded, schema.AlertResolved, schema.ResolutionResolved},
	TransitionFalseAlarm: {schema.AlertActive, schema.AlertResolved, schema.ResolutionFalseAlarm},
}

// Apply returns the status and resolution after applying t to from.
func (t Transition) Apply(from schema.AlertStatus) (schema.AlertStatus, schema.Resolution, error) {
	rule, ok := transitionRules[t]
	if !ok || rule.from != from {
		return from, schema.ResolutionNone, ErrInvalidTransition
	}
	return rule.to, rule.resolution, nil
}

// NormalTransition finds the forward transition between two statuses. The
// false alarm path is never inferred from a status pair.
func NormalTransition(from, to schema.AlertStatus) (Transition, error) {
	for _, t := range []Transition{TransitionRespond, TransitionResolve} {
		rule := transitionRules[t]
		if rule.from == from && rule.to == to {
			return t, nil
		}
	}
	return "", ErrInvalidTransition
}
