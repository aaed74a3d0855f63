package emergency

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guardknight/guardknight-api/schema"
)

func TestTransitionApply(t *testing.T) {
	statuses := []schema.AlertStatus{schema.AlertActive, schema.AlertResponded, schema.AlertResolved}

	allowed := map[Transition]schema.AlertStatus{
		TransitionRespond:    schema.AlertActive,
		TransitionResolve:    schema.AlertResponded,
		TransitionFalseAlarm: schema.AlertActive,
	}

	for transition, from := range allowed {
		for _, status := range statuses {
			to, _, err := transition.Apply(status)
			if status == from {
				assert.NoError(t, err, "%s from %s", transition, status)
				assert.True(t, statusRank(to) > statusRank(status), "%s must move forward", transition)
			} else {
				assert.Equal(t, ErrInvalidTransition, err, "%s from %s", transition, status)
			}
		}
	}

	_, _, err := Transition("reopen").Apply(schema.AlertResolved)
	assert.Equal(t, ErrInvalidTransition, err)
}

func TestFalseAlarmIsDistinct(t *testing.T) {
	to, resolution, err := TransitionFalseAlarm.Apply(schema.AlertActive)
	assert.NoError(t, err)
	assert.Equal(t, schema.AlertResolved, to)
	assert.Equal(t, schema.ResolutionFalseAlarm, resolution)

	_, resolution, err = TransitionResolve.Apply(schema.AlertResponded)
	assert.NoError(t, err)
	assert.Equal(t, schema.ResolutionResolved, resolution)

	_, err = NormalTransition(schema.AlertActive, schema.AlertResolved)
	assert.Equal(t, ErrInvalidTransition, err)
}

func TestNormalTransition(t *testing.T) {
	tr, err := NormalTransition(schema.AlertActive, schema.AlertResponded)
	assert.NoError(t, err)
	assert.Equal(t, TransitionRespond, tr)

	tr, err = NormalTransition(schema.AlertResponded, schema.AlertResolved)
	assert.NoError(t, err)
	assert.Equal(t, TransitionResolve, tr)

	for _, pair := range [][2]schema.AlertStatus{
		{schema.AlertResponded, schema.AlertActive},
		{schema.AlertResolved, schema.AlertActive},
		{schema.AlertResolved, schema.AlertResponded},
	} {
		_, err := NormalTransition(pair[0], pair[1])
		assert.Equal(t, ErrInvalidTransition, err)
	}
}

func statusRank(s schema.AlertStatus) int {
	switch s {
	case schema.AlertActive:
		return 0
	case schema.AlertResponded:
		return 1
	case schema.AlertResolved:
		return 2
	}
	return -1
}
