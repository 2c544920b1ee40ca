package sched

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	deps := []TaskID{1, 2}
	task, err := NewTask(3, deps, 4)
	require.NoError(t, err)
	assert.Equal(t, TaskID(3), task.ID)
	assert.Equal(t, []TaskID{1, 2}, task.Dependencies)
	assert.True(t, task.HasDependencies())
	assert.False(t, task.Scheduled())

	deps[0] = 9
	assert.Equal(t, TaskID(1), task.Dependencies[0], "dependencies are copied")

	empty, err := NewTask(4, []TaskID{}, 0)
	require.NoError(t, err)
	assert.Nil(t, empty.Dependencies)
	assert.False(t, empty.HasDependencies())
}

func TestNewTask_Rejects(t *testing.T) {
	_, err := NewTask(3, []TaskID{1, 3}, 4)
	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "dependencies", invalid.Field)
	assert.Equal(t, `invalid dependencies "3": task cannot depend on itself`, err.Error())

	_, err = NewTask(3, nil, -1)
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "duration", invalid.Field)
	assert.ErrorIs(t, err, ErrNegativeDuration)

	_, err = NewTask(3, nil, DefaultMaxDuration+1)
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "duration", invalid.Field)
	assert.ErrorIs(t, err, ErrDurationTooLong)
	assert.Contains(t, err.Error(), "task 3")

	task, err := NewTask(3, nil, DefaultMaxDuration)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxDuration, task.Duration)
}

func TestTask_Format(t *testing.T) {
	task := &Task{ID: 2, Dependencies: []TaskID{1}, Duration: 4}
	assert.Equal(t, "Task 2: duration:4 start:- end:-", task.String())

	place(task, testAnchor, 9)
	assert.True(t, task.Scheduled())
	assert.Equal(t, "Task 2: duration:4 start:07-Mar-2026 end:11-Mar-2026", task.String())
	assert.Equal(t, "Task 2: duration:4 start:2026-03-07 end:2026-03-11", task.Format(AnchorLayout))
}

func TestInvalidInputError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &InvalidInputError{Field: "duration", Value: "x", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `invalid duration "x": boom`, err.Error())
}
