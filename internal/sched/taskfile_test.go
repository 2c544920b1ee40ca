package sched

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTasks(t *testing.T) {
	doc := `
tasks:
  - id: 1
    duration: 5
  - id: 2
    dependencies: [1]
    duration: 4
  - id: 7
    dependencies: [1, 2]
    duration: 5
`
	tasks, err := DecodeTasks(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, TaskID(7), tasks[2].ID)
	assert.Equal(t, []TaskID{1, 2}, tasks[2].Dependencies)
	assert.False(t, tasks[0].HasDependencies())
}

func TestDecodeTasks_EmptyAndBroken(t *testing.T) {
	tasks, err := DecodeTasks(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = DecodeTasks(strings.NewReader("tasks: [ {id: 1"))
	assert.Error(t, err)
}

func TestEncodeTasks_ReadBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeTasks(&buf, SampleTasks()))
	assert.NotContains(t, buf.String(), "schedule")

	tasks, err := DecodeTasks(&buf)
	require.NoError(t, err)
	assert.Equal(t, SampleTasks(), tasks)
}

func TestLoadTasks_MissingFile(t *testing.T) {
	_, err := LoadTasks("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestLoadTasks(t *testing.T) {
	path := writeFile(t, "tasks.yaml", "tasks:\n  - id: 3\n    duration: 2\n")
	tasks, err := LoadTasks(path)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 2, tasks[0].Duration)
}

func TestWriteCSV(t *testing.T) {
	scheduled, err := New(DefaultConfig()).ScheduleAt([]*Task{
		{ID: 1, Duration: 5},
		{ID: 7, Dependencies: []TaskID{1, 1}, Duration: 2},
	}, testAnchor)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, scheduled, AnchorLayout))
	want := "id,dependencies,duration,start,end\n" +
		"1,,5,2026-03-02,2026-03-07\n" +
		"7,\"1,1\",2,2026-03-07,2026-03-09\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_SkipsNil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []*Task{nil, {ID: 4, Duration: 1}, nil}, ""))
	assert.Equal(t, "id,dependencies,duration,start,end\n4,,1,,\n", buf.String())
}

func TestSampleTasks_Schedule(t *testing.T) {
	got, err := New(DefaultConfig()).ScheduleAt(SampleTasks(), testAnchor)
	require.NoError(t, err)

	var lines []string
	for _, task := range got {
		lines = append(lines, task.String())
	}
	assert.Equal(t, []string{
		"Task 1: duration:5 start:02-Mar-2026 end:07-Mar-2026",
		"Task 2: duration:4 start:07-Mar-2026 end:11-Mar-2026",
		"Task 3: duration:5 start:07-Mar-2026 end:12-Mar-2026",
		"Task 4: duration:5 start:12-Mar-2026 end:17-Mar-2026",
		"Task 5: duration:5 start:12-Mar-2026 end:17-Mar-2026",
		"Task 6: duration:4 start:17-Mar-2026 end:21-Mar-2026",
		"Task 7: duration:5 start:11-Mar-2026 end:16-Mar-2026",
	}, lines)
}
