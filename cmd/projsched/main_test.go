package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projsched/internal/sched"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, sched.EncodeTasks(f, sched.SampleTasks()))
	return path
}

func TestScheduleCmd(t *testing.T) {
	tasks := writeSample(t)
	csvPath := filepath.Join(t.TempDir(), "out.csv")

	out, _, err := execute(t, "", "schedule", "--tasks", tasks, "--anchor", "2026-03-02", "--csv", csvPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Task 1: duration:5 start:02-Mar-2026 end:07-Mar-2026", lines[0])
	assert.Equal(t, "Task 7: duration:5 start:11-Mar-2026 end:16-Mar-2026", lines[6])

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,dependencies,duration,start,end\n"))
	assert.Contains(t, string(data), "6,5,4,17-Mar-2026,21-Mar-2026")
}

func TestScheduleCmd_Cycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tasks:
  - id: 1
    dependencies: [2]
    duration: 1
  - id: 2
    dependencies: [1]
    duration: 1
`), 0o644))

	_, stderr, err := execute(t, "", "schedule", "--tasks", path)
	require.Error(t, err)
	var cyc *sched.CyclicDependencyError
	assert.ErrorAs(t, err, &cyc)
	assert.Contains(t, stderr, "dependency cycle detected")
}

func TestScheduleCmd_BadAnchor(t *testing.T) {
	_, _, err := execute(t, "", "schedule", "--tasks", writeSample(t), "--anchor", "March 2nd")
	assert.Error(t, err)
}

func TestSampleCmd(t *testing.T) {
	out, _, err := execute(t, "", "sample")
	require.NoError(t, err)

	tasks, err := sched.DecodeTasks(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, sched.SampleTasks(), tasks)
}

func TestRootCmd_Interactive(t *testing.T) {
	out, _, err := execute(t, "2\n4\n", "--tasks", writeSample(t), "--anchor", "2026-03-02")
	require.NoError(t, err)

	assert.Contains(t, out, "Here's your schedule:")
	assert.Contains(t, out, "Task 6: duration:4 start:17-Mar-2026 end:21-Mar-2026")
	assert.Contains(t, out, "Bye!")
}

func TestRootCmd_InterruptIsCleanExit(t *testing.T) {
	color.NoColor = true
	pr, pw := io.Pipe()
	defer pw.Close()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--anchor", "2026-03-02"})
	cmd.SetIn(pr)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.NotContains(t, stderr.String(), "Error")
	assert.Contains(t, stdout.String(), "Choose option number:")
}
