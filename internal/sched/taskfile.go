package sched

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	yaml "github.com/goccy/go-yaml"
)

// taskFile mirrors a tasks.yaml document.
type taskFile struct {
	Tasks []*Task `yaml:"tasks"`
}

// DecodeTasks reads a YAML task list. Only the document's shape is checked;
// ids and dependencies are validated when the tasks are scheduled.
func DecodeTasks(r io.Reader) ([]*Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc taskFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	tasks := make([]*Task, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if t == nil {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// LoadTasks reads a YAML task list from path.
func LoadTasks(path string) ([]*Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open task file: %w", err)
	}
	defer f.Close()

	tasks, err := DecodeTasks(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tasks, nil
}

// EncodeTasks writes tasks in the format DecodeTasks reads. Schedule dates
// are not part of the file.
func EncodeTasks(w io.Writer, tasks []*Task) error {
	data, err := yaml.Marshal(taskFile{Tasks: tasks})
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteCSV exports a scheduled task list, one row per task. Nil entries are
// skipped.
func WriteCSV(w io.Writer, tasks []*Task, layout string) error {
	if layout == "" {
		layout = DefaultDateLayout
	}
	cw := csv.NewWriter(w)

	// write header
	if err := cw.Write([]string{"id", "dependencies", "duration", "start", "end"}); err != nil {
		return err
	}
	for _, t := range tasks {
		if t == nil {
			continue
		}
		deps := make([]string, len(t.Dependencies))
		for i, d := range t.Dependencies {
			deps[i] = strconv.Itoa(int(d))
		}
		var start, end string
		if t.Scheduled() {
			start = t.ScheduleStart.Format(layout)
			end = t.ScheduleEnd.Format(layout)
		}
		rec := []string{
			strconv.Itoa(int(t.ID)),
			strings.Join(deps, ","),
			strconv.Itoa(t.Duration),
			start,
			end,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SampleTasks returns a small seven-task project used for demos.
func SampleTasks() []*Task {
	return []*Task{
		{ID: 1, Duration: 5},
		{ID: 2, Dependencies: []TaskID{1}, Duration: 4},
		{ID: 3, Dependencies: []TaskID{1}, Duration: 5},
		{ID: 4, Dependencies: []TaskID{3}, Duration: 5},
		{ID: 5, Dependencies: []TaskID{3}, Duration: 5},
		{ID: 6, Dependencies: []TaskID{5}, Duration: 4},
		{ID: 7, Dependencies: []TaskID{1, 2}, Duration: 5},
	}
}
