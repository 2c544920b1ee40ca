package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// styles for user-facing output
var (
	headStyle  = color.New(color.Bold, color.FgCyan)
	okStyle    = color.New(color.FgGreen)
	errStyle   = color.New(color.FgRed)
	hintStyle  = color.New(color.Faint)
	titleStyle = color.New(color.Bold, color.FgMagenta)
)

// prompter prints a prompt and waits for one answer line. Lines are read on
// their own goroutine so a blocked read never holds up cancellation.
type prompter struct {
	lines <-chan string
	stop  chan struct{}
	err   error // set by the reader before lines is closed
	out   io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	lines := make(chan string)
	p := &prompter{lines: lines, stop: make(chan struct{}), out: out}
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-p.stop:
				return
			}
		}
		p.err = sc.Err()
	}()
	return p
}

// ask returns io.EOF once input is exhausted and ctx.Err() when ctx is
// cancelled first.
func (p *prompter) ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			fmt.Fprintln(p.out)
			if p.err != nil {
				return "", p.err
			}
			return "", io.EOF
		}
		return line, nil
	}
}

// close lets the reader goroutine exit once its pending read returns.
func (p *prompter) close() {
	close(p.stop)
}

// Run drives the menu until the user exits, input ends or ctx is cancelled.
// Reaching the end of input is not an error; cancellation returns ctx.Err().
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	p := newPrompter(in, out)
	defer p.close()
	titleStyle.Fprintln(out, "Welcome to Project Scheduler.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(out, "[1] Add a task")
		fmt.Fprintln(out, "[2] Schedule!")
		fmt.Fprintln(out, "[3] Reset tasks")
		fmt.Fprintln(out, "[4] Exit")
		choice, err := p.ask(ctx, "Choose option number:")
		if err != nil {
			return endOfInput(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			if err := s.runAdd(ctx, p); err != nil {
				return endOfInput(err)
			}
		case "2":
			s.runSchedule(out)
		case "3":
			s.Reset()
			okStyle.Fprintln(out, "Tasks have been reset.")
		case "4":
			fmt.Fprintln(out, "Bye!")
			return nil
		default:
			errStyle.Fprintln(out, "Invalid option. Choose again.")
		}
	}
}

// endOfInput maps io.EOF to a clean stop.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// runAdd walks the user through one task, rejecting bad input as soon as it
// is entered. Rejections are reported to the user; the returned error only
// signals that no more answers can be read.
func (s *Session) runAdd(ctx context.Context, p *prompter) error {
	idText, err := p.ask(ctx, "Input task ID number:")
	if err != nil {
		return err
	}
	id, g, err := s.checkID(idText)
	if err != nil {
		reject(p.out, err)
		return nil
	}

	fmt.Fprintln(p.out, "Input dependency ID numbers separated by comma.")
	hintStyle.Fprintln(p.out, "Or do not input any number and press enter if no dependency.")
	hintStyle.Fprintln(p.out, "E.g.: 1,3,7")
	depsText, err := p.ask(ctx, "Dependency ID numbers:")
	if err != nil {
		return err
	}
	deps, err := checkDependencies(g, id, depsText)
	if err != nil {
		reject(p.out, err)
		return nil
	}

	fmt.Fprintln(p.out, "Input task duration in days.")
	hintStyle.Fprintf(p.out, "Whole numbers only, at most %d.\n", s.scheduler.MaxDuration())
	durationText, err := p.ask(ctx, "Task duration:")
	if err != nil {
		return err
	}
	duration, err := s.parseDuration(durationText)
	if err != nil {
		reject(p.out, err)
		return nil
	}

	if _, err := s.add(id, deps, duration); err != nil {
		reject(p.out, err)
		return nil
	}
	okStyle.Fprintf(p.out, "Task %d has been added.\n", id)
	return nil
}

func (s *Session) runSchedule(out io.Writer) {
	if s.Len() == 0 {
		fmt.Fprintln(out, "It seems that you have not added tasks yet.")
		fmt.Fprintln(out, "Add tasks first.")
		return
	}
	scheduled, err := s.ScheduleAll()
	if err != nil {
		errStyle.Fprintf(out, "Could not schedule: %v\n", err)
		return
	}
	headStyle.Fprintln(out, "Here's your schedule:")
	for _, t := range scheduled {
		fmt.Fprintln(out, t.Format(s.dateLayout))
	}
}

func reject(out io.Writer, err error) {
	errStyle.Fprintf(out, "%s Task was not added.\n", describe(err))
}
