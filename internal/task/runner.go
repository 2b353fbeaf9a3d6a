package task

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
)

// ProcessError reports a pipeline that exited non-zero, carrying the
// command for diagnostics.
type ProcessError struct {
	TaskName string
	Command  string
	Err      error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("task %s failed: %v", e.TaskName, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// Run executes a task pipeline in the foreground, streaming output to the
// process stdio. The child runs in its own process group and interrupts are
// forwarded to the whole group, so Ctrl-C reaches the build rather than
// only the wrapping shell.
func Run(ctx context.Context, t *Task) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", t.Command)
	cmd.Dir = t.Dir
	cmd.Env = append(os.Environ(), t.Env...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return &ProcessError{TaskName: t.Name, Command: t.Command, Err: err}
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	for {
		select {
		case sig := <-interrupts:
			if s, ok := sig.(syscall.Signal); ok {
				_ = syscall.Kill(-cmd.Process.Pid, s)
			}
		case err := <-done:
			if err != nil {
				return &ProcessError{TaskName: t.Name, Command: t.Command, Err: err}
			}
			return nil
		}
	}
}
