package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// Exec runs the energyplus executable as a child process. It cannot call
// back into Go, so registering a callback fails with ErrCallbacksUnsupported.
type Exec struct {
	// Dir is the EnergyPlus install directory; empty means InstallDir().
	Dir string
	// Stdout and Stderr receive the process output; nil discards it.
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func (e *Exec) Name() string { return "exec" }

func (e *Exec) NewSession() (Session, error) {
	dir := e.Dir
	if dir == "" {
		dir = InstallDir()
	}
	log := e.Logger
	if log == nil {
		log = slog.Default()
	}
	return &execSession{rt: e, binary: Binary(dir), log: log}, nil
}

type execSession struct {
	rt     *Exec
	binary string
	log    *slog.Logger
	ran    bool
	closed bool
}

// RequestVariable is accepted and ignored: without callbacks nothing can
// read the variable.
func (s *execSession) RequestVariable(name, key string) error { return nil }

func (s *execSession) OnEndOfZoneTimeStep(Callback) error { return ErrCallbacksUnsupported }

func (s *execSession) Run(ctx context.Context, args Args) error {
	if s.closed {
		return errors.New("engine: session is closed")
	}
	if s.ran {
		return errors.New("engine: session already ran")
	}
	s.ran = true

	argv := args.Strings()
	cmd := exec.CommandContext(ctx, s.binary, argv...)
	cmd.Stdout = s.rt.Stdout
	cmd.Stderr = s.rt.Stderr

	start := time.Now()
	s.log.Info("starting energyplus", "binary", s.binary, "args", argv)
	err := cmd.Run()
	if err == nil {
		s.log.Info("energyplus finished", "elapsed", time.Since(start).Round(time.Millisecond))
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("energyplus interrupted: %w", ctx.Err())
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Code: ee.ExitCode()}
	}
	return fmt.Errorf("start energyplus: %w", err)
}

func (s *execSession) Close() error {
	s.closed = true
	return nil
}
