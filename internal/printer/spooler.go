// Package printer sends receipt text to the operating system's print spooler.
package printer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const DefaultCommand = "lpr"

var (
	// ErrNothingToPrint is returned when the receipt text is blank.
	ErrNothingToPrint = errors.New("nothing to print")
	// ErrPrintFailure wraps any failure writing the spool file or running the command.
	ErrPrintFailure = errors.New("print failure")
)

// Runner executes the spooler command. It exists so tests can observe the
// call without a real printer.
type Runner func(ctx context.Context, name string, args ...string) error

// Spooler writes receipt text to a temporary .txt file and passes its path as
// the last argument of Command.
type Spooler struct {
	Command string
	Args    []string
	TempDir string
	Run     Runner
}

func NewSpooler(command string) (*Spooler, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = []string{DefaultCommand}
	}

	return &Spooler{
		Command: fields[0],
		Args:    fields[1:],
		Run:     execRunner,
	}, nil
}

// Print returns the path of the spool file. The file is left in place since
// spoolers may read it after the command returns.
func (s *Spooler) Print(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNothingToPrint
	}

	f, err := os.CreateTemp(s.TempDir, "receipt-*.txt")
	if err != nil {
		return "", fmt.Errorf("os.CreateTemp: %w: %w", ErrPrintFailure, err)
	}
	path := f.Name()

	_, writeErr := f.WriteString(text)
	closeErr := f.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		return "", fmt.Errorf("write %s: %w: %w", path, ErrPrintFailure, err)
	}

	run := s.Run
	if run == nil {
		run = execRunner
	}

	command := s.Command
	if command == "" {
		command = DefaultCommand
	}

	args := append(append([]string{}, s.Args...), path)
	if err := run(ctx, command, args...); err != nil {
		return path, fmt.Errorf("run %s: %w: %w", command, ErrPrintFailure, err)
	}

	return path, nil
}

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}

	return nil
}
