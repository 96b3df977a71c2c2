package printer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nikolayk812/ownmart-pos/internal/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

func recorder(calls *[]call, err error) printer.Runner {
	return func(_ context.Context, name string, args ...string) error {
		*calls = append(*calls, call{name: name, args: args})
		return err
	}
}

func TestNewSpooler(t *testing.T) {
	tests := []struct {
		name        string
		command     string
		wantCommand string
		wantArgs    []string
	}{
		{
			name:        "empty command: default",
			command:     "",
			wantCommand: "lpr",
			wantArgs:    []string{},
		},
		{
			name:        "command with args",
			command:     "lp -d office",
			wantCommand: "lp",
			wantArgs:    []string{"-d", "office"},
		},
		{
			name:        "extra whitespace",
			command:     "  lpr   -P  front ",
			wantCommand: "lpr",
			wantArgs:    []string{"-P", "front"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := printer.NewSpooler(tt.command)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCommand, s.Command)
			assert.Equal(t, tt.wantArgs, s.Args)
		})
	}
}

func TestPrint(t *testing.T) {
	var calls []call
	s := &printer.Spooler{
		Command: "lp",
		Args:    []string{"-d", "office"},
		TempDir: t.TempDir(),
		Run:     recorder(&calls, nil),
	}

	path, err := s.Print(t.Context(), "  Own Mart RECEIPT\n---\n")
	require.NoError(t, err)

	assert.Equal(t, s.TempDir, filepath.Dir(path))
	assert.Equal(t, ".txt", filepath.Ext(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Own Mart RECEIPT\n---", string(content))

	require.Len(t, calls, 1)
	assert.Equal(t, "lp", calls[0].name)
	assert.Equal(t, []string{"-d", "office", path}, calls[0].args)
}

func TestPrintBlankText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t\n"} {
		var calls []call
		s := &printer.Spooler{TempDir: t.TempDir(), Run: recorder(&calls, nil)}

		path, err := s.Print(t.Context(), text)
		require.ErrorIs(t, err, printer.ErrNothingToPrint)
		assert.Empty(t, path)
		assert.Empty(t, calls)

		entries, err := os.ReadDir(s.TempDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

func TestPrintCommandFails(t *testing.T) {
	var calls []call
	boom := errors.New("lpr: no default destination")
	s := &printer.Spooler{TempDir: t.TempDir(), Run: recorder(&calls, boom)}

	path, err := s.Print(t.Context(), "receipt")
	require.ErrorIs(t, err, printer.ErrPrintFailure)
	require.ErrorIs(t, err, boom)

	// the spool file is still there for inspection
	assert.FileExists(t, path)
	require.Len(t, calls, 1)
	assert.Equal(t, printer.DefaultCommand, calls[0].name)
}

func TestPrintMissingTempDir(t *testing.T) {
	var calls []call
	s := &printer.Spooler{
		TempDir: filepath.Join(t.TempDir(), "missing"),
		Run:     recorder(&calls, nil),
	}

	_, err := s.Print(t.Context(), "receipt")
	require.ErrorIs(t, err, printer.ErrPrintFailure)
	assert.Empty(t, calls)
}
