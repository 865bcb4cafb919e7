package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name        string
		command     string
		args        []string
		wantErr     bool
		wantErrText string
	}{
		{
			name:    "successful command",
			command: "echo",
			args:    []string{"hello"},
		},
		{
			name:    "command that fails",
			command: "false",
			wantErr: true,
		},
		{
			name:        "stderr is part of the error",
			command:     "sh",
			args:        []string{"-c", "echo no audio device >&2; exit 3"},
			wantErr:     true,
			wantErrText: "no audio device",
		},
		{
			name:    "missing command",
			command: "definitely-not-an-alarm-player",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner()

			err := r.Run(context.Background(), tt.command, tt.args...)

			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrCommandFailed)
			assert.Contains(t, err.Error(), tt.command)
			if tt.wantErrText != "" {
				assert.Contains(t, err.Error(), tt.wantErrText)
			}
		})
	}
}

func TestRunner_Run_CancelledContext(t *testing.T) {
	r := NewRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx, "sleep", "10")

	require.ErrorIs(t, err, ErrCommandFailed)
}

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		wantArgs []string
		wantOK   bool
	}{
		{
			name:     "program with arguments",
			line:     "paplay /usr/share/sounds/alarm.oga",
			wantName: "paplay",
			wantArgs: []string{"/usr/share/sounds/alarm.oga"},
			wantOK:   true,
		},
		{
			name:     "extra whitespace",
			line:     "  aplay   -q  beep.wav ",
			wantName: "aplay",
			wantArgs: []string{"-q", "beep.wav"},
			wantOK:   true,
		},
		{
			name:     "program only",
			line:     "beep",
			wantName: "beep",
			wantArgs: []string{},
			wantOK:   true,
		},
		{
			name:   "empty line",
			line:   "   ",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args, ok := SplitCommandLine(tt.line)

			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
