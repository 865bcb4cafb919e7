package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/michael-freling/tabletop-clock/internal/clock"
	"github.com/michael-freling/tabletop-clock/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskYesNo(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       bool
		wantErr    bool
		wantOutput string
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full word", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "asks again on other input", input: "maybe\n\nno\n", want: false, wantOutput: "Please enter 'y' or 'n'."},
		{name: "closed input", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := AskYesNo(strings.NewReader(tt.input), &out, "Discard?")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Discard?")
			if tt.wantOutput != "" {
				assert.Contains(t, out.String(), tt.wantOutput)
			}
		})
	}
}

func TestConfirmer_ContextCancelled(t *testing.T) {
	c := NewConfirmer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := c.Confirm(ctx, session.Prompt{Kind: session.PromptOverwrite, Mode: clock.ModeGong})
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNotifier_DropsWhenFull(t *testing.T) {
	n := NewNotifier()
	for i := 0; i < 10; i++ {
		n.Notify("state saved")
	}
	assert.Len(t, n.messages, cap(n.messages))
}
