package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedMachine(t *testing.T, mode Mode, cfg Config) *Machine {
	t.Helper()
	m := NewMachine(mode, cfg)
	require.NoError(t, m.Start("game-1"))
	return m
}

func tap(t *testing.T, m *Machine, side Side) Transition {
	t.Helper()
	tr, err := m.Tap(side)
	require.NoError(t, err)
	return tr
}

func ticks(m *Machine, n int) {
	for i := 0; i < n; i++ {
		m.Tick()
	}
}

func TestMachine_Start(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		wantTime int
	}{
		{name: "standard seeds total time", mode: ModeStandard, wantTime: 600},
		{name: "fischer seeds total time", mode: ModeFischer, wantTime: 600},
		{name: "bronstein seeds total time", mode: ModeBronstein, wantTime: 600},
		{name: "gong seeds gong time", mode: ModeGong, wantTime: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(tt.mode, DefaultConfig())
			require.NoError(t, m.Start("game-1"))

			got := m.Snapshot()
			assert.Equal(t, StateReady, got.State)
			assert.Equal(t, [2]int{tt.wantTime, tt.wantTime}, got.Times)
			assert.Equal(t, SideNone, got.Active)
			assert.Equal(t, 1, got.TurnCount)
			assert.Equal(t, tt.wantTime, got.TurnStartTime)
			assert.Equal(t, "game-1", got.GameID)
			assert.False(t, m.Running())
		})
	}
}

func TestMachine_StartRequiresSetup(t *testing.T) {
	m := startedMachine(t, ModeStandard, DefaultConfig())

	err := m.Start("game-2")
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, "game-1", m.Snapshot().GameID)
}

func TestMachine_Configure(t *testing.T) {
	tests := []struct {
		name    string
		state   func(m *Machine)
		mode    Mode
		cfg     Config
		wantErr error
	}{
		{
			name:  "accepts valid configuration in setup",
			state: func(m *Machine) {},
			mode:  ModeGong,
			cfg:   Config{TotalTimeSeconds: 60, IncrementSeconds: 0, IncrementStartTurn: 1, GongSeconds: 1},
		},
		{
			name:    "rejects unknown mode",
			state:   func(m *Machine) {},
			mode:    Mode("BLITZ"),
			cfg:     DefaultConfig(),
			wantErr: ErrInvalidMode,
		},
		{
			name:    "rejects total time below one minute",
			state:   func(m *Machine) {},
			mode:    ModeStandard,
			cfg:     Config{TotalTimeSeconds: 59, IncrementStartTurn: 1, GongSeconds: 30},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "rejects zero gong time",
			state:   func(m *Machine) {},
			mode:    ModeGong,
			cfg:     Config{TotalTimeSeconds: 600, IncrementStartTurn: 1, GongSeconds: 0},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "rejects negative increment",
			state:   func(m *Machine) {},
			mode:    ModeFischer,
			cfg:     Config{TotalTimeSeconds: 600, IncrementSeconds: -1, IncrementStartTurn: 1, GongSeconds: 30},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "rejects increment start turn zero",
			state:   func(m *Machine) {},
			mode:    ModeFischer,
			cfg:     Config{TotalTimeSeconds: 600, IncrementSeconds: 2, IncrementStartTurn: 0, GongSeconds: 30},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "rejects reconfiguration during a game",
			state: func(m *Machine) {
				_ = m.Start("game-1")
			},
			mode:    ModeStandard,
			cfg:     DefaultConfig(),
			wantErr: ErrInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(ModeStandard, DefaultConfig())
			tt.state(m)

			err := m.Configure(tt.mode, tt.cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			got := m.Snapshot()
			assert.Equal(t, tt.mode, got.Mode)
			assert.Equal(t, tt.cfg, got.Config)
		})
	}
}

func TestMachine_ConfigureKeepsAllFields(t *testing.T) {
	m := NewMachine(ModeStandard, DefaultConfig())
	cfg := Config{TotalTimeSeconds: 900, IncrementSeconds: 7, IncrementStartTurn: 4, GongSeconds: 45}

	require.NoError(t, m.Configure(ModeFischer, cfg))
	require.NoError(t, m.Configure(ModeGong, m.Snapshot().Config))

	assert.Equal(t, cfg, m.Snapshot().Config)
	assert.Equal(t, [2]int{45, 45}, m.Snapshot().Times)
}

func TestMachine_ScenarioA_Standard(t *testing.T) {
	cfg := DefaultConfig()
	m := startedMachine(t, ModeStandard, cfg)

	tap(t, m, SideOne)
	got := m.Snapshot()
	assert.Equal(t, SideTwo, got.Active)
	assert.Equal(t, 1, got.TurnCount)
	assert.Equal(t, StatePlaying, got.State)

	tap(t, m, SideTwo)
	got = m.Snapshot()
	assert.Equal(t, SideOne, got.Active)
	assert.Equal(t, 2, got.TurnCount)
	assert.Equal(t, [2]int{600, 600}, got.Times)

	tap(t, m, SideOne)
	got = m.Snapshot()
	assert.Equal(t, SideTwo, got.Active)
	assert.Equal(t, 3, got.TurnCount)
}

func TestMachine_ScenarioB_Fischer(t *testing.T) {
	cfg := Config{TotalTimeSeconds: 60, IncrementSeconds: 5, IncrementStartTurn: 2, GongSeconds: 30}
	m := startedMachine(t, ModeFischer, cfg)

	tap(t, m, SideOne)
	got := m.Snapshot()
	assert.Equal(t, SideTwo, got.Active)
	assert.Equal(t, 1, got.TurnCount)
	assert.Equal(t, [2]int{60, 60}, got.Times)

	tap(t, m, SideTwo)
	got = m.Snapshot()
	assert.Equal(t, 60, got.Time(SideTwo))
	assert.Equal(t, 2, got.TurnCount)
	assert.Equal(t, SideOne, got.Active)

	tap(t, m, SideOne)
	got = m.Snapshot()
	assert.Equal(t, 65, got.Time(SideOne))
	assert.Equal(t, 3, got.TurnCount)
}

func TestMachine_ScenarioC_Gong(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GongSeconds = 30
	m := startedMachine(t, ModeGong, cfg)

	tap(t, m, SideTwo)
	active := SideOne
	for turn, elapsed := range []int{0, 3, 29, 12, 1, 17} {
		ticks(m, elapsed)
		require.Equal(t, StatePlaying, m.State(), "turn %d", turn)

		tap(t, m, active)
		assert.Equal(t, 30, m.Snapshot().Time(active), "turn %d", turn)
		active = active.Opponent()
	}
}

func TestMachine_FischerIncrementGating(t *testing.T) {
	cfg := Config{TotalTimeSeconds: 300, IncrementSeconds: 10, IncrementStartTurn: 4, GongSeconds: 30}
	m := startedMachine(t, ModeFischer, cfg)
	tap(t, m, SideTwo)

	for i := 0; i < 8; i++ {
		before := m.Snapshot()
		ending := before.Active

		ticks(m, 2)
		tap(t, m, ending)

		after := m.Snapshot()
		want := before.Time(ending) - 2
		if before.TurnCount >= cfg.IncrementStartTurn {
			want += cfg.IncrementSeconds
		}
		assert.Equal(t, want, after.Time(ending), "turn %d", before.TurnCount)
	}
}

func TestMachine_BronsteinSecondSideFirstTurn(t *testing.T) {
	cfg := Config{TotalTimeSeconds: 600, IncrementSeconds: 3, IncrementStartTurn: 1, GongSeconds: 30}
	m := startedMachine(t, ModeBronstein, cfg)

	// side 1 hands the clock to side 2
	tap(t, m, SideOne)
	assert.Equal(t, 600, m.Snapshot().TurnStartTime)

	ticks(m, 5)
	tap(t, m, SideTwo)
	got := m.Snapshot()
	assert.Equal(t, 598, got.Time(SideTwo))
	assert.Equal(t, 600, got.TurnStartTime)

	ticks(m, 2)
	tap(t, m, SideOne)
	got = m.Snapshot()
	assert.Equal(t, 600, got.Time(SideOne))
	assert.Equal(t, 598, got.TurnStartTime)

	// instant tap gains nothing
	tap(t, m, SideTwo)
	assert.Equal(t, 598, m.Snapshot().Time(SideTwo))
}

func TestMachine_IgnoredTaps(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) *Machine
		side  Side
	}{
		{
			name: "tap in setup",
			setup: func(t *testing.T) *Machine {
				return NewMachine(ModeStandard, DefaultConfig())
			},
			side: SideOne,
		},
		{
			name: "tap on the inactive side",
			setup: func(t *testing.T) *Machine {
				m := startedMachine(t, ModeFischer, DefaultConfig())
				tap(t, m, SideOne)
				return m
			},
			side: SideOne,
		},
		{
			name: "tap after expiry",
			setup: func(t *testing.T) *Machine {
				cfg := DefaultConfig()
				cfg.GongSeconds = 2
				m := startedMachine(t, ModeGong, cfg)
				tap(t, m, SideOne)
				ticks(m, 2)
				return m
			},
			side: SideTwo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.setup(t)
			before := m.Snapshot()

			got := tap(t, m, tt.side)

			assert.False(t, got.Accepted)
			assert.Equal(t, before, m.Snapshot())
		})
	}
}

func TestMachine_InvalidSide(t *testing.T) {
	m := startedMachine(t, ModeStandard, DefaultConfig())
	before := m.Snapshot()

	for _, side := range []Side{SideNone, Side(3), Side(-1)} {
		_, err := m.Tap(side)
		require.ErrorIs(t, err, ErrInvalidSide)
	}
	assert.Equal(t, before, m.Snapshot())
}

func TestMachine_DoubleTapIsTwoTurns(t *testing.T) {
	m := startedMachine(t, ModeStandard, DefaultConfig())
	tap(t, m, SideOne)

	tap(t, m, SideTwo)
	second := tap(t, m, SideOne)

	assert.True(t, second.TurnEnded)
	assert.Equal(t, 3, m.Snapshot().TurnCount)
	assert.Equal(t, SideTwo, m.Snapshot().Active)
}

func TestMachine_PauseResume(t *testing.T) {
	m := startedMachine(t, ModeStandard, DefaultConfig())
	tap(t, m, SideOne)
	ticks(m, 4)

	require.True(t, m.Pause().Accepted)
	paused := m.Snapshot()
	assert.Equal(t, StatePaused, paused.State)
	assert.False(t, m.Running())

	ticks(m, 50)
	assert.Equal(t, paused.Times, m.Snapshot().Times)

	require.True(t, m.Resume().Accepted)
	got := m.Snapshot()
	assert.Equal(t, StatePlaying, got.State)
	assert.Equal(t, SideTwo, got.Active)
	assert.Equal(t, 596, got.Time(SideTwo))

	assert.False(t, m.Resume().Accepted)
}

func TestMachine_TapOutOfPauseContinuesActiveSide(t *testing.T) {
	m := startedMachine(t, ModeStandard, DefaultConfig())
	tap(t, m, SideOne)
	m.Pause()

	// tapping the inactive side does not start the opponent again
	got := tap(t, m, SideOne)

	assert.True(t, got.Accepted)
	assert.False(t, got.TurnEnded)
	snap := m.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, SideTwo, snap.Active)
	assert.Equal(t, 1, snap.TurnCount)
}

func TestMachine_Expiry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TotalTimeSeconds = 60
	m := startedMachine(t, ModeStandard, cfg)
	tap(t, m, SideOne)

	var expired []Side
	for i := 0; i < 70; i++ {
		if tr := m.Tick(); tr.Expired != SideNone {
			expired = append(expired, tr.Expired)
		}
	}

	assert.Equal(t, []Side{SideTwo}, expired)
	got := m.Snapshot()
	assert.Equal(t, StateFinished, got.State)
	assert.Equal(t, [2]int{60, 0}, got.Times)
	assert.Equal(t, SideTwo, got.Expired())

	for _, side := range []Side{SideOne, SideTwo} {
		tap(t, m, side)
	}
	assert.False(t, m.Pause().Accepted)
	assert.Equal(t, [2]int{60, 0}, m.Snapshot().Times)
}

func TestMachine_ResetAndRestore(t *testing.T) {
	cfg := DefaultConfig()
	m := startedMachine(t, ModeFischer, cfg)
	tap(t, m, SideOne)
	ticks(m, 12)
	tap(t, m, SideTwo)
	saved := m.Snapshot()

	m.Reset()
	got := m.Snapshot()
	assert.Equal(t, StateSetup, got.State)
	assert.Equal(t, ModeFischer, got.Mode)
	assert.Empty(t, got.GameID)

	require.NoError(t, m.Restore(saved))
	restored := m.Snapshot()
	want := saved
	want.State = StatePaused
	assert.Equal(t, want, restored)
}

func TestMachine_RestoreRejectsInvalidSnapshots(t *testing.T) {
	valid := Snapshot{
		GameID:        "game-1",
		Times:         [2]int{100, 200},
		Active:        SideOne,
		TurnCount:     3,
		TurnStartTime: 100,
		Mode:          ModeStandard,
		Config:        DefaultConfig(),
		State:         StatePlaying,
	}

	tests := []struct {
		name    string
		mutate  func(s *Snapshot)
		wantErr error
	}{
		{name: "unknown mode", mutate: func(s *Snapshot) { s.Mode = "CHESS960" }, wantErr: ErrInvalidMode},
		{name: "invalid config", mutate: func(s *Snapshot) { s.Config.GongSeconds = 0 }, wantErr: ErrInvalidConfig},
		{name: "no active side", mutate: func(s *Snapshot) { s.Active = SideNone }, wantErr: ErrInvalidState},
		{name: "zero turn count", mutate: func(s *Snapshot) { s.TurnCount = 0 }, wantErr: ErrInvalidState},
		{name: "expired clock", mutate: func(s *Snapshot) { s.Times[1] = 0 }, wantErr: ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(ModeStandard, DefaultConfig())
			snap := valid
			tt.mutate(&snap)

			err := m.Restore(snap)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, StateSetup, m.State())
		})
	}
}
