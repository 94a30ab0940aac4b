package world

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardalan-sia/smartcab/pkg/config"
	"github.com/ardalan-sia/smartcab/pkg/grid"
)

// scripted replays a fixed list of actions and records what it sensed.
type scripted struct {
	intent  grid.Action
	actions []grid.Action
	sensed  []Sensed
	results []Outcome
	resets  int
}

func (s *scripted) Reset(w *World, p *Participant)              { s.resets++ }
func (s *scripted) Intent(w *World, p *Participant) grid.Action { return s.intent }

func (s *scripted) Drive(w *World, p *Participant, in Sensed) {
	a := grid.None
	if len(s.actions) > 0 {
		a, s.actions = s.actions[0], s.actions[1:]
	}
	s.sensed = append(s.sensed, in)
	s.results = append(s.results, w.Act(p, a))
}

func quietConfig(cols, rows int) config.World {
	cfg := config.Default().World
	cfg.Cols, cfg.Rows = cols, rows
	cfg.Dummies = 0
	cfg.LightPeriodMin, cfg.LightPeriodMax = 1000, 1000
	return cfg
}

func newTestWorld(t *testing.T, cfg config.World, d Driver) (*World, *Participant) {
	t.Helper()
	w, err := New(cfg, rand.New(rand.NewSource(42)), nil)
	require.NoError(t, err)
	return w, w.AddPrimary(d)
}

func pos(c, r int) *grid.Position       { return &grid.Position{Col: c, Row: r} }
func head(h grid.Heading) *grid.Heading { return &h }

func TestLegal_RuleTableIsExhaustive(t *testing.T) {
	for _, light := range []Light{Red, Green} {
		for _, oncoming := range grid.Actions {
			for _, left := range grid.Actions {
				for _, right := range grid.Actions {
					in := Sensed{Light: light, Oncoming: oncoming, Left: left, Right: right}
					green := light == Green

					assert.True(t, Legal(grid.None, in), "none %v", in)
					assert.Equal(t, green, Legal(grid.Forward, in), "forward %v", in)
					assert.Equal(t, green || left != grid.Forward, Legal(grid.Right, in), "right %v", in)
					assert.Equal(t, green && oncoming != grid.Forward && oncoming != grid.Right,
						Legal(grid.Left, in), "left %v", in)
				}
			}
		}
	}
}

func TestNew_RejectsBadConfiguration(t *testing.T) {
	cfg := quietConfig(1, 5)
	_, err := New(cfg, rand.New(rand.NewSource(1)), nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfiguration)

	cfg = quietConfig(4, 4)
	cfg.DeadlineFactor = 0
	_, err = New(cfg, rand.New(rand.NewSource(1)), nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfiguration)
}

func TestReset_RequiresPrimary(t *testing.T) {
	w, err := New(quietConfig(4, 4), rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)
	assert.ErrorIs(t, w.Reset(ResetOptions{}), ErrNoPrimary)
	assert.ErrorIs(t, w.Step(), ErrNoPrimary)
}

func TestReset_PlacesPrimaryAndDummies(t *testing.T) {
	cfg := quietConfig(8, 6)
	cfg.Dummies = 3
	d := &scripted{}
	w, p := newTestWorld(t, cfg, d)

	for trial := 1; trial <= 50; trial++ {
		require.NoError(t, w.Reset(ResetOptions{}))
		st := w.Status()
		assert.Equal(t, trial, st.Trial)
		assert.NotEqual(t, p.Position, p.Destination)
		dist := w.Grid().Distance(p.Position, p.Destination)
		assert.GreaterOrEqual(t, dist, cfg.MinStartDistance)
		assert.Equal(t, dist*cfg.DeadlineFactor, p.Deadline)
		assert.Equal(t, p.Deadline, st.Deadline)
		assert.Zero(t, st.Steps)
		assert.False(t, st.Done)
		assert.Len(t, w.Dummies(), 3)
		assert.Len(t, w.Participants(), 4)
		for _, dummy := range w.Dummies() {
			assert.True(t, w.Grid().Contains(dummy.Position))
			assert.Contains(t, grid.Headings, dummy.Heading)
		}
	}
	assert.Equal(t, 50, d.resets)
}

func TestReset_SmallGridClampsStartDistance(t *testing.T) {
	w, p := newTestWorld(t, quietConfig(2, 2), &scripted{})
	for i := 0; i < 20; i++ {
		require.NoError(t, w.Reset(ResetOptions{}))
		assert.NotEqual(t, p.Position, p.Destination)
	}
}

func TestReset_Options(t *testing.T) {
	w, p := newTestWorld(t, quietConfig(5, 5), &scripted{})

	require.NoError(t, w.Reset(ResetOptions{Destination: pos(2, 2)}))
	assert.Equal(t, grid.Position{Col: 2, Row: 2}, p.Destination)
	assert.NotEqual(t, p.Destination, p.Position)

	require.NoError(t, w.Reset(ResetOptions{Start: pos(0, 0), Destination: pos(1, 0), Heading: head(grid.West), Deadline: 9}))
	assert.Equal(t, grid.Position{Col: 0, Row: 0}, p.Position)
	assert.Equal(t, grid.West, p.Heading)
	assert.Equal(t, 9, p.Deadline)

	assert.Error(t, w.Reset(ResetOptions{Start: pos(1, 1), Destination: pos(1, 1)}))
	assert.Error(t, w.Reset(ResetOptions{Destination: pos(9, 9)}))
}

func TestReset_FailureLeavesTrialIntact(t *testing.T) {
	cfg := quietConfig(5, 5)
	cfg.Dummies = 2
	w, p := newTestWorld(t, cfg, &scripted{})
	twin, q := newTestWorld(t, cfg, &scripted{})
	require.NoError(t, w.Reset(ResetOptions{}))
	require.NoError(t, twin.Reset(ResetOptions{}))

	participants := append([]*Participant(nil), w.Participants()...)
	positions := make([]grid.Position, len(participants))
	for i, d := range participants {
		positions[i] = d.Position
	}
	status, deadline := w.Status(), p.Deadline

	assert.Error(t, w.Reset(ResetOptions{Start: pos(1, 1), Destination: pos(1, 1)}))
	assert.Error(t, w.Reset(ResetOptions{Start: pos(7, 0)}))

	assert.Equal(t, participants, w.Participants())
	for i, d := range w.Participants() {
		assert.Equal(t, positions[i], d.Position)
	}
	assert.Equal(t, status, w.Status())
	assert.Equal(t, deadline, p.Deadline)

	// No randomness was consumed: the next trial matches a world that never failed.
	require.NoError(t, w.Reset(ResetOptions{}))
	require.NoError(t, twin.Reset(ResetOptions{}))
	assert.Equal(t, q.Position, p.Position)
	assert.Equal(t, q.Destination, p.Destination)
	for i, d := range w.Dummies() {
		assert.Equal(t, twin.Dummies()[i].Position, d.Position)
	}
}

func TestSense_RelativeDirections(t *testing.T) {
	w, p := newTestWorld(t, quietConfig(4, 4), &scripted{})
	require.NoError(t, w.Reset(ResetOptions{Start: pos(1, 1), Destination: pos(3, 3), Heading: head(grid.North)}))
	w.Lights().SetAll(true, w.Time())

	add := func(h grid.Heading, intent grid.Action) {
		w.participants = append(w.participants, &Participant{
			Kind: KindDummy, Position: grid.Position{Col: 1, Row: 1}, Heading: h, intent: intent, driver: &Dummy{next: intent},
		})
	}
	add(grid.South, grid.Forward) // oncoming
	add(grid.West, grid.Left)     // approaching from the east: right side
	add(grid.East, grid.Right)    // approaching from the west: left side
	add(grid.North, grid.Forward) // same heading, ignored

	in := w.Sense(p)
	assert.Equal(t, Green, in.Light)
	assert.Equal(t, grid.Forward, in.Oncoming)
	assert.Equal(t, grid.Left, in.Right)
	assert.Equal(t, grid.Right, in.Left)

	p.Heading = grid.East
	in = w.Sense(p)
	assert.Equal(t, Red, in.Light)
	assert.Equal(t, grid.Left, in.Oncoming)
	assert.Equal(t, grid.Forward, in.Right)
	assert.Equal(t, grid.Forward, in.Left)
}

func TestSense_HasNoSideEffects(t *testing.T) {
	cfg := quietConfig(3, 3)
	cfg.Dummies = 6
	w, p := newTestWorld(t, cfg, &scripted{})
	require.NoError(t, w.Reset(ResetOptions{}))

	before := *p
	first := w.Sense(p)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, w.Sense(p))
	}
	assert.Equal(t, before.Position, p.Position)
	assert.Equal(t, before.Heading, p.Heading)
	assert.Zero(t, w.Status().Steps)
}

func TestAct_NorthEdgeWraps(t *testing.T) {
	d := &scripted{intent: grid.Forward, actions: []grid.Action{grid.Forward}}
	w, p := newTestWorld(t, quietConfig(4, 3), d)
	require.NoError(t, w.Reset(ResetOptions{Start: pos(2, 0), Destination: pos(0, 1), Heading: head(grid.North)}))
	w.Lights().SetAll(true, w.Time())

	require.NoError(t, w.Step())
	assert.Equal(t, grid.Position{Col: 2, Row: 2}, p.Position)
	assert.Equal(t, grid.North, p.Heading)
	assert.True(t, d.results[0].Moved)
}

func TestAct_RewardSchedule(t *testing.T) {
	cfg := quietConfig(6, 6)
	r := cfg.Rewards
	tests := []struct {
		name      string
		nsGreen   bool
		intent    grid.Action
		action    grid.Action
		reward    float64
		violation bool
		moved     bool
	}{
		{"forward on red", false, grid.Forward, grid.Forward, r.Violation, true, false},
		{"left on red", false, grid.Left, grid.Left, r.Violation, true, false},
		{"right on red with clear left", false, grid.Right, grid.Right, r.Progress, false, true},
		{"null", true, grid.Forward, grid.None, r.Null, false, false},
		{"forward on green along waypoint", true, grid.Forward, grid.Forward, r.Progress, false, true},
		{"left on green off waypoint", true, grid.Forward, grid.Left, r.Detour, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &scripted{intent: tt.intent, actions: []grid.Action{tt.action}}
			w, p := newTestWorld(t, cfg, d)
			require.NoError(t, w.Reset(ResetOptions{Start: pos(0, 0), Destination: pos(3, 3), Heading: head(grid.North)}))
			w.Lights().SetAll(tt.nsGreen, w.Time())

			require.NoError(t, w.Step())
			out := d.results[0]
			assert.Equal(t, tt.reward, out.Reward)
			assert.Equal(t, tt.violation, out.Violation)
			assert.Equal(t, tt.moved, out.Moved)
			if !tt.moved {
				assert.Equal(t, grid.Position{}, p.Position)
				assert.Equal(t, grid.North, p.Heading)
			}
			if tt.violation {
				assert.Equal(t, 1, w.Status().Violations)
			}
		})
	}
}

func TestAct_DeadlineOfOneFailsAfterOneStep(t *testing.T) {
	for _, a := range grid.Actions {
		t.Run(a.String(), func(t *testing.T) {
			d := &scripted{intent: grid.Forward, actions: []grid.Action{a}}
			w, _ := newTestWorld(t, quietConfig(6, 6), d)
			require.NoError(t, w.Reset(ResetOptions{Start: pos(0, 0), Destination: pos(3, 3), Heading: head(grid.East), Deadline: 1}))

			require.NoError(t, w.Step())
			st := w.Status()
			assert.True(t, st.Done)
			assert.False(t, st.Success)
			assert.Equal(t, 1, st.Steps)
			assert.True(t, d.results[0].Done)
			assert.ErrorIs(t, w.Step(), ErrTrialOver)
		})
	}
}

func TestAct_ArrivalScoresBonus(t *testing.T) {
	cfg := quietConfig(4, 4)
	d := &scripted{intent: grid.Forward, actions: []grid.Action{grid.Forward}}
	w, _ := newTestWorld(t, cfg, d)
	require.NoError(t, w.Reset(ResetOptions{Start: pos(0, 0), Destination: pos(1, 0), Heading: head(grid.East)}))
	w.Lights().SetAll(false, w.Time())

	require.NoError(t, w.Step())
	out := d.results[0]
	assert.True(t, out.Done)
	assert.True(t, out.Success)
	assert.Equal(t, cfg.Rewards.Progress+cfg.Rewards.Destination, out.Reward)
	assert.True(t, w.Status().Success)
}

func TestAct_NoDeadlineWithoutEnforcement(t *testing.T) {
	cfg := quietConfig(6, 6)
	cfg.EnforceDeadline = false
	d := &scripted{}
	w, p := newTestWorld(t, cfg, d)
	require.NoError(t, w.Reset(ResetOptions{Start: pos(0, 0), Destination: pos(3, 3), Deadline: 2}))

	for i := 0; i < 10; i++ {
		require.NoError(t, w.Step())
	}
	assert.Equal(t, 2, p.Deadline)
	assert.False(t, w.Status().Done)

	w.Finish()
	assert.True(t, w.Status().Done)
	assert.False(t, w.Status().Success)
}

func TestStep_SensingUsesPreMoveSnapshot(t *testing.T) {
	w, p := newTestWorld(t, quietConfig(4, 4), &scripted{intent: grid.Forward, actions: []grid.Action{grid.None}})
	require.NoError(t, w.Reset(ResetOptions{Start: pos(1, 1), Destination: pos(3, 3), Heading: head(grid.North)}))
	w.Lights().SetAll(false, w.Time())

	// An east-bound car on the learner's left crosses first.
	crosser := &scripted{intent: grid.Forward, actions: []grid.Action{grid.Forward}}
	w.participants = append([]*Participant{{Kind: KindDummy, Position: *pos(1, 1), Heading: grid.East, driver: crosser}}, w.participants...)

	require.NoError(t, w.Step())
	d := p.Driver().(*scripted)
	assert.Equal(t, grid.Forward, d.sensed[0].Left, "learner must see the car that left during the step")
	assert.Equal(t, grid.Position{Col: 2, Row: 1}, w.participants[0].Position)
}

func TestDummies_WaitWhenBlocked(t *testing.T) {
	cfg := config.Default().World
	cfg.Cols, cfg.Rows, cfg.Dummies = 3, 3, 12
	cfg.LightPeriodMin, cfg.LightPeriodMax = 1000, 1000
	cfg.EnforceDeadline = false
	w, _ := newTestWorld(t, cfg, &scripted{})
	require.NoError(t, w.Reset(ResetOptions{}))

	type before struct {
		in      Sensed
		intent  grid.Action
		pos     grid.Position
		heading grid.Heading
	}
	blocked, moved := 0, 0
	for i := 0; i < 200; i++ {
		for _, q := range w.participants {
			q.intent = q.driver.Intent(w, q)
		}
		seen := map[*Participant]before{}
		for _, d := range w.Dummies() {
			seen[d] = before{w.Sense(d), d.Driver().Intent(w, d), d.Position, d.Heading}
		}
		require.NoError(t, w.Step())
		for _, d := range w.Dummies() {
			b := seen[d]
			switch {
			case !Legal(b.intent, b.in):
				blocked++
				assert.Equal(t, b.pos, d.Position)
				assert.Equal(t, b.heading, d.Heading)
				assert.Equal(t, b.intent, d.Intent())
			case b.intent != grid.None:
				moved++
				assert.Equal(t, b.intent.Turn(b.heading), d.Heading)
				assert.Equal(t, w.Grid().Move(b.pos, d.Heading), d.Position)
			}
		}
	}
	assert.Positive(t, blocked)
	assert.Positive(t, moved)
	assert.Equal(t, 200, w.Time())
}

func TestSameSeedSameTrial(t *testing.T) {
	run := func() []grid.Position {
		cfg := config.Default().World
		w, err := New(cfg, rand.New(rand.NewSource(7)), nil)
		require.NoError(t, err)
		p := w.AddPrimary(&scripted{})
		require.NoError(t, w.Reset(ResetOptions{}))
		var trace []grid.Position
		for i := 0; i < 30; i++ {
			require.NoError(t, w.Step())
			for _, q := range w.Participants() {
				trace = append(trace, q.Position)
			}
		}
		return append(trace, p.Position, p.Destination)
	}
	assert.Equal(t, run(), run())
}
