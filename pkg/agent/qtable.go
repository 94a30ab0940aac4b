package agent

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ardalan-sia/smartcab/pkg/grid"
)

// Key addresses one Q-value.
type Key struct {
	State  State
	Action grid.Action
}

// QTable maps (state, action) to a value estimate. Pairs never written read
// as the initial value.
type QTable struct {
	initial float64
	values  map[Key]float64
}

// NewQTable returns an empty table.
func NewQTable(initial float64) *QTable {
	return &QTable{initial: initial, values: make(map[Key]float64)}
}

// Initial is the value of unseen pairs.
func (q *QTable) Initial() float64 { return q.initial }

// Get returns Q(s, a).
func (q *QTable) Get(s State, a grid.Action) float64 {
	if v, ok := q.values[Key{s, a}]; ok {
		return v
	}
	return q.initial
}

// Set stores Q(s, a).
func (q *QTable) Set(s State, a grid.Action, v float64) { q.values[Key{s, a}] = v }

// Len is the number of pairs written so far.
func (q *QTable) Len() int { return len(q.values) }

// Max returns max_a Q(s, a) over the fixed action set.
func (q *QTable) Max(s State) float64 {
	best := math.Inf(-1)
	for _, a := range grid.Actions {
		best = math.Max(best, q.Get(s, a))
	}
	return best
}

// Best returns every action attaining Max(s), in table order.
func (q *QTable) Best(s State) []grid.Action {
	best := q.Max(s)
	return lo.Filter(grid.Actions, func(a grid.Action, _ int) bool { return q.Get(s, a) == best })
}

// Entries returns a copy of the written pairs.
func (q *QTable) Entries() map[Key]float64 {
	return lo.Assign(q.values)
}

type entry struct {
	State  State       `msgpack:"state"`
	Action grid.Action `msgpack:"action"`
	Value  float64     `msgpack:"value"`
}

type snapshot struct {
	Initial float64 `msgpack:"initial"`
	Entries []entry `msgpack:"entries"`
}

// MarshalBinary encodes the table with msgpack for checkpointing.
func (q *QTable) MarshalBinary() ([]byte, error) {
	snap := snapshot{
		Initial: q.initial,
		Entries: lo.MapToSlice(q.values, func(k Key, v float64) entry {
			return entry{State: k.State, Action: k.Action, Value: v}
		}),
	}
	return msgpack.Marshal(&snap)
}

// UnmarshalBinary replaces the written pairs with a msgpack checkpoint.
// The table keeps its own initial value; the stored one is informational.
func (q *QTable) UnmarshalBinary(data []byte) error {
	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode q-table: %w", err)
	}
	q.values = make(map[Key]float64, len(snap.Entries))
	for _, e := range snap.Entries {
		q.values[Key{e.State, e.Action}] = e.Value
	}
	return nil
}
