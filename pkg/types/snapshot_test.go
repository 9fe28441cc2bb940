package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionLabel(t *testing.T) {
	cases := []struct {
		name string
		pos  Position
		want string
	}{
		{name: "ground floor room 3", pos: Position{Floor: 0, Room: 3}, want: "103"},
		{name: "third floor room 11", pos: Position{Floor: 2, Room: 11}, want: "311"},
		{name: "two digit floor", pos: Position{Floor: 9, Room: 1}, want: "1001"},
		{name: "three digit room", pos: Position{Floor: 0, Room: 100}, want: "1100"},
		{name: "staircase ground floor", pos: Position{Floor: 0, Room: 0}, want: "E1"},
		{name: "staircase fifth floor", pos: Position{Floor: 4, Room: 0}, want: "E5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.pos.Label())
		})
	}
}

func TestSnapshotHas(t *testing.T) {
	s := &Snapshot{Building: []Floor{
		{{Floor: 0, Room: 0, IsStaircase: true}, {Floor: 0, Room: 1}},
		{{Floor: 1, Room: 0, IsStaircase: true}, {Floor: 1, Room: 1}},
	}}

	assert.True(t, s.Has(Position{Floor: 1, Room: 1}))
	assert.True(t, s.Has(Position{Floor: 0, Room: 0}))
	assert.False(t, s.Has(Position{Floor: 2, Room: 1}))
	assert.False(t, s.Has(Position{Floor: 0, Room: 7}))
	assert.False(t, s.Has(Position{Floor: -1, Room: 0}))

	var none *Snapshot
	assert.False(t, none.Has(Position{}))
}

func TestAdvanceResultNewZombieAt(t *testing.T) {
	_, ok := AdvanceResult{NewZombieGenerated: true}.NewZombieAt()
	assert.False(t, ok, "a generated zombie without a location is ignored")

	_, ok = AdvanceResult{NewZombieLocation: []int{1, 2}}.NewZombieAt()
	assert.False(t, ok)

	p, ok := AdvanceResult{NewZombieGenerated: true, NewZombieLocation: []int{1, 2}}.NewZombieAt()
	assert.True(t, ok)
	assert.Equal(t, Position{Floor: 1, Room: 2}, p)
}
