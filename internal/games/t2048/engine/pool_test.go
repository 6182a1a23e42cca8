package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, cells int) *Pool {
	t.Helper()
	p, err := NewPool(MinCapacity(cells), cells, DefaultPaletteSize)
	require.NoError(t, err)
	return p
}

func TestNewPoolRejectsSmallCapacity(t *testing.T) {
	_, err := NewPool(24, 16, DefaultPaletteSize)
	assert.Error(t, err)

	p, err := NewPool(25, 16, DefaultPaletteSize)
	require.NoError(t, err)
	assert.Equal(t, 25, p.Capacity())
}

func TestPoolStartsDormant(t *testing.T) {
	p := newTestPool(t, 4)
	for _, id := range p.Identities() {
		assert.False(t, id.Active)
		assert.Equal(t, RoleNone, id.Role)
		assert.Equal(t, Position(4+id.ID), id.Position, "dormant identities park off the board")
		assert.False(t, id.Visible())
	}
}

func TestPoolMergeLifecycle(t *testing.T) {
	p := newTestPool(t, 4)
	start := mustGrid(t, []int{2, 0, 2, 0})

	ids, err := p.Apply(start, []Transition{SpawnAt(2), SpawnAt(0)})
	require.NoError(t, err)
	assert.Equal(t, Position(0), ids[0].Position, "spawns are assigned in ascending position order")
	assert.Equal(t, Position(2), ids[1].Position)
	assert.Equal(t, RoleSpawn, ids[0].Role)
	assert.False(t, ids[0].Meta.Merged)
	assert.Equal(t, 2, p.ActiveCount())

	merged := mustGrid(t, []int{4, 0, 0, 0})
	ids, err = p.Apply(merged, []Transition{MergeSlideTo(2, 0), MergeStaticAt(0)})
	require.NoError(t, err)

	mover := ids[1]
	assert.False(t, mover.Active)
	assert.True(t, mover.Retiring())
	assert.Equal(t, RoleMergeSlide, mover.Role)
	assert.Equal(t, RoleMeta{From: 2, To: 0}, mover.Meta)

	absorbed := ids[0]
	assert.False(t, absorbed.Active)
	assert.Equal(t, RoleMergeStatic, absorbed.Role)

	born := ids[2]
	assert.True(t, born.Active, "merge result takes the smallest free id")
	assert.Equal(t, 4, born.Value)
	assert.Equal(t, 1, born.Palette)
	assert.Equal(t, Position(0), born.Position)
	assert.Equal(t, RoleSpawn, born.Role)
	assert.True(t, born.Meta.Merged)
	assert.Equal(t, 1, p.ActiveCount())

	grown := mustGrid(t, []int{4, 0, 0, 2})
	ids, err = p.Apply(grown, []Transition{StaticAt(0), SpawnAt(3)})
	require.NoError(t, err)
	assert.Equal(t, RoleStatic, ids[2].Role)
	assert.True(t, ids[0].Active, "retired ids are free again on the next move")
	assert.Equal(t, Position(3), ids[0].Position)
	assert.Equal(t, RoleNone, ids[1].Role)
	assert.Equal(t, Position(5), ids[1].Position)
}

func TestPoolSlideCarriesEndpoints(t *testing.T) {
	p := newTestPool(t, 4)
	_, err := p.Apply(mustGrid(t, []int{0, 0, 8, 0}), []Transition{SpawnAt(2)})
	require.NoError(t, err)

	ids, err := p.Apply(mustGrid(t, []int{8, 0, 0, 0}), []Transition{SlideTo(2, 0)})
	require.NoError(t, err)
	assert.True(t, ids[0].Active)
	assert.Equal(t, Position(0), ids[0].Position)
	assert.Equal(t, RoleSlide, ids[0].Role)
	assert.Equal(t, RoleMeta{From: 2, To: 0}, ids[0].Meta)
	assert.Equal(t, 8, ids[0].Value)
	assert.Equal(t, 2, ids[0].Palette)
}

func TestPoolMissingIdentity(t *testing.T) {
	p := newTestPool(t, 4)
	before := p.Identities()

	_, err := p.Apply(mustGrid(t, []int{0, 2, 0, 0}), []Transition{SlideTo(3, 1)})
	require.ErrorIs(t, err, ErrInvariant)

	var ie *InvariantError
	require.ErrorAs(t, err, &ie)
	require.NotNil(t, ie.Transition)
	assert.Equal(t, SlideTo(3, 1), *ie.Transition)
	assert.Equal(t, before, p.Identities(), "failed apply must not change the pool")
}

func TestPoolUntouchedActiveIdentity(t *testing.T) {
	p := newTestPool(t, 4)
	g := mustGrid(t, []int{2, 0, 0, 0})
	_, err := p.Apply(g, []Transition{SpawnAt(0)})
	require.NoError(t, err)

	_, err = p.Apply(g, nil)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestPoolRejectsWrongMergeValue(t *testing.T) {
	p := newTestPool(t, 4)
	_, err := p.Apply(mustGrid(t, []int{2, 2, 0, 0}), []Transition{SpawnAt(0), SpawnAt(1)})
	require.NoError(t, err)

	_, err = p.Apply(mustGrid(t, []int{8, 0, 0, 0}), []Transition{MergeSlideTo(1, 0), MergeStaticAt(0)})
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestPoolExhaustion(t *testing.T) {
	p := &Pool{slots: make([]Identity, 1), cells: 4, paletteSize: DefaultPaletteSize}
	p.Reset()

	_, err := p.Apply(mustGrid(t, []int{2, 0, 4, 0}), []Transition{SpawnAt(0), SpawnAt(2)})
	require.ErrorIs(t, err, ErrPoolExhausted)
	assert.ErrorIs(t, err, ErrInvariant)
	assert.Equal(t, 0, p.ActiveCount())
}

func TestPoolReset(t *testing.T) {
	p := newTestPool(t, 4)
	_, err := p.Apply(mustGrid(t, []int{2, 0, 0, 0}), []Transition{SpawnAt(0)})
	require.NoError(t, err)

	p.Reset()
	assert.Equal(t, 0, p.ActiveCount())
	for _, id := range p.Identities() {
		assert.Equal(t, RoleNone, id.Role)
	}
}
