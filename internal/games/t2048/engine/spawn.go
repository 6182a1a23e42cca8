package engine

// Rand is the randomness a Spawner needs. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// FourChance is the probability that a spawned tile is a 4 instead of a 2.
const FourChance = 0.1

// Spawner places new tiles on random empty cells.
type Spawner struct {
	rng Rand
}

// NewSpawner returns a spawner drawing from rng.
func NewSpawner(rng Rand) *Spawner {
	return &Spawner{rng: rng}
}

// Spawn places one tile on a uniformly chosen empty cell. It reports false,
// leaving g unchanged, when the board is full.
func (s *Spawner) Spawn(g Grid) (Grid, Transition, bool) {
	empty := g.EmptyPositions()
	if len(empty) == 0 {
		return g, Transition{}, false
	}
	p := empty[s.rng.Intn(len(empty))]
	v := 2
	if s.rng.Float64() < FourChance {
		v = 4
	}
	return g.With(p, v), SpawnAt(p), true
}
