package order

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Generator produces human-readable order numbers of the form
// <game>-<YYYYMMDD>-<4-digit suffix>. The suffix is drawn uniformly from
// [1000,9999]; collisions are possible and accepted, since the number is a
// correlation handle for the chat rather than a database key.
type Generator struct {
	now  func() time.Time
	intN func(n int) int
}

func NewGenerator() *Generator {
	return &Generator{
		now:  time.Now,
		intN: rand.IntN,
	}
}

// Generate derives an order number from the game name and the local date.
func (g *Generator) Generate(game string) string {
	d := g.now()
	suffix := g.intN(9000) + 1000
	return fmt.Sprintf("%s-%04d%02d%02d-%d", game, d.Year(), int(d.Month()), d.Day(), suffix)
}
