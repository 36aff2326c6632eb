// Package janitor runs the background expiry sweep. The engine itself is
// clock-free; the janitor is fed the caller's tick stream and turns it
// into ExpireBefore calls on registered levels.
package janitor

import (
	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"

	"hati/level"
)

// Janitor sweeps a set of price levels whenever a tick arrives. Levels
// are registered before Start; the tick channel is owned by the caller
// and closing it stops the janitor cleanly.
type Janitor struct {
	t      tomb.Tomb
	ticks  <-chan uint64
	levels []*level.PriceLevel
	log    zerolog.Logger
}

// New creates a janitor reading ticks from the given channel.
func New(ticks <-chan uint64, log zerolog.Logger) *Janitor {
	return &Janitor{
		ticks: ticks,
		log:   log,
	}
}

// Register adds a level to the sweep set. Not safe to call after Start.
func (j *Janitor) Register(levels ...*level.PriceLevel) {
	j.levels = append(j.levels, levels...)
}

// Start launches the sweep loop.
func (j *Janitor) Start() {
	j.t.Go(j.run)
}

// Stop kills the loop and waits for it to exit.
func (j *Janitor) Stop() error {
	j.t.Kill(nil)
	return j.t.Wait()
}

// Dead reports the channel closed when the janitor has fully stopped.
func (j *Janitor) Dead() <-chan struct{} {
	return j.t.Dead()
}

func (j *Janitor) run() error {
	for {
		select {
		case <-j.t.Dying():
			return nil
		case tick, ok := <-j.ticks:
			if !ok {
				return nil
			}
			expired := 0
			for _, l := range j.levels {
				expired += l.ExpireBefore(tick)
			}
			if expired > 0 {
				j.log.Info().Uint64("tick", tick).Int("expired", expired).Msg("swept expired orders")
			}
		}
	}
}
