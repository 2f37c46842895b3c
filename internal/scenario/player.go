package scenario

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/ballpit/internal/sim"
)

// Player walks a scenario timeline against a simulator.
type Player struct {
	sc     *Scenario
	next   int
	logger *slog.Logger
}

func NewPlayer(sc *Scenario, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{sc: sc, logger: logger}
}

func (p *Player) Scenario() *Scenario { return p.sc }

// Done reports whether every event has fired.
func (p *Player) Done() bool { return p.next >= len(p.sc.Events) }

// Apply submits every event due at time t. Commands are queued, so they
// take effect on the next Step.
func (p *Player) Apply(s *sim.Simulator, t float64) (int, error) {
	fired := 0
	for p.next < len(p.sc.Events) && p.sc.Events[p.next].At <= t {
		ev := p.sc.Events[p.next]
		p.next++

		cmds := make([]sim.Command, 0, len(ev.Commands))
		for _, spec := range ev.Commands {
			cmd, err := spec.ToCommand()
			if err != nil {
				return fired, fmt.Errorf("event %d: %w", p.next, err)
			}
			cmds = append(cmds, cmd)
		}
		s.Submit(cmds...)
		if ev.Freeze != nil {
			s.SetFreeze(*ev.Freeze)
		}
		fired++

		p.logger.Debug("scenario_event",
			"scenario", p.sc.Name,
			"at", ev.At,
			"commands", len(cmds),
			"frozen", s.Frozen(),
		)
	}
	return fired, nil
}
