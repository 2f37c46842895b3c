package sim

import "gonum.org/v1/gonum/spatial/r2"

// Command is a configuration change submitted by the host. The set is
// closed: DeleteAll, AddParticles, SetRadius, SetGravity, SetMass,
// SetDampening.
type Command interface {
	isCommand()
}

// DeleteAll removes every live particle. Repeats within a tick purge once.
type DeleteAll struct{}

// AddParticles spawns Count particles. All adds in a tick are batched into a
// single spawn at the radius in effect once the queue has been applied.
type AddParticles struct {
	Count uint64
}

// SetRadius changes the shared radius and rescales live particles.
type SetRadius struct {
	Radius float64
}

type SetGravity struct {
	Gravity r2.Vec
}

type SetMass struct {
	Mass float64
}

type SetDampening struct {
	Dampening float64
}

func (DeleteAll) isCommand()    {}
func (AddParticles) isCommand() {}
func (SetRadius) isCommand()    {}
func (SetGravity) isCommand()   {}
func (SetMass) isCommand()      {}
func (SetDampening) isCommand() {}

// Queue keeps pending commands in submission order.
type Queue struct {
	cmds []Command
}

func (q *Queue) Push(cmds ...Command) {
	q.cmds = append(q.cmds, cmds...)
}

func (q *Queue) Len() int { return len(q.cmds) }

// Commands returns a copy of the pending commands.
func (q *Queue) Commands() []Command {
	out := make([]Command, len(q.cmds))
	copy(out, q.cmds)
	return out
}

func (q *Queue) Clear() {
	clear(q.cmds)
	q.cmds = q.cmds[:0]
}

// State is the host-controlled run state.
type State struct {
	Freeze   bool
	Commands Queue
}
