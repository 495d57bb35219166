package agent

import (
	"github.com/pkg/errors"
)

// ErrDuplicateAgent is returned when an agent id is added twice
var ErrDuplicateAgent = errors.New("agent: duplicate id")

// Roster is the owned, ordered agent collection
// Iteration order equals insertion order so every tick visits agents deterministically
type Roster struct {
	agents []*Agent
	index  map[ID]*Agent
}

// NewRoster creates an empty roster
func NewRoster() *Roster {
	return &Roster{
		index: make(map[ID]*Agent),
	}
}

// Add appends an agent
func (r *Roster) Add(a *Agent) error {
	if _, ok := r.index[a.ID()]; ok {
		return errors.Wrapf(ErrDuplicateAgent, "agent %s", a.ID())
	}
	r.agents = append(r.agents, a)
	r.index[a.ID()] = a
	return nil
}

// Get looks an agent up by id
func (r *Roster) Get(id ID) (*Agent, bool) {
	a, ok := r.index[id]
	return a, ok
}

// All returns agents in insertion order; callers must not append to the slice
func (r *Roster) All() []*Agent {
	return r.agents
}

// Len returns number of agents
func (r *Roster) Len() int {
	return len(r.agents)
}

// Players returns agents opted into the command stage
func (r *Roster) Players() []*Agent {
	var out []*Agent
	for _, a := range r.agents {
		if a.PlayerControlled {
			out = append(out, a)
		}
	}
	return out
}
