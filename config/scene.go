package config

import (
	"github.com/pkg/errors"

	"github.com/lixenwraith/navagent/agent"
	"github.com/lixenwraith/navagent/navigation"
	"github.com/lixenwraith/navagent/vmath"
)

// Scene lists the walkable meshes and the agents placed on them
type Scene struct {
	Meshes []MeshConfig  `toml:"meshes"`
	Agents []AgentConfig `toml:"agents"`
}

// MeshConfig is one triangulated surface; vertices are [x, y] or [x, y, z]
type MeshConfig struct {
	Name      string      `toml:"name"`
	Vertices  [][]float64 `toml:"vertices"`
	Triangles [][3]uint32 `toml:"triangles"`
}

// AgentConfig places one agent
// Follow names another agent to chase; Target is an initial fixed destination
type AgentConfig struct {
	Name         string    `toml:"name"`
	X            float64   `toml:"x"`
	Y            float64   `toml:"y"`
	Z            float64   `toml:"z"`
	Speed        float64   `toml:"speed"`
	Player       bool      `toml:"player"`
	SimpleDriver *bool     `toml:"simple_driver"` // Defaults to true
	Follow       string    `toml:"follow"`
	Target       []float64 `toml:"target"`
}

// Validate checks shape only; geometric validity is checked by BuildRegistry
func (s Scene) Validate() error {
	if len(s.Meshes) == 0 {
		return errors.Wrap(ErrInvalid, "scene has no meshes")
	}
	for i, m := range s.Meshes {
		for j, v := range m.Vertices {
			if len(v) < 2 || len(v) > 3 {
				return errors.Wrapf(ErrInvalid, "mesh %d vertex %d has %d components", i, j, len(v))
			}
		}
	}

	names := make(map[string]bool, len(s.Agents))
	for i, a := range s.Agents {
		if a.Speed < 0 {
			return errors.Wrapf(ErrInvalid, "agent %d negative speed", i)
		}
		if a.Target != nil && len(a.Target) != 2 && len(a.Target) != 3 {
			return errors.Wrapf(ErrInvalid, "agent %d target has %d components", i, len(a.Target))
		}
		if a.Follow != "" && a.Target != nil {
			return errors.Wrapf(ErrInvalid, "agent %d has both follow and target", i)
		}
		if a.Name == "" {
			continue
		}
		if names[a.Name] {
			return errors.Wrapf(ErrInvalid, "duplicate agent name %q", a.Name)
		}
		names[a.Name] = true
	}
	for i, a := range s.Agents {
		if a.Follow != "" && !names[a.Follow] {
			return errors.Wrapf(ErrInvalid, "agent %d follows unknown %q", i, a.Follow)
		}
	}
	return nil
}

func toVec3(c []float64) vmath.Vec3 {
	v := vmath.V2(c[0], c[1])
	if len(c) == 3 {
		v.Z = c[2]
	}
	return v
}

// BuildRegistry constructs every mesh, registers it, and seals the registry
func (s Scene) BuildRegistry() (*navigation.Registry, error) {
	reg := navigation.NewRegistry()
	for i, mc := range s.Meshes {
		vertices := make([]vmath.Vec3, len(mc.Vertices))
		for j, v := range mc.Vertices {
			if len(v) < 2 {
				return nil, errors.Wrapf(ErrInvalid, "mesh %d vertex %d", i, j)
			}
			vertices[j] = toVec3(v)
		}
		triangles := make([]navigation.Triangle, len(mc.Triangles))
		for j, t := range mc.Triangles {
			triangles[j] = navigation.Tri(t[0], t[1], t[2])
		}

		mesh, err := navigation.NewMesh(vertices, triangles)
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %d %s", i, mc.Name)
		}
		if _, err := reg.Register(mesh); err != nil {
			return nil, err
		}
	}
	reg.Seal()
	return reg, nil
}

// BuildRoster creates the scene's agents bound to the first registered mesh
// Initial destinations use the given precisions
func (s Scene) BuildRoster(reg *navigation.Registry, query navigation.QueryPrecision, mode navigation.PathPrecision) (*agent.Roster, error) {
	mesh, ok := reg.First()
	if !ok {
		return nil, errors.Wrap(ErrInvalid, "registry has no meshes")
	}

	roster := agent.NewRoster()
	byName := make(map[string]*agent.Agent, len(s.Agents))
	for _, ac := range s.Agents {
		a := agent.New(vmath.V3(ac.X, ac.Y, ac.Z), ac.Speed)
		a.PlayerControlled = ac.Player
		a.SimpleDriver = ac.SimpleDriver == nil || *ac.SimpleDriver
		if ac.Target != nil {
			a.SetDestination(agent.PointTarget(toVec3(ac.Target)), query, mode, mesh.ID())
		}
		if err := roster.Add(a); err != nil {
			return nil, err
		}
		if ac.Name != "" {
			byName[ac.Name] = a
		}
	}

	// Follow links resolve after every agent exists
	for i, ac := range s.Agents {
		if ac.Follow == "" {
			continue
		}
		leader, ok := byName[ac.Follow]
		if !ok {
			return nil, errors.Wrapf(ErrInvalid, "agent %d follows unknown %q", i, ac.Follow)
		}
		roster.All()[i].SetDestination(agent.AgentTarget(leader.ID()), query, mode, mesh.ID())
	}
	return roster, nil
}
