package navigation

import (
	"sync"

	"github.com/pkg/errors"
)

// Registry errors
var (
	ErrRegistrySealed = errors.New("navigation: registry is sealed")
	ErrDuplicateMesh  = errors.New("navigation: mesh already registered")
	ErrNilMesh        = errors.New("navigation: nil mesh")
)

// Registry maps mesh identifiers to immutable meshes
// Written during scene setup, read-only after Seal; concurrent reads need no coordination
type Registry struct {
	mu     sync.RWMutex
	order  []MeshID
	meshes map[MeshID]*Mesh
	sealed bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		meshes: make(map[MeshID]*Mesh),
	}
}

// Register adds a mesh; iteration order follows registration order
func (r *Registry) Register(mesh *Mesh) (MeshID, error) {
	if mesh == nil {
		return MeshID{}, ErrNilMesh
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return MeshID{}, ErrRegistrySealed
	}
	if _, ok := r.meshes[mesh.ID()]; ok {
		return MeshID{}, errors.Wrapf(ErrDuplicateMesh, "mesh %s", mesh.ID())
	}

	r.meshes[mesh.ID()] = mesh
	r.order = append(r.order, mesh.ID())
	return mesh.ID(), nil
}

// Seal rejects further registration; called once scene setup completes
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether setup has finished
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup retrieves a mesh by identifier
func (r *Registry) Lookup(id MeshID) (*Mesh, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meshes[id]
	return m, ok
}

// First returns the earliest registered mesh
func (r *Registry) First() (*Mesh, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil, false
	}
	return r.meshes[r.order[0]], true
}

// Meshes returns registered meshes in registration order
func (r *Registry) Meshes() []*Mesh {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Mesh, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.meshes[id])
	}
	return out
}

// Len returns number of registered meshes
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
