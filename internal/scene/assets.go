package scene

import "sync"

// Assets stores meshes and materials behind opaque handles.
type Assets struct {
	mu        sync.RWMutex
	meshes    map[MeshHandle]*Mesh
	materials map[MaterialHandle]Material
	nextMesh  MeshHandle
	nextMat   MaterialHandle
}

// NewAssets creates empty registries.
func NewAssets() *Assets {
	return &Assets{
		meshes:    make(map[MeshHandle]*Mesh),
		materials: make(map[MaterialHandle]Material),
	}
}

// AddMesh registers m and returns its handle.
func (a *Assets) AddMesh(m *Mesh) MeshHandle {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextMesh++
	a.meshes[a.nextMesh] = m
	return a.nextMesh
}

// Mesh looks up a mesh.
func (a *Assets) Mesh(h MeshHandle) (*Mesh, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.meshes[h]
	return m, ok
}

// RemoveMesh forgets a mesh. Unknown handles are ignored.
func (a *Assets) RemoveMesh(h MeshHandle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.meshes, h)
}

// AddMaterial registers mat and returns its handle.
func (a *Assets) AddMaterial(mat Material) MaterialHandle {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextMat++
	a.materials[a.nextMat] = mat
	return a.nextMat
}

// Material looks up a material.
func (a *Assets) Material(h MaterialHandle) (Material, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.materials[h]
	return m, ok
}

// RemoveMaterial forgets a material.
func (a *Assets) RemoveMaterial(h MaterialHandle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.materials, h)
}

// MeshCount returns the number of registered meshes.
func (a *Assets) MeshCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.meshes)
}

// MaterialCount returns the number of registered materials.
func (a *Assets) MaterialCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.materials)
}
