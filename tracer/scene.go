// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tracer

// EntityID is a stable identifier for a scene entity. The editing side
// assigns ids; lux and the renderer only ever key by them.
type EntityID uint64

// Mesh is the geometry payload pushed to the renderer.
// Shader graph construction is out of scope here; meshes reference shaders
// by id only.
type Mesh struct {
	// Vertices is a flat xyz array, len = 3*vertexCount.
	Vertices []float32

	// Normals is a flat xyz array matching Vertices, or nil for flat shading.
	Normals []float32

	// UVs is a flat uv array, len = 2*vertexCount, or nil.
	UVs []float32

	// Faces is a flat triangle index array, len = 3*triangleCount.
	Faces []uint32

	// Shader is the id of the shader applied to this mesh.
	Shader EntityID
}

// LightKind enumerates the supported light source types.
type LightKind uint8

const (
	LightPoint LightKind = iota
	LightDirectional
	LightSpot
	LightArea
)

// Light is the light payload pushed to the renderer.
type Light struct {
	Kind      LightKind
	Position  [3]float32
	Direction [3]float32
	Color     [3]float32
	Intensity float32

	// Size is the emitter size for area lights, the cone angle in radians
	// for spot lights, and unused otherwise.
	Size float32
}

// Shader is an opaque shader/material payload. Graph semantics belong to the
// renderer; lux only transports and keys the blob.
type Shader struct {
	Name  string
	Graph []byte
}

// Camera is the view payload pushed to the renderer.
type Camera struct {
	// Transform is a column-major 4x4 camera-to-world matrix.
	Transform [16]float32

	// FOV is the vertical field of view in radians.
	FOV float32

	NearClip float32
	FarClip  float32
}

// Environment is the world background/environment payload.
type Environment struct {
	Color    [3]float32
	Strength float32
}

// View couples a camera with the viewport it renders into. Pass-complete
// notifications carry the view that just finished.
type View struct {
	ID     EntityID
	Camera Camera
	Width  int
	Height int
}

// SceneWriter is the renderer-side scene mirror. Every entity must be
// idempotently upsertable: re-pushing an unchanged id is a no-op from the
// renderer's perspective.
//
// SceneWriter methods are only called from the engine's upload critical
// section, never concurrently.
type SceneWriter interface {
	UpsertMesh(id EntityID, m Mesh) error
	DeleteMesh(id EntityID) error

	UpsertLight(id EntityID, l Light) error
	DeleteLight(id EntityID) error

	UpsertShader(id EntityID, s Shader) error
	DeleteShader(id EntityID) error

	UpsertCamera(id EntityID, c Camera) error
	DeleteCamera(id EntityID) error

	UpsertEnvironment(id EntityID, e Environment) error
	DeleteEnvironment(id EntityID) error

	// Free releases the renderer-side scene. Idempotent.
	Free()
}
