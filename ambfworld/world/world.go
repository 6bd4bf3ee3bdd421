// Package world loads AMBF world descriptors: the enclosure, lights and cameras
// of a simulated scene. Loading is a pure function of the descriptor text;
// includes and parent bodies are returned unresolved.
package world

import "strings"

// World is a loaded world descriptor. It is never mutated after Load returns.
type World struct {
	Enclosure     Enclosure     `yaml:"enclosure size,flow" json:"enclosure"`
	LightNames    []string      `yaml:"lights,flow" json:"light_names"`
	CameraNames   []string      `yaml:"cameras,flow" json:"camera_names"`
	Environment   string        `yaml:"environment,omitempty" json:"environment,omitempty"`
	Namespace     string        `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	MaxIterations int           `yaml:"max iterations" json:"max_iterations" validate:"gt=0"`
	Gravity       Vector        `yaml:"gravity,flow" json:"gravity"`
	Shaders       *ShaderConfig `yaml:"shaders,omitempty" json:"shaders,omitempty"`

	// Lights and Cameras follow the order of LightNames and CameraNames.
	Lights  []Light  `yaml:"-" json:"lights" validate:"-"`
	Cameras []Camera `yaml:"-" json:"cameras" validate:"-"`
}

// worldKeys are the top-level keys every descriptor must carry.
var worldKeys = []string{"enclosure size", "lights", "cameras", "max iterations", "gravity"}

// Enclosure is the bounding volume of the world, in metres.
type Enclosure struct {
	Length float64 `yaml:"length" json:"length" validate:"gt=0"`
	Width  float64 `yaml:"width" json:"width" validate:"gt=0"`
	Height float64 `yaml:"height" json:"height" validate:"gt=0"`
}

var enclosureKeys = []string{"length", "width", "height"}

// ShaderConfig points at the shader sources used for the world. The files are
// not read here.
type ShaderConfig struct {
	Path     string `yaml:"path" json:"path"`
	Vertex   string `yaml:"vertex" json:"vertex"`
	Fragment string `yaml:"fragment" json:"fragment"`
}

// Light returns the light defined under key.
func (w *World) Light(key string) (Light, bool) {
	for _, l := range w.Lights {
		if l.Key == key {
			return l, true
		}
	}
	return Light{}, false
}

// Camera returns the camera defined under key.
func (w *World) Camera(key string) (Camera, bool) {
	for _, c := range w.Cameras {
		if c.Key == key {
			return c, true
		}
	}
	return Camera{}, false
}

// LightAddress ...
func (w *World) LightAddress(l Light) string {
	return Address(w.Namespace, l.Namespace, l.Name)
}

// CameraAddress ...
func (w *World) CameraAddress(c Camera) string {
	return Address(w.Namespace, c.Namespace, c.Name)
}

// Address composes the external address of an entity. An absolute entity
// namespace stands on its own; a relative or empty one is scoped by the world
// namespace.
func Address(worldNamespace, entityNamespace, name string) string {
	ns := entityNamespace
	if !strings.HasPrefix(ns, "/") {
		ns = joinNamespace(worldNamespace, ns)
	}
	return joinNamespace(ns, name)
}

func joinNamespace(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return strings.TrimSuffix(a, "/") + "/" + strings.TrimPrefix(b, "/")
}
