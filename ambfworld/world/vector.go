package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Vector is a 3D vector written as {x: .., y: .., z: ..}. A missing component
// is zero.
type Vector struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// NewVector ...
func NewVector(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}

// Vec3 ...
func (v Vector) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// UnmarshalYAML accepts the mapping form and, for hand-written files, the
// shorter sequence form [x, y, z].
func (v *Vector) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var xs []float64
		if err := node.Decode(&xs); err != nil {
			return err
		}
		if len(xs) != 3 {
			return fmt.Errorf("line %d: vector needs 3 components, got %d", node.Line, len(xs))
		}
		*v = Vector{X: xs[0], Y: xs[1], Z: xs[2]}
		return nil
	case yaml.MappingNode:
		type plain Vector
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*v = Vector(p)
		return nil
	default:
		return fmt.Errorf("line %d: expected a vector mapping {x, y, z}", node.Line)
	}
}
