package world

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// StereoMode is the stereo rendering mode of a camera.
type StereoMode int

const (
	StereoDisabled StereoMode = iota
	StereoActive
	StereoPassive
	StereoPassiveLeftRight
	StereoPassiveTopBottom
)

var stereoModeNames = map[StereoMode]string{
	StereoDisabled:         "Disabled",
	StereoActive:           "Active",
	StereoPassive:          "Passive",
	StereoPassiveLeftRight: "Passive Left Right",
	StereoPassiveTopBottom: "Passive Top Bottom",
}

// ParseStereoMode matches s against the mode names case-insensitively.
func ParseStereoMode(s string) (StereoMode, error) {
	// A Caser holds state and must not be shared between loads.
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(s))
	for m, name := range stereoModeNames {
		if fold.String(name) == want {
			return m, nil
		}
	}
	return StereoDisabled, &InvalidValueError{
		Field:      "stereo.mode",
		Value:      s,
		Constraint: "one of Disabled, Active, Passive, Passive Left Right, Passive Top Bottom",
	}
}

// String ...
func (m StereoMode) String() string {
	if name, ok := stereoModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("StereoMode(%d)", int(m))
}

// MarshalText ...
func (m StereoMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// MarshalYAML ...
func (m StereoMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// UnmarshalYAML ...
func (m *StereoMode) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	mode, err := ParseStereoMode(raw)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
