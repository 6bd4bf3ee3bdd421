package world

import (
	"errors"
	"log/slog"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Options controls how strictly a Loader treats a descriptor.
type Options struct {
	// Duplicates decides which definition of a redefined key is used.
	Duplicates DuplicatePolicy
	// Advisory makes invalid numeric values warnings instead of errors.
	Advisory bool
}

// Loader loads world descriptors. A Loader holds no per-load state and may be
// shared between goroutines.
type Loader struct {
	log  *slog.Logger
	opts Options
}

// NewLoader ...
func NewLoader(log *slog.Logger, opts Options) *Loader {
	return &Loader{
		log:  log,
		opts: opts,
	}
}

// Options ...
func (l *Loader) Options() Options {
	return l.opts
}

// Load loads a descriptor with the default options: last definition wins and
// invalid values fail the load.
func Load(src []byte) (*World, error) {
	w, _, err := NewLoader(slog.Default(), Options{}).Load(src)
	return w, err
}

// Load parses and validates src. In advisory mode, values that break their
// constraints are returned as warnings alongside the world; otherwise they are
// returned joined as the error.
func (l *Loader) Load(src []byte) (*World, Warnings, error) {
	root, err := parseDocument(src)
	if err != nil {
		return nil, nil, err
	}
	if err = dedupe(l.log, root, l.opts.Duplicates); err != nil {
		return nil, nil, err
	}
	if err = require(root, "", worldKeys...); err != nil {
		return nil, nil, err
	}
	idx := index(root)
	if err = require(idx["enclosure size"], "enclosure size", enclosureKeys...); err != nil {
		return nil, nil, err
	}

	w := &World{}
	if err = root.Decode(w); err != nil {
		return nil, nil, decodeError("", err)
	}

	w.LightNames = l.uniqueNames("lights", w.LightNames)
	w.Lights = make([]Light, 0, len(w.LightNames))
	for _, key := range w.LightNames {
		lt, err := l.light(idx, key)
		if err != nil {
			return nil, nil, err
		}
		w.Lights = append(w.Lights, lt)
	}

	w.CameraNames = l.uniqueNames("cameras", w.CameraNames)
	w.Cameras = make([]Camera, 0, len(w.CameraNames))
	for _, key := range w.CameraNames {
		c, err := l.camera(idx, key)
		if err != nil {
			return nil, nil, err
		}
		w.Cameras = append(w.Cameras, c)
	}

	warnings, err := l.validate(w)
	if err != nil {
		return nil, nil, err
	}
	return w, warnings, nil
}

// light decodes the light defined under key.
func (l *Loader) light(idx map[string]*yaml.Node, key string) (Light, error) {
	n, ok := idx[key]
	if !ok {
		return Light{}, &DanglingReferenceError{Kind: "light", Name: key}
	}
	if err := require(n, key, lightKeys...); err != nil {
		return Light{}, err
	}
	var lt Light
	if err := n.Decode(&lt); err != nil {
		return Light{}, decodeError(key, err)
	}
	lt.Key = key
	if lt.Name == "" {
		lt.Name = key
	}
	return lt, nil
}

// camera decodes the camera defined under key.
func (l *Loader) camera(idx map[string]*yaml.Node, key string) (Camera, error) {
	n, ok := idx[key]
	if !ok {
		return Camera{}, &DanglingReferenceError{Kind: "camera", Name: key}
	}
	if err := require(n, key, cameraKeys...); err != nil {
		return Camera{}, err
	}
	fields := index(n)
	if err := require(fields["clipping plane"], key+".clipping plane", "near", "far"); err != nil {
		return Camera{}, err
	}
	if v, ok := fields["orthographic view width"]; !ok || isNull(v) {
		if err := require(n, key, "field view angle"); err != nil {
			return Camera{}, err
		}
	}

	var c Camera
	if err := n.Decode(&c); err != nil {
		return Camera{}, decodeError(key, err)
	}
	c.Key = key
	if c.Name == "" {
		c.Name = key
	}
	return c, nil
}

// uniqueNames collapses repeated entity names to their first occurrence.
func (l *Loader) uniqueNames(list string, names []string) []string {
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		l.log.Warn("entity listed more than once", "list", list, "names", dups)
		return lo.Uniq(names)
	}
	return names
}

// validate checks the world and its entities against their constraints.
func (l *Loader) validate(w *World) (Warnings, error) {
	var warnings Warnings
	add := func(prefix string, v any) error {
		found, err := check(prefix, v)
		if err != nil {
			return err
		}
		warnings = append(warnings, found...)
		return nil
	}

	if err := add("", *w); err != nil {
		return nil, err
	}
	for _, lt := range w.Lights {
		if err := add(lt.Key, lt); err != nil {
			return nil, err
		}
	}
	for _, c := range w.Cameras {
		if err := add(c.Key, c); err != nil {
			return nil, err
		}
	}

	if len(warnings) == 0 {
		return nil, nil
	}
	if !l.opts.Advisory {
		return nil, warnings.Err()
	}
	for _, v := range warnings {
		l.log.Warn("invalid world value", "field", v.Field, "value", v.Value, "constraint", v.Constraint)
	}
	return warnings, nil
}

// decodeError attaches the entity key to errors returned while decoding it.
func decodeError(key string, err error) error {
	var (
		malformed *MalformedReferenceError
		invalid   *InvalidValueError
	)
	switch {
	case errors.As(err, &malformed):
		return &MalformedReferenceError{Field: joinField(key, "parent"), Raw: malformed.Raw}
	case errors.As(err, &invalid):
		return &InvalidValueError{Field: joinField(key, invalid.Field), Value: invalid.Value, Constraint: invalid.Constraint}
	default:
		return &ParseError{Msg: key, Err: err}
	}
}
