package world

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const bodyPrefix = "BODY "

// ParentRef is an unresolved reference to the body an entity is attached to.
// Resolving it to an actual body is up to whoever builds the scene graph, since
// the body may live in another document.
type ParentRef struct {
	// Path holds the namespace segments of an absolute reference. It is empty
	// for a local reference to a sibling body.
	Path []string
	Body string
}

// ParseParentRef parses either the local form "BODY <name>" or the absolute
// form "/<ns>/.../BODY <name>".
func ParseParentRef(raw string) (ParentRef, error) {
	malformed := &MalformedReferenceError{Raw: raw}

	if body, ok := strings.CutPrefix(raw, bodyPrefix); ok {
		body = strings.TrimSpace(body)
		if body == "" {
			return ParentRef{}, malformed
		}
		return ParentRef{Body: body}, nil
	}

	if !strings.HasPrefix(raw, "/") {
		return ParentRef{}, malformed
	}
	i := strings.LastIndex(raw, "/"+bodyPrefix)
	if i <= 0 {
		// "/BODY x" has no namespace segment.
		return ParentRef{}, malformed
	}
	body := strings.TrimSpace(raw[i+len(bodyPrefix)+1:])
	if body == "" {
		return ParentRef{}, malformed
	}
	path := strings.Split(raw[1:i], "/")
	for _, seg := range path {
		// A segment naming a body would make the reference ambiguous.
		if seg == "" || strings.HasPrefix(seg, bodyPrefix) {
			return ParentRef{}, malformed
		}
	}
	return ParentRef{Path: path, Body: body}, nil
}

// IsAbsolute reports whether the reference carries a namespace path.
func (p ParentRef) IsAbsolute() bool {
	return len(p.Path) > 0
}

// Namespace returns the namespace of an absolute reference, "/ambf/env/ecm/"
// for example, or "" for a local one.
func (p ParentRef) Namespace() string {
	if !p.IsAbsolute() {
		return ""
	}
	return "/" + strings.Join(p.Path, "/") + "/"
}

// String returns the reference in descriptor form.
func (p ParentRef) String() string {
	return p.Namespace() + bodyPrefix + p.Body
}

// MarshalText ...
func (p ParentRef) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// MarshalYAML ...
func (p ParentRef) MarshalYAML() (any, error) {
	return p.String(), nil
}

// UnmarshalYAML ...
func (p *ParentRef) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	ref, err := ParseParentRef(raw)
	if err != nil {
		return err
	}
	*p = ref
	return nil
}
