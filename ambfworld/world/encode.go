package world

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Marshal writes w back out as a descriptor: the top-level keys first, then
// one block per light and camera key. Loading the output yields an equivalent
// World.
func Marshal(w *World) ([]byte, error) {
	root := &yaml.Node{}
	if err := root.Encode(w); err != nil {
		return nil, fmt.Errorf("encode world: %w", err)
	}

	written := make(map[string]struct{}, len(w.Lights)+len(w.Cameras))
	appendEntity := func(key string, v any) error {
		if _, ok := written[key]; ok {
			return nil
		}
		written[key] = struct{}{}

		value := &yaml.Node{}
		if err := value.Encode(v); err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			value,
		)
		return nil
	}
	for _, l := range w.Lights {
		if err := appendEntity(l.Key, l); err != nil {
			return nil, err
		}
	}
	for _, c := range w.Cameras {
		if err := appendEntity(c.Key, c); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("write world: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("write world: %w", err)
	}
	return buf.Bytes(), nil
}
