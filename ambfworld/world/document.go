package world

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"
)

// DuplicatePolicy decides what happens when a mapping defines the same key
// more than once. YAML leaves this undefined and AMBF descriptors do it in
// practice, so the loader makes it a choice.
type DuplicatePolicy int

const (
	// LastWins keeps the last definition of a key.
	LastWins DuplicatePolicy = iota
	// FirstWins keeps the first definition of a key.
	FirstWins
	// RejectDuplicates fails the load with a ParseError.
	RejectDuplicates
)

// ParseDuplicatePolicy parses "last", "first" or "reject".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last":
		return LastWins, nil
	case "first":
		return FirstWins, nil
	case "reject":
		return RejectDuplicates, nil
	default:
		return LastWins, fmt.Errorf("unrecognized duplicate key policy: %q", s)
	}
}

// String ...
func (p DuplicatePolicy) String() string {
	switch p {
	case LastWins:
		return "last"
	case FirstWins:
		return "first"
	case RejectDuplicates:
		return "reject"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// parseDocument parses src and returns its root mapping.
func parseDocument(src []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ParseError{Msg: "empty document"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Line: root.Line, Msg: "document root must be a mapping"}
	}
	return root, nil
}

// dedupe applies the duplicate key policy to every mapping under n, rewriting
// the node tree in place.
func dedupe(log *slog.Logger, n *yaml.Node, policy DuplicatePolicy) error {
	switch n.Kind {
	case yaml.SequenceNode, yaml.DocumentNode:
		for _, c := range n.Content {
			if err := dedupe(log, c, policy); err != nil {
				return err
			}
		}
		return nil
	case yaml.MappingNode:
	default:
		return nil
	}

	seen := make(map[string]int, len(n.Content)/2)
	kept := make([]*yaml.Node, 0, len(n.Content))
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if err := dedupe(log, value, policy); err != nil {
			return err
		}
		// Merge keys may legitimately repeat.
		if key.Kind != yaml.ScalarNode || key.Value == "<<" {
			kept = append(kept, key, value)
			continue
		}

		at, dup := seen[key.Value]
		if !dup {
			seen[key.Value] = len(kept)
			kept = append(kept, key, value)
			continue
		}

		first := kept[at]
		switch policy {
		case RejectDuplicates:
			return &ParseError{
				Line: key.Line,
				Msg:  fmt.Sprintf("key %q already defined at line %d", key.Value, first.Line),
			}
		case FirstWins:
			log.Warn("ignoring redefined key", "key", key.Value, "line", key.Line, "kept-line", first.Line)
		default:
			log.Warn("key redefined, keeping last definition", "key", key.Value, "line", key.Line, "dropped-line", first.Line)
			kept[at], kept[at+1] = key, value
		}
	}
	n.Content = kept
	return nil
}

// index maps the keys of a mapping node to their value nodes. Aliases are
// followed and keys pulled in through "<<" merge keys are included, with
// explicit keys taking precedence over merged ones.
func index(n *yaml.Node) map[string]*yaml.Node {
	m := make(map[string]*yaml.Node)
	collect(m, resolve(n), 0)
	return m
}

// maxMergeDepth bounds how deep merge keys are followed.
const maxMergeDepth = 32

// collect adds the keys of the mapping n that are not in m yet.
func collect(m map[string]*yaml.Node, n *yaml.Node, depth int) {
	if n.Kind != yaml.MappingNode || depth > maxMergeDepth {
		return
	}
	var merged []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			continue
		}
		if k.Value == "<<" {
			merged = append(merged, resolve(v))
			continue
		}
		if _, ok := m[k.Value]; !ok {
			m[k.Value] = v
		}
	}
	// Earlier merge sources win over later ones.
	for _, v := range merged {
		if v.Kind == yaml.SequenceNode {
			for _, c := range v.Content {
				collect(m, resolve(c), depth+1)
			}
			continue
		}
		collect(m, v, depth+1)
	}
}

// resolve follows n to the node it aliases.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// require checks that the mapping n defines every key in keys. Missing keys are
// reported as prefix.key.
func require(n *yaml.Node, prefix string, keys ...string) error {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return &ParseError{Line: n.Line, Msg: fmt.Sprintf("%s: expected a mapping", prefix)}
	}
	idx := index(n)
	for _, k := range keys {
		if v, ok := idx[k]; !ok || isNull(v) {
			return &MissingFieldError{Field: joinField(prefix, k)}
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	n = resolve(n)
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func joinField(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
