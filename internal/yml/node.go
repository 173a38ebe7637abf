package yml

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type (
	Node yaml.Node
)

// Parse parses a YAML (or JSON) document and returns its root node.
func Parse(data []byte) (*Node, error) {
	doc := &yaml.Node{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return (*Node)(NewMap()), nil
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return (*Node)(NewMap()), nil
		}
		return (*Node)(doc.Content[0]), nil
	}
	return (*Node)(doc), nil
}

// Lookup returns the value node of a mapping key or nil.
func (n *Node) Lookup(name string) *Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == name {
			return (*Node)(n.Content[i+1])
		}
	}
	return nil
}

// Pairs iterates mapping key/value pairs.
func (n *Node) Pairs(callback func(key string, node *Node) error) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("not a map node")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := callback(n.Content[i].Value, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// Decode decodes the node into target.
func (n *Node) Decode(target interface{}) error {
	return (*yaml.Node)(n).Decode(target)
}

// DecodeSection decodes the value under key when present, otherwise the whole node.
func (n *Node) DecodeSection(key string, target interface{}) error {
	if section := n.Lookup(key); section != nil {
		return section.Decode(target)
	}
	return n.Decode(target)
}

func NewMap() *yaml.Node {
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}
}
