package request

import (
	"bytes"
	"encoding/json"
	"regexp"
)

var segmentSeparator = regexp.MustCompile(`[.]+`)

// Tree is the nested body structure assembled from dotted body keys. Each key
// maps to either a leaf Value or a subtree.
type Tree struct {
	keys  []string
	nodes map[string]treeNode
}

type treeNode struct {
	leaf Value
	sub  *Tree
}

// NewTree returns an empty Tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[string]treeNode)}
}

// SetLeaf stores value under key, replacing whatever was there.
func (t *Tree) SetLeaf(key string, value Value) {
	t.put(key, treeNode{leaf: value})
}

// Reset replaces key with a fresh empty subtree and returns it.
func (t *Tree) Reset(key string) *Tree {
	sub := NewTree()
	t.put(key, treeNode{sub: sub})
	return sub
}

// Descend returns the subtree stored under key, creating an empty one when the
// key is absent or holds a leaf.
func (t *Tree) Descend(key string) *Tree {
	if node, ok := t.nodes[key]; ok && node.sub != nil {
		return node.sub
	}
	return t.Reset(key)
}

// Leaf returns the leaf stored under key.
func (t *Tree) Leaf(key string) (Value, bool) {
	node, ok := t.nodes[key]
	if !ok || node.sub != nil {
		return None(), false
	}
	return node.leaf, true
}

// Subtree returns the subtree stored under key.
func (t *Tree) Subtree(key string) (*Tree, bool) {
	node, ok := t.nodes[key]
	if !ok || node.sub == nil {
		return nil, false
	}
	return node.sub, true
}

// Keys returns the keys in serialization order.
func (t *Tree) Keys() []string {
	return hostOrder(t.keys)
}

// Len reports the number of direct children.
func (t *Tree) Len() int {
	return len(t.keys)
}

func (t *Tree) put(key string, node treeNode) {
	if t.nodes == nil {
		t.nodes = make(map[string]treeNode)
	}
	if _, exists := t.nodes[key]; !exists {
		t.keys = append(t.keys, key)
	}
	t.nodes[key] = node
}

// MarshalJSON encodes the tree as a JSON object. Leaves are strings (null when
// the value is null); keys follow host property order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return t.Bytes(), nil
}

// Bytes returns the JSON encoding of the tree.
func (t *Tree) Bytes() []byte {
	var buf bytes.Buffer
	t.encode(&buf)
	return buf.Bytes()
}

func (t *Tree) encode(buf *bytes.Buffer) {
	buf.WriteByte('{')
	for i, key := range t.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodeString(buf, key)
		buf.WriteByte(':')
		node := t.nodes[key]
		switch {
		case node.sub != nil:
			node.sub.encode(buf)
		case node.leaf.IsNone():
			buf.WriteString("null")
		default:
			encodeString(buf, node.leaf.String())
		}
	}
	buf.WriteByte('}')
}

// encodeString writes s as a JSON string without HTML escaping.
func encodeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}

// SplitKey splits a dotted body key on runs of '.'.
func SplitKey(key string) []string {
	return segmentSeparator.Split(key, -1)
}

// assembleBody builds the body tree from body bindings in encounter order.
// Intermediate segments are reset to a fresh subtree unless merge is set, so
// by default the last binding touching a path wins.
func assembleBody(fields []Pair, merge bool) *Tree {
	if len(fields) == 0 {
		return nil
	}
	root := NewTree()
	for _, field := range fields {
		names := SplitKey(field.Key)
		target := root
		for i, name := range names {
			if i == len(names)-1 {
				target.SetLeaf(name, field.Value)
				break
			}
			if merge {
				target = target.Descend(name)
			} else {
				target = target.Reset(name)
			}
		}
	}
	return root
}
