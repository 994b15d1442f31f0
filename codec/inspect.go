package codec

import (
	"fmt"

	"github.com/arloliu/metapack/format"
	"github.com/arloliu/metapack/section"
)

// Node is one entry of an inspected container tree.
type Node struct {
	Name     string     `json:"name"               yaml:"name"`
	Tag      format.Tag `json:"tag"                yaml:"tag"`
	Start    int        `json:"start"              yaml:"start"`
	Size     int        `json:"size"               yaml:"size"`
	Value    any        `json:"value,omitempty"    yaml:"value,omitempty"`
	Children []*Node    `json:"children,omitempty" yaml:"children,omitempty"`
	Error    string     `json:"error,omitempty"    yaml:"error,omitempty"`
}

// Inspect parses a buffer into a tree of metadata entries for diagnostics.
//
// The magic number is optional, so bare container buffers can be inspected
// too. Problems below the root container are recorded in Node.Error instead
// of aborting the walk; only an unreadable root container fails.
func Inspect(data []byte, opts ...Option) (*Node, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	body := data
	start := 0
	if section.HasMagic(data) {
		body = data[section.MagicSize:]
		start = section.MagicSize
	}

	root, err := newDecoder(cfg, 0, body)
	if err != nil {
		return nil, err
	}

	node := &Node{Tag: format.TagObject, Start: start, Size: len(body)}
	root.inspectChildren(node)

	return node, nil
}

func (d *Decoder) inspectChildren(parent *Node) {
	entries := d.index.Entries()
	parent.Children = make([]*Node, 0, len(entries))

	for _, e := range entries {
		n := &Node{Name: e.Name, Tag: e.Type, Start: e.Start, Size: e.Size}
		parent.Children = append(parent.Children, n)

		raw, ok := e.Slice(d.data)
		if !ok {
			n.Error = fmt.Sprintf("segment [%d, %d) outside %d data bytes", e.Start, e.End(), len(d.data))
			continue
		}

		if !e.Type.IsComposite() {
			v, err := d.decodeDynamic(e.Type, raw)
			if err != nil {
				n.Error = err.Error()
				continue
			}
			n.Value = v

			continue
		}

		c, err := d.child(raw)
		if err != nil {
			n.Error = err.Error()
			continue
		}
		c.inspectChildren(n)
	}
}
