package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/benz9527/rbmap/lib/infra"
)

const (
	drawBranch     = "├── "
	drawLastBranch = "└── "
	drawPipe       = "│   "
	drawSpace      = "    "
	drawNil        = "nil"
	drawEmpty      = "(empty)"
)

// RBTreeDrawer renders the tree rooted at a node as text, one node per line.
// <X> is a RED node, [X] is a BLACK node. The left child is drawn before the
// right child, a missing child is drawn as nil when its sibling exists.
//
//	[10]
//	├── [5]
//	│   ├── <3>
//	│   └── <7>
//	└── [15]
type RBTreeDrawer[K infra.OrderedKey, V any] struct {
	root       RBNode[K, V]
	withValues bool
}

func NewRBTreeDrawer[K infra.OrderedKey, V any](root RBNode[K, V]) *RBTreeDrawer[K, V] {
	return &RBTreeDrawer[K, V]{root: root}
}

// WithValues appends "=value" to every key.
func (d *RBTreeDrawer[K, V]) WithValues() *RBTreeDrawer[K, V] {
	d.withValues = true
	return d
}

func (d *RBTreeDrawer[K, V]) label(node RBNode[K, V]) string {
	text := fmt.Sprint(node.Key())
	if d.withValues {
		text += "=" + fmt.Sprint(node.Val())
	}
	if node.Color() == Red {
		return "<" + text + ">"
	}
	return "[" + text + "]"
}

func (d *RBTreeDrawer[K, V]) draw(b *strings.Builder, node RBNode[K, V], prefix string) {
	l, r := node.Left(), node.Right()
	if l == nil && r == nil {
		return
	}
	children := [2]RBNode[K, V]{l, r}
	for i, child := range children {
		connector, indent := drawBranch, drawPipe
		if i == len(children)-1 {
			connector, indent = drawLastBranch, drawSpace
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		if child == nil {
			b.WriteString(drawNil)
			b.WriteByte('\n')
			continue
		}
		b.WriteString(d.label(child))
		b.WriteByte('\n')
		d.draw(b, child, prefix+indent)
	}
}

func (d *RBTreeDrawer[K, V]) String() string {
	if d.root == nil {
		return drawEmpty + "\n"
	}
	b := &strings.Builder{}
	b.WriteString(d.label(d.root))
	b.WriteByte('\n')
	d.draw(b, d.root, "")
	return b.String()
}

func (d *RBTreeDrawer[K, V]) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

func DrawRBTree[K infra.OrderedKey, V any](tree RBTree[K, V]) string {
	return NewRBTreeDrawer[K, V](tree.Root()).String()
}
