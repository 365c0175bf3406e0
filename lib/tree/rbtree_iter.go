package tree

import (
	"iter"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/benz9527/rbmap/lib/infra"
)

// RBIterator is a cursor over the tree in key order. A nil node is the end
// cursor (one past the last element).
// The iterator does not own anything. Inserting into the tree while an
// iterator is alive invalidates it, and the next access reports
// ErrIteratorInvalidated.
type RBIterator[K infra.OrderedKey, V any] struct {
	tree *rbTree[K, V]
	node *rbNode[K, V]
	gen  uint64
}

func (tree *rbTree[K, V]) iteratorAt(node *rbNode[K, V]) RBIterator[K, V] {
	return RBIterator[K, V]{
		tree: tree,
		node: node,
		gen:  tree.gen,
	}
}

func (it RBIterator[K, V]) IsEnd() bool {
	return it.node == nil
}

// Equal compares the positions. Two end cursors of the same tree are equal.
func (it RBIterator[K, V]) Equal(other RBIterator[K, V]) bool {
	return it.tree == other.tree && it.node == other.node
}

func (it RBIterator[K, V]) check() error {
	if it.tree == nil {
		return errors.Wrap(ErrEmptyTree, "[rbtree] iterator is not bound to a tree")
	}
	if it.gen != it.tree.gen {
		return ErrIteratorInvalidated
	}
	return nil
}

func (it RBIterator[K, V]) deref() (*rbNode[K, V], error) {
	if err := it.check(); err != nil {
		return nil, err
	}
	if it.node == nil {
		return nil, errors.Wrap(ErrEmptyTree, "[rbtree] dereference end iterator")
	}
	return it.node, nil
}

func (it RBIterator[K, V]) Key() (K, error) {
	node, err := it.deref()
	if err != nil {
		var k K
		return k, err
	}
	return node.key, nil
}

func (it RBIterator[K, V]) Val() (V, error) {
	node, err := it.deref()
	if err != nil {
		var v V
		return v, err
	}
	return node.val, nil
}

func (it RBIterator[K, V]) Entry() (lo.Entry[K, V], error) {
	node, err := it.deref()
	if err != nil {
		return lo.Entry[K, V]{}, err
	}
	return lo.Entry[K, V]{Key: node.key, Value: node.val}, nil
}

// Next moves to the successor. Advancing the end cursor restarts from the
// first element, which fails on an empty tree.
func (it *RBIterator[K, V]) Next() error {
	if err := it.check(); err != nil {
		return err
	}
	if it.node == nil {
		if it.tree.root == nil {
			return errors.Wrap(ErrEmptyTree, "[rbtree] advance end iterator")
		}
		it.node = it.tree.root.minimum()
		return nil
	}
	it.node = it.node.succ()
	return nil
}

// All returns an iterator over the tree from the first to the last key.
// Stops early if the tree is mutated during the iteration.
func (tree *rbTree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for it := tree.Begin(); !it.IsEnd(); {
			node, err := it.deref()
			if err != nil || !yield(node.key, node.val) {
				return
			}
			if err = it.Next(); err != nil {
				return
			}
		}
	}
}
