package tree

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/multierr"

	"github.com/benz9527/rbmap/lib/infra"
)

func isBlack[K infra.OrderedKey, V any](node RBNode[K, V]) bool {
	return isNilLeaf[K, V](node) || node.Color() == Black
}

func isRed[K infra.OrderedKey, V any](node RBNode[K, V]) bool {
	return !isNilLeaf[K, V](node) && node.Color() == Red
}

func isNilLeaf[K infra.OrderedKey, V any](node RBNode[K, V]) bool {
	return node == nil
}

func blackDepthTo[K infra.OrderedKey, V any](target, to RBNode[K, V]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.Parent() {
		if isBlack[K, V](aux) {
			depth++
		}
	}
	return depth
}

// rbtree rule validation utilities.

// inorder visits every node in key order, stops at the first error.
func inorder[K infra.OrderedKey, V any](tree RBTree[K, V], fn func(node RBNode[K, V]) error) error {
	size := tree.Len()
	var aux RBNode[K, V] = tree.Root()
	if size < 0 || aux == nil {
		return nil
	}

	stack := make([]RBNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; !isNilLeaf[K, V](aux); aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		aux = stack[size-1]
		if err := fn(aux); err != nil {
			return err
		}
		stack = stack[:size-1]
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

// RedViolationValidate checks the root is black and no red node has a red
// child.
func RedViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	if isRed[K, V](tree.Root()) {
		return errors.Newf("rbtree red violation: red root %v", tree.Root().Key())
	}
	return inorder[K, V](tree, func(node RBNode[K, V]) error {
		if isRed[K, V](node) && (isRed[K, V](node.Left()) || isRed[K, V](node.Right())) {
			return errors.Newf("rbtree red violation: red node %v has a red child", node.Key())
		}
		return nil
	})
}

// BFS traversal to load all nodes owning at least one nil child slot.
func bfsLeaves[K infra.OrderedKey, V any](tree RBTree[K, V]) []RBNode[K, V] {
	size := tree.Len()
	var aux RBNode[K, V] = tree.Root()
	if size < 0 || isNilLeaf[K, V](aux) {
		return nil
	}

	leaves := make([]RBNode[K, V], 0, size>>1+1)
	queue := make([]RBNode[K, V], 0, size>>1+1)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, aux)

	for len(queue) > 0 {
		aux = queue[0]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ isNilLeaf[K, V](l) || isNilLeaf[K, V](r) {
			leaves = append(leaves, aux)
		}
		if !isNilLeaf[K, V](l) {
			queue = append(queue, l)
		}
		if !isNilLeaf[K, V](r) {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            <16>

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	leaves := bfsLeaves[K, V](tree)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo[K, V](leaves[0], nil)
	for i := 1; i < len(leaves); i++ {
		if depth := blackDepthTo[K, V](leaves[i], nil); depth != blackDepth {
			return errors.Newf("rbtree black violation: node %v black depth %d, expected %d",
				leaves[i].Key(), depth, blackDepth)
		}
	}
	return nil
}

// OrderViolationValidate checks the in-order keys are strictly monotone
// and no two nodes share a key.
func OrderViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	desc := false
	if t, ok := tree.(*rbTree[K, V]); ok {
		desc = t.isDesc
	}
	var prev RBNode[K, V]
	return inorder[K, V](tree, func(node RBNode[K, V]) error {
		defer func() { prev = node }()
		if prev == nil {
			return nil
		}
		if (!desc && prev.Key() >= node.Key()) || (desc && prev.Key() <= node.Key()) {
			return errors.Newf("rbtree order violation: %v followed by %v", prev.Key(), node.Key())
		}
		return nil
	})
}

// LinkViolationValidate checks every child points back to its parent.
func LinkViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	if root := tree.Root(); root != nil && root.Parent() != nil {
		return errors.Newf("rbtree link violation: root %v has a parent", root.Key())
	}
	return inorder[K, V](tree, func(node RBNode[K, V]) error {
		if l := node.Left(); l != nil && l.Parent() != node {
			return errors.Newf("rbtree link violation: left child %v of %v", l.Key(), node.Key())
		}
		if r := node.Right(); r != nil && r.Parent() != node {
			return errors.Newf("rbtree link violation: right child %v of %v", r.Key(), node.Key())
		}
		return nil
	})
}

// SizeViolationValidate checks Len() equals the number of reachable nodes.
func SizeViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	count := int64(0)
	_ = inorder[K, V](tree, func(RBNode[K, V]) error {
		count++
		return nil
	})
	if count != tree.Len() {
		return errors.Newf("rbtree size violation: len %d, reachable %d", tree.Len(), count)
	}
	return nil
}

// Validate combines all rbtree rule violations.
func Validate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	return multierr.Combine(
		RedViolationValidate[K, V](tree),
		BlackViolationValidate[K, V](tree),
		OrderViolationValidate[K, V](tree),
		LinkViolationValidate[K, V](tree),
		SizeViolationValidate[K, V](tree),
	)
}
