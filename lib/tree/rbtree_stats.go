package tree

import (
	"github.com/samber/lo"

	"github.com/benz9527/rbmap/lib/infra"
)

// RBTreeStats is a snapshot of the structural analytics.
type RBTreeStats struct {
	Size                   int64
	Height                 int64
	LeafCount              int64
	InternalNodeCount      int64
	Diameter               int64
	MaxWidth               int64
	SuccessfulSearchCost   float64
	UnsuccessfulSearchCost float64
}

// The height of an absent subtree is -1.
func height[K infra.OrderedKey, V any](node *rbNode[K, V]) int64 {
	if node == nil {
		return -1
	}
	return lo.Max([]int64{height(node.left), height(node.right)}) + 1
}

func leafCount[K infra.OrderedKey, V any](node *rbNode[K, V]) int64 {
	if node == nil {
		return 0
	}
	if node.isLeaf() {
		return 1
	}
	return leafCount(node.left) + leafCount(node.right)
}

func internalNodeCount[K infra.OrderedKey, V any](node *rbNode[K, V]) int64 {
	if node == nil || node.isLeaf() {
		return 0
	}
	return internalNodeCount(node.left) + internalNodeCount(node.right) + 1
}

// diameter returns the edge count of the longest path between two nodes of
// the subtree and its height, computed in one pass.
func diameter[K infra.OrderedKey, V any](node *rbNode[K, V]) (diam, h int64) {
	if node == nil {
		return 0, -1
	}
	ld, lh := diameter(node.left)
	rd, rh := diameter(node.right)
	return lo.Max([]int64{lh + rh + 2, ld, rd}), lo.Max([]int64{lh, rh}) + 1
}

// width counts the nodes at the given level below node.
func width[K infra.OrderedKey, V any](node *rbNode[K, V], level int64) int64 {
	if node == nil {
		return 0
	} else if level == 0 {
		return 1
	}
	return width(node.left, level-1) + width(node.right, level-1)
}

// sumLevels sums the depth of every node.
//
//	  5     <- level 0
//	 / \
//	2   8   <- level 1
//	     \
//	     10 <- level 2
//
// has sum 1*0 + 2*1 + 1*2 = 4.
func sumLevels[K infra.OrderedKey, V any](node *rbNode[K, V], level int64) int64 {
	if node == nil {
		return 0
	}
	return level + sumLevels(node.left, level+1) + sumLevels(node.right, level+1)
}

// sumNullLevels sums the depth of every absent child slot.
//
//	   5     <- level 0
//	  / \
//	 2   8   <- level 1
//	/ \ / \
//	* * * 10 <- level 2
//	      / \
//	      * * <- level 3
//
// has sum 3*2 + 2*3 = 12.
func sumNullLevels[K infra.OrderedKey, V any](node *rbNode[K, V], level int64) int64 {
	if node == nil {
		return level
	}
	return sumNullLevels(node.left, level+1) + sumNullLevels(node.right, level+1)
}

// nullCount counts the absent child slots. An absent root is one slot.
func nullCount[K infra.OrderedKey, V any](node *rbNode[K, V]) int64 {
	if node == nil {
		return 1
	}
	return nullCount(node.left) + nullCount(node.right)
}

func (tree *rbTree[K, V]) Height() int64 {
	return height(tree.root)
}

func (tree *rbTree[K, V]) LeafCount() int64 {
	return leafCount(tree.root)
}

func (tree *rbTree[K, V]) InternalNodeCount() int64 {
	return internalNodeCount(tree.root)
}

// Diameter is the length of the longest path between two leaves. The path
// does not have to pass through the root.
func (tree *rbTree[K, V]) Diameter() int64 {
	diam, _ := diameter(tree.root)
	return diam
}

// MaxWidth is the largest number of nodes on any level.
func (tree *rbTree[K, V]) MaxWidth() int64 {
	maxWidth := int64(0)
	for i, h := int64(0), tree.Height(); i <= h; i++ {
		maxWidth = lo.Max([]int64{maxWidth, width(tree.root, i)})
	}
	return maxWidth
}

// SuccessfulSearchCost is the average number of nodes visited to find a
// present key.
func (tree *rbTree[K, V]) SuccessfulSearchCost() float64 {
	if tree.count == 0 {
		return 0
	}
	return 1 + float64(sumLevels(tree.root, 0))/float64(tree.count)
}

// UnsuccessfulSearchCost is the average number of nodes visited to find a
// key that is not present.
func (tree *rbTree[K, V]) UnsuccessfulSearchCost() float64 {
	return float64(sumNullLevels(tree.root, 0)) / float64(nullCount(tree.root))
}

func (tree *rbTree[K, V]) Stats() RBTreeStats {
	return RBTreeStats{
		Size:                   tree.count,
		Height:                 tree.Height(),
		LeafCount:              tree.LeafCount(),
		InternalNodeCount:      tree.InternalNodeCount(),
		Diameter:               tree.Diameter(),
		MaxWidth:               tree.MaxWidth(),
		SuccessfulSearchCost:   tree.SuccessfulSearchCost(),
		UnsuccessfulSearchCost: tree.UnsuccessfulSearchCost(),
	}
}
