package tree

import (
	"iter"

	"github.com/samber/lo"

	"github.com/benz9527/rbmap/lib/infra"
)

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

type RBNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

type RBTree[K infra.OrderedKey, V any] interface {
	Len() int64
	Root() RBNode[K, V]

	// Insert rejects an existing key with *DuplicateKeyError[K].
	Insert(key K, val V) error
	// InsertAt uses the hint as the search entry point if the key belongs
	// to the hint's subtree, otherwise it searches from the root.
	InsertAt(hint RBIterator[K, V], key K, val V) error
	// InsertElements never fails. Duplicates are skipped and logged as
	// warnings. Returns the number of inserted elements.
	InsertElements(elements ...lo.Entry[K, V]) int64

	Find(key K) RBIterator[K, V]
	Begin() RBIterator[K, V]
	End() RBIterator[K, V]
	All() iter.Seq2[K, V]
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)

	Height() int64
	LeafCount() int64
	InternalNodeCount() int64
	Diameter() int64
	MaxWidth() int64
	SuccessfulSearchCost() float64
	UnsuccessfulSearchCost() float64
	Stats() RBTreeStats

	Release()
}
