package tree

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestRBIterator_EmptyTree(t *testing.T) {
	tree := NewRBTree[int, string]()
	require.True(t, tree.Begin().IsEnd())
	require.True(t, tree.Begin().Equal(tree.End()))

	end := tree.End()
	_, err := end.Key()
	require.ErrorIs(t, err, ErrEmptyTree)
	require.Equal(t, ErrKindEmptyTree, KindOf(err))
	_, err = end.Val()
	require.ErrorIs(t, err, ErrEmptyTree)
	_, err = end.Entry()
	require.ErrorIs(t, err, ErrEmptyTree)
	require.ErrorIs(t, end.Next(), ErrEmptyTree)
	require.True(t, end.IsEnd())

	var unbound RBIterator[int, string]
	require.ErrorIs(t, unbound.Next(), ErrEmptyTree)
	_, err = unbound.Key()
	require.ErrorIs(t, err, ErrEmptyTree)

	count := 0
	for range tree.All() {
		count++
	}
	require.Zero(t, count)
}

func TestRBIterator_Traversal(t *testing.T) {
	tree := NewRBTree[int, string]()
	for _, key := range []int{10, 5, 15, 3, 7} {
		require.NoError(t, tree.Insert(key, lo.RandomString(4, lo.LowerCaseLettersCharset)))
	}

	keys := make([]int, 0, 5)
	for it := tree.Begin(); !it.IsEnd(); {
		e, err := it.Entry()
		require.NoError(t, err)
		val, err := it.Val()
		require.NoError(t, err)
		require.Equal(t, val, e.Value)
		keys = append(keys, e.Key)
		require.NoError(t, it.Next())
	}
	require.Equal(t, []int{3, 5, 7, 10, 15}, keys)

	// end restarts at the first element
	it := tree.End()
	require.NoError(t, it.Next())
	key, err := it.Key()
	require.NoError(t, err)
	require.Equal(t, 3, key)
	require.True(t, it.Equal(tree.Begin()))

	it = tree.Find(15)
	require.NoError(t, it.Next())
	require.True(t, it.IsEnd())
	require.True(t, it.Equal(tree.End()))
}

func TestRBIterator_Equal(t *testing.T) {
	a := NewRBTree[int, int]()
	b := NewRBTree[int, int]()
	require.False(t, a.End().Equal(b.End()))
	require.NoError(t, a.Insert(1, 1))
	require.True(t, a.Find(1).Equal(a.Begin()))
	require.False(t, a.Find(1).Equal(a.End()))
}

func TestRBIterator_Invalidated(t *testing.T) {
	tree := NewRBTree[int, int]()
	require.NoError(t, tree.Insert(1, 1))
	it := tree.Begin()
	end := tree.End()

	// a rejected insertion keeps iterators valid
	require.ErrorIs(t, tree.Insert(1, 2), ErrDuplicateKey)
	key, err := it.Key()
	require.NoError(t, err)
	require.Equal(t, 1, key)

	require.NoError(t, tree.Insert(2, 2))
	_, err = it.Key()
	require.ErrorIs(t, err, ErrIteratorInvalidated)
	require.Equal(t, ErrKindIteratorInvalidated, KindOf(err))
	_, err = it.Val()
	require.ErrorIs(t, err, ErrIteratorInvalidated)
	require.ErrorIs(t, it.Next(), ErrIteratorInvalidated)
	require.ErrorIs(t, end.Next(), ErrIteratorInvalidated)

	fresh := tree.Begin()
	require.NoError(t, fresh.Next())
	key, err = fresh.Key()
	require.NoError(t, err)
	require.Equal(t, 2, key)
}

func TestRBTree_All(t *testing.T) {
	tree := NewRBTree[int, int]()
	for i := 100; i > 0; i-- {
		require.NoError(t, tree.Insert(i, i*i))
	}
	expected := 1
	for key, val := range tree.All() {
		require.Equal(t, expected, key)
		require.Equal(t, key*key, val)
		expected++
	}
	require.Equal(t, 101, expected)

	// early break
	seen := 0
	for key := range tree.All() {
		seen++
		if key == 10 {
			break
		}
	}
	require.Equal(t, 10, seen)

	// mutation stops the traversal
	seen = 0
	for key := range tree.All() {
		seen++
		if key == 5 {
			require.NoError(t, tree.Insert(1000, 0))
		}
	}
	require.Equal(t, 5, seen)
}

func TestRBIterator_RoundTrip(t *testing.T) {
	tree := NewRBTree[int, int]()
	require.NoError(t, tree.Insert(42, 0))
	key, err := tree.Find(42).Key()
	require.NoError(t, err)
	require.Equal(t, 42, key)

	for i := 0; i < 200; i++ {
		_ = tree.Insert((i*7919)%1000, i)
	}
	count := int64(0)
	prev := -1
	for it := tree.Begin(); !it.IsEnd(); {
		key, err := it.Key()
		require.NoError(t, err)
		require.Greater(t, key, prev)
		prev = key
		count++
		require.NoError(t, it.Next())
	}
	require.Equal(t, tree.Len(), count)
}
