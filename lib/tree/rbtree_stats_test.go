package tree

import (
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"
)

func requireStats(t *testing.T, expected, actual RBTreeStats) {
	const eps = 1e-9
	if diff := pretty.Diff(expected, actual); len(diff) > 0 {
		for _, d := range diff {
			t.Log(d)
		}
	}
	require.InDelta(t, expected.SuccessfulSearchCost, actual.SuccessfulSearchCost, eps)
	require.InDelta(t, expected.UnsuccessfulSearchCost, actual.UnsuccessfulSearchCost, eps)
	expected.SuccessfulSearchCost, actual.SuccessfulSearchCost = 0, 0
	expected.UnsuccessfulSearchCost, actual.UnsuccessfulSearchCost = 0, 0
	require.Equal(t, expected, actual)
}

func TestRBTreeStats(t *testing.T) {
	type testcase struct {
		name     string
		keys     []int
		expected RBTreeStats
	}
	testcases := []testcase{
		{
			name: "empty",
			expected: RBTreeStats{
				Size:                   0,
				Height:                 -1,
				LeafCount:              0,
				InternalNodeCount:      0,
				Diameter:               0,
				MaxWidth:               0,
				SuccessfulSearchCost:   0,
				UnsuccessfulSearchCost: 0,
			},
		},
		{
			name: "single",
			keys: []int{42},
			expected: RBTreeStats{
				Size:                   1,
				Height:                 0,
				LeafCount:              1,
				InternalNodeCount:      0,
				Diameter:               0,
				MaxWidth:               1,
				SuccessfulSearchCost:   1,
				UnsuccessfulSearchCost: 1,
			},
		},
		{
			name: "two",
			keys: []int{1, 2},
			expected: RBTreeStats{
				Size:                   2,
				Height:                 1,
				LeafCount:              1,
				InternalNodeCount:      1,
				Diameter:               1,
				MaxWidth:               1,
				SuccessfulSearchCost:   1.5,
				UnsuccessfulSearchCost: 5.0 / 3.0,
			},
		},
		{
			name: "scenario",
			keys: []int{10, 5, 15, 3, 7},
			expected: RBTreeStats{
				Size:                   5,
				Height:                 2,
				LeafCount:              3,
				InternalNodeCount:      2,
				Diameter:               3,
				MaxWidth:               2,
				SuccessfulSearchCost:   2.2,
				UnsuccessfulSearchCost: 16.0 / 6.0,
			},
		},
		{
			name: "ascending 15",
			keys: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
			expected: RBTreeStats{
				Size:                   15,
				Height:                 5,
				LeafCount:              8,
				InternalNodeCount:      7,
				Diameter:               7,
				MaxWidth:               4,
				SuccessfulSearchCost:   1 + 40.0/15.0,
				UnsuccessfulSearchCost: 4.375,
			},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewRBTree[int, struct{}]()
			for _, key := range tc.keys {
				require.NoError(tt, tree.Insert(key, struct{}{}))
			}
			requireStats(tt, tc.expected, tree.Stats())
			require.Equal(tt, tc.expected.Height, tree.Height())
			require.Equal(tt, tc.expected.LeafCount, tree.LeafCount())
			require.Equal(tt, tc.expected.InternalNodeCount, tree.InternalNodeCount())
			require.Equal(tt, tc.expected.Diameter, tree.Diameter())
			require.Equal(tt, tc.expected.MaxWidth, tree.MaxWidth())
			require.InDelta(tt, tc.expected.SuccessfulSearchCost, tree.SuccessfulSearchCost(), 1e-9)
			require.InDelta(tt, tc.expected.UnsuccessfulSearchCost, tree.UnsuccessfulSearchCost(), 1e-9)
		})
	}
}

func TestRBTreeStats_Identities(t *testing.T) {
	tree := NewRBTree[int, int]()
	for i := 0; i < 3000; i++ {
		_ = tree.Insert((i*104729)%5003, i)
		if i%97 != 0 {
			continue
		}
		stats := tree.Stats()
		require.Equal(t, stats.Size, stats.LeafCount+stats.InternalNodeCount)
		require.LessOrEqual(t, stats.Diameter, 2*stats.Height)
		require.GreaterOrEqual(t, stats.Diameter, stats.Height)
		require.LessOrEqual(t, stats.MaxWidth, stats.LeafCount)
		require.Greater(t, stats.UnsuccessfulSearchCost, 0.0)
		require.GreaterOrEqual(t, stats.SuccessfulSearchCost, 1.0)
		require.LessOrEqual(t, stats.SuccessfulSearchCost, float64(stats.Height+1))
	}
}

func TestRBTreeStats_Release(t *testing.T) {
	tree := NewRBTree[int, int]()
	for i := 0; i < 64; i++ {
		require.NoError(t, tree.Insert(i, i))
	}
	tree.Release()
	requireStats(t, RBTreeStats{Height: -1}, tree.Stats())
}
