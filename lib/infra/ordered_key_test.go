package infra

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderedKeyCompare(t *testing.T) {
	testcases := []struct {
		name string
		i, j int
		asc  int64
	}{
		{"equal", 1, 1, 0},
		{"less", 1, 2, -1},
		{"greater", 3, 2, 1},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			require.Equal(tt, tc.asc, AscCompare(tc.i, tc.j))
			require.Equal(tt, -tc.asc, DescCompare(tc.i, tc.j))
		})
	}

	var cmp OrderedKeyComparator[string] = AscCompare[string]
	require.Equal(t, int64(-1), cmp("a", "b"))
	require.Equal(t, int64(1), DescCompare(1.5, 2.5))
}
