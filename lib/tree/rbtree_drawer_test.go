package tree

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRBTreeDrawer(t *testing.T) {
	tree := NewRBTree[int, string]()
	require.Equal(t, "(empty)\n", DrawRBTree[int, string](tree))

	for _, key := range []int{10, 5, 15, 3, 7} {
		require.NoError(t, tree.Insert(key, strings.Repeat("x", key%3+1)))
	}
	expected := strings.Join([]string{
		"[10]",
		"├── [5]",
		"│   ├── <3>",
		"│   └── <7>",
		"└── [15]",
		"",
	}, "\n")
	require.Equal(t, expected, DrawRBTree[int, string](tree))

	buf := &bytes.Buffer{}
	n, err := NewRBTreeDrawer[int, string](tree.Root()).WithValues().WriteTo(buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	require.True(t, strings.HasPrefix(buf.String(), "[10=xx]\n├── [5=xxx]\n"))

	require.NoError(t, tree.Insert(20, "y"))
	require.Contains(t, DrawRBTree[int, string](tree), "└── [15]\n    ├── nil\n    └── <20>\n")
}

func TestRBTreeDrawer_Subtree(t *testing.T) {
	tree := NewRBTree[string, int]()
	for i, key := range []string{"m", "f", "t", "a"} {
		require.NoError(t, tree.Insert(key, i))
	}
	require.Equal(t, "[f]\n├── <a>\n└── nil\n", NewRBTreeDrawer[string, int](tree.Root().Left()).String())
}
