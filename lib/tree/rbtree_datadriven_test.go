package tree

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"
)

// Commands:
//
//	new [desc]             creates an empty tree
//	insert [hint=<key>]    inserts the whitespace separated keys, valued key*10
//	draw [values]          renders the tree
//	stats                  prints the structural analytics
//	iter                   prints the keys in order
//	find key=<key>         prints key=value or end
//	validate               checks the red-black invariants
//	release                tears the tree down
func TestRBTreeDataDriven(t *testing.T) {
	var tree RBTree[int, int]
	datadriven.RunTest(t, "testdata/rbtree", func(t *testing.T, td *datadriven.TestData) string {
		var buf strings.Builder
		switch td.Cmd {
		case "new":
			if td.HasArg("desc") {
				tree = NewRBTree[int, int](WithRBTreeDesc[int, int]())
			} else {
				tree = NewRBTree[int, int]()
			}
			return "OK"

		case "insert":
			for _, field := range strings.Fields(td.Input) {
				key, err := strconv.Atoi(field)
				require.NoError(t, err)
				if td.HasArg("hint") {
					var hintKey int
					td.ScanArgs(t, "hint", &hintKey)
					err = tree.InsertAt(tree.Find(hintKey), key, key*10)
				} else {
					err = tree.Insert(key, key*10)
				}
				if err != nil {
					fmt.Fprintf(&buf, "error: %s\n", err)
				}
			}
			fmt.Fprintf(&buf, "size=%d", tree.Len())
			return buf.String()

		case "draw":
			drawer := NewRBTreeDrawer[int, int](tree.Root())
			if td.HasArg("values") {
				drawer = drawer.WithValues()
			}
			return drawer.String()

		case "stats":
			stats := tree.Stats()
			fmt.Fprintf(&buf, "size=%d height=%d leaves=%d internal=%d diameter=%d max-width=%d\n",
				stats.Size, stats.Height, stats.LeafCount, stats.InternalNodeCount, stats.Diameter, stats.MaxWidth)
			fmt.Fprintf(&buf, "successful=%.4f unsuccessful=%.4f",
				stats.SuccessfulSearchCost, stats.UnsuccessfulSearchCost)
			return buf.String()

		case "iter":
			keys := make([]string, 0, tree.Len())
			for key := range tree.All() {
				keys = append(keys, strconv.Itoa(key))
			}
			if len(keys) == 0 {
				return "(empty)"
			}
			return strings.Join(keys, " ")

		case "find":
			var key int
			td.ScanArgs(t, "key", &key)
			it := tree.Find(key)
			if it.IsEnd() {
				return "end"
			}
			e, err := it.Entry()
			require.NoError(t, err)
			return fmt.Sprintf("%d=%d", e.Key, e.Value)

		case "validate":
			if err := Validate[int, int](tree); err != nil {
				return err.Error()
			}
			return "OK"

		case "release":
			tree.Release()
			return fmt.Sprintf("size=%d", tree.Len())

		default:
			return fmt.Sprintf("unknown command: %s", td.Cmd)
		}
	})
}
