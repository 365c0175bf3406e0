package tree

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/benz9527/rbmap/lib/infra"
	"github.com/benz9527/rbmap/lib/xlog"
)

type rbNode[K infra.OrderedKey, V any] struct {
	parent *rbNode[K, V]
	left   *rbNode[K, V]
	right  *rbNode[K, V]
	key    K
	val    V
	color  RBColor
}

func (node *rbNode[K, V]) Color() RBColor {
	return node.color
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K, V]) Parent() RBNode[K, V] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

// All nil nodes are considered black.
func (node *rbNode[K, V]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[K, V]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[K, V]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[K, V]) isLeaf() bool {
	return node != nil && node.left == nil && node.right == nil
}

func (node *rbNode[K, V]) Direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ errors.AssertionFailedf("[rbtree] nil leaf node without direction"))
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K, V]) sibling() *rbNode[K, V] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *rbNode[K, V]) uncle() *rbNode[K, V] {
	return node.parent.sibling()
}

func (node *rbNode[K, V]) grandpa() *rbNode[K, V] {
	if node.parent == nil {
		return nil
	}
	return node.parent.parent
}

func (node *rbNode[K, V]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[K, V]) minimum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (node *rbNode[K, V]) succ() *rbNode[K, V] {
	x := node
	if x == nil {
		return nil
	}

	if x.right != nil {
		return x.right.minimum()
	}

	aux := x.parent
	// Backtrack to the first ancestor that x hangs on the left side of.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

type rbTree[K infra.OrderedKey, V any] struct {
	root   *rbNode[K, V]
	logger xlog.XLogger
	count  int64
	cmp    infra.OrderedKeyComparator[K]
	// gen increments on every structural change, iterators compare it to
	// detect that they outlived a mutation.
	gen    uint64
	isDesc bool
}

func (tree *rbTree[K, V]) keyCompare(k1, k2 K) int64 {
	return tree.cmp(k1, k2)
}

func (tree *rbTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// References:
// Introduction to Algorithms (CLRS), chapter 13.
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// So the shortest path nodes are black nodes. Otherwise,
// the path must contain red node.
// The longest path nodes' number is 2 * shortest path nodes' number.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K, V]) leftRotate(x *rbNode[K, V]) {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ errors.AssertionFailedf("[rbtree] left rotate node x is nil or x.right is nil"))
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ errors.AssertionFailedf("[rbtree] unknown node direction to left-rotate"))
	}
	y.parent = p
}

/*
			 |                         |
			 X                         L
			/ \     rightRotate(X)    / \
	       L   S    ============>    Ld  X
		  / \                           / \
		Ld   Lc                        Lc  S
*/
func (tree *rbTree[K, V]) rightRotate(x *rbNode[K, V]) {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ errors.AssertionFailedf("[rbtree] right rotate node x is nil or x.left is nil"))
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ errors.AssertionFailedf("[rbtree] unknown node direction to right-rotate"))
	}
	y.parent = p
}

func (tree *rbTree[K, V]) Insert(key K, val V) error {
	return tree.insert(tree.root, key, val)
}

func (tree *rbTree[K, V]) InsertAt(hint RBIterator[K, V], key K, val V) error {
	return tree.insert(tree.entryPoint(hint, key), key, val)
}

// entryPoint resolves the hint into a node whose subtree must contain the
// key's slot. A hint from another tree, an invalidated hint, the end cursor
// or a node whose ancestors bound the key away from its subtree falls back
// to the root.
func (tree *rbTree[K, V]) entryPoint(hint RBIterator[K, V], key K) *rbNode[K, V] {
	if hint.tree != tree || hint.node == nil || hint.gen != tree.gen {
		return tree.root
	}
	for x, p := hint.node, hint.node.parent; p != nil; x, p = p, p.parent {
		res := tree.keyCompare(key, p.key)
		if /* x on the left requires key < p */ x == p.left && res >= 0 {
			return tree.root
		} else /* x on the right requires key > p */ if x == p.right && res <= 0 {
			return tree.root
		}
	}
	return hint.node
}

// i1: Empty rbtree, insert directly, but root node is painted to black.
// i2: Duplicate key, rejected before any allocation.
func (tree *rbTree[K, V]) insert(from *rbNode[K, V], key K, val V) error {
	var x, y *rbNode[K, V] = from, nil
	res := int64(0)
	for x != nil {
		y = x
		res = tree.keyCompare(key, x.key)
		if /* i2 */ res == 0 {
			return &DuplicateKeyError[K]{Key: key}
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	z := &rbNode[K, V]{
		key:    key,
		val:    val,
		color:  Red,
		parent: y,
	}
	if /* i1 */ y == nil {
		tree.root = z
	} else if res < 0 {
		y.left = z
	} else {
		y.right = z
	}

	tree.count++
	tree.gen++
	tree.insertRebalance(z)
	return nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: Current node X's parent P is black, nothing violated.

im2: (Case 1) Both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Continue to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im3: (Case 2) The parent P is red but the uncle U is black. (red-violation)
X is the inner child. Rotate P to the opposite direction, then P becomes
the current node and enters im4.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im4: (Case 3) X is the outer child. Repaint then rotate G.

	    [G]                 [P]               [P]
	    / \    repaint      / \    rotate(G)  / \
	  <P> [U]  ========>  <X> <G>  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree[K, V]) insertRebalance(x *rbNode[K, V]) {
	tree.root.color = Black

	for x.parent.isRed() && x.grandpa() != nil {
		pdir := x.parent.Direction()
		if /* im2 */ u := x.uncle(); u.isRed() {
			x.parent.color = Black
			u.color = Black
			x.grandpa().color = Red
			x = x.grandpa()
			continue
		}

		if /* im3 */ dir := x.Direction(); dir != pdir {
			x = x.parent
			switch pdir {
			case Left:
				tree.leftRotate(x)
			case Right:
				tree.rightRotate(x)
			default:
				// impossible run to here
				panic( /* debug assertion */ errors.AssertionFailedf("[rbtree] insert violate (im3)"))
			}
		}

		/* im4 */
		x.parent.color = Black
		x.grandpa().color = Red
		switch pdir {
		case Left:
			tree.rightRotate(x.grandpa())
		case Right:
			tree.leftRotate(x.grandpa())
		default:
			// impossible run to here
			panic( /* debug assertion */ errors.AssertionFailedf("[rbtree] insert violate (im4)"))
		}
	}

	tree.root.color = Black
}

func (tree *rbTree[K, V]) InsertElements(elements ...lo.Entry[K, V]) int64 {
	inserted := int64(0)
	for _, e := range elements {
		if err := tree.Insert(e.Key, e.Value); err != nil {
			tree.logger.Warn("[rbtree] skip element",
				zap.Any("key", e.Key),
				zap.String("kind", KindOf(err).String()),
				zap.Error(err),
			)
			continue
		}
		inserted++
	}
	return inserted
}

func (tree *rbTree[K, V]) search(key K) *rbNode[K, V] {
	for aux := tree.root; aux != nil; {
		res := tree.keyCompare(key, aux.key)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	return nil
}

func (tree *rbTree[K, V]) Find(key K) RBIterator[K, V] {
	return tree.iteratorAt(tree.search(key))
}

func (tree *rbTree[K, V]) Begin() RBIterator[K, V] {
	return tree.iteratorAt(tree.root.minimum())
}

func (tree *rbTree[K, V]) End() RBIterator[K, V] {
	return tree.iteratorAt(nil)
}

// Inorder traversal to implement the DFS.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	size := tree.count
	aux := tree.root
	if size <= 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

// Release tears the whole tree down in post-order. The tree is empty and
// reusable afterwards.
func (tree *rbTree[K, V]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}

	var last *rbNode[K, V]
	stack := make([]*rbNode[K, V], 0, 64)
	defer func() {
		clear(stack)
	}()
	for aux != nil || len(stack) > 0 {
		for ; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
		top := stack[len(stack)-1]
		if top.right != nil && top.right != last {
			aux = top.right
			continue
		}
		stack = stack[:len(stack)-1]
		top.left, top.right, top.parent = nil, nil, nil
		tree.count--
		last = top
	}
	tree.gen++
}

type RBTreeOpt[K infra.OrderedKey, V any] func(*rbTree[K, V])

func WithRBTreeDesc[K infra.OrderedKey, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

// WithRBTreeLogger sets the sink of InsertElements warnings.
func WithRBTreeLogger[K infra.OrderedKey, V any](logger xlog.XLogger) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.logger = logger
	}
}

func NewRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return newRBTree[K, V](opts...)
}

func NewRBTreeFrom[K infra.OrderedKey, V any](elements []lo.Entry[K, V], opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	tree := newRBTree[K, V](opts...)
	tree.InsertElements(elements...)
	return tree
}

func newRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) *rbTree[K, V] {
	tree := &rbTree[K, V]{
		count:  0,
		isDesc: false,
	}

	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}
	if tree.isDesc {
		tree.cmp = infra.DescCompare[K]
	} else {
		tree.cmp = infra.AscCompare[K]
	}
	if tree.logger == nil {
		tree.logger = xlog.NewNopXLogger()
	}
	return tree
}
