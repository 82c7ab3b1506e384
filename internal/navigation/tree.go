package navigation

// Node is a single history entry in a Tree.
type Node struct {
	pos    int
	url    string
	left   *Node
	right  *Node
	parent *Node // back-reference for predecessor/successor walks only
}

// Position returns the node's key.
func (n *Node) Position() int {
	return n.pos
}

// URL returns the URL recorded at the node's position.
func (n *Node) URL() string {
	return n.url
}

// Entry is a point-in-time copy of a tree node.
type Entry struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// Tree is an unbalanced binary search tree keyed by history position.
// Positions are unique; inserting an existing position overwrites its URL.
type Tree struct {
	root *Node
	size int
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Insert records url at pos and returns the node holding pos.
func (t *Tree) Insert(url string, pos int) *Node {
	if t.root == nil {
		t.root = &Node{pos: pos, url: url}
		t.size++
		return t.root
	}

	cur := t.root
	for {
		switch {
		case pos < cur.pos:
			if cur.left == nil {
				cur.left = &Node{pos: pos, url: url, parent: cur}
				t.size++
				return cur.left
			}
			cur = cur.left
		case pos > cur.pos:
			if cur.right == nil {
				cur.right = &Node{pos: pos, url: url, parent: cur}
				t.size++
				return cur.right
			}
			cur = cur.right
		default:
			cur.url = url
			return cur
		}
	}
}

// Find returns the node at pos, or nil.
func (t *Tree) Find(pos int) *Node {
	cur := t.root
	for cur != nil {
		switch {
		case pos == cur.pos:
			return cur
		case pos < cur.pos:
			cur = cur.left
		default:
			cur = cur.right
		}
	}
	return nil
}

// Min returns the node with the smallest position, or nil if the tree is empty.
func (t *Tree) Min() *Node {
	return MinFrom(t.root)
}

// Max returns the node with the largest position, or nil if the tree is empty.
func (t *Tree) Max() *Node {
	return MaxFrom(t.root)
}

// MinFrom returns the leftmost node of the subtree rooted at n.
func MinFrom(n *Node) *Node {
	if n == nil {
		return nil
	}
	for n.left != nil {
		n = n.left
	}
	return n
}

// MaxFrom returns the rightmost node of the subtree rooted at n.
func MaxFrom(n *Node) *Node {
	if n == nil {
		return nil
	}
	for n.right != nil {
		n = n.right
	}
	return n
}

// Predecessor returns the node with the next smaller position, or nil.
func (t *Tree) Predecessor(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.left != nil {
		return MaxFrom(n.left)
	}
	cur, p := n, n.parent
	for p != nil && cur == p.left {
		cur, p = p, p.parent
	}
	return p
}

// Successor returns the node with the next larger position, or nil.
func (t *Tree) Successor(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.right != nil {
		return MinFrom(n.right)
	}
	cur, p := n, n.parent
	for p != nil && cur == p.right {
		cur, p = p, p.parent
	}
	return p
}

// Delete removes the entry at pos. It reports whether the entry existed.
func (t *Tree) Delete(pos int) bool {
	n := t.Find(pos)
	if n == nil {
		return false
	}
	t.size--

	if n.left != nil && n.right != nil {
		// The successor is the leftmost node of the right subtree, so it has
		// no left child and can be spliced out directly.
		s := MinFrom(n.right)
		n.pos, n.url = s.pos, s.url
		n = s
	}

	child := n.left
	if child == nil {
		child = n.right
	}
	t.replace(n, child)
	return true
}

// replace puts child in n's slot under n's parent.
func (t *Tree) replace(n, child *Node) {
	if child != nil {
		child.parent = n.parent
	}
	switch {
	case n.parent == nil:
		t.root = child
	case n == n.parent.left:
		n.parent.left = child
	default:
		n.parent.right = child
	}
	n.parent, n.left, n.right = nil, nil, nil
}

// DeleteGreaterThan removes every entry whose position is greater than pos
// and returns how many were removed.
func (t *Tree) DeleteGreaterThan(pos int) int {
	var doomed []int
	t.Walk(func(n *Node) {
		if n.pos > pos {
			doomed = append(doomed, n.pos)
		}
	})
	for _, p := range doomed {
		t.Delete(p)
	}
	return len(doomed)
}

// Walk visits every node in ascending position order.
func (t *Tree) Walk(fn func(*Node)) {
	walk(t.root, fn)
}

func walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	walk(n.left, fn)
	fn(n)
	walk(n.right, fn)
}

// Entries returns the tree contents in ascending position order.
func (t *Tree) Entries() []Entry {
	entries := make([]Entry, 0, t.size)
	t.Walk(func(n *Node) {
		entries = append(entries, Entry{URL: n.url, Position: n.pos})
	})
	return entries
}

// Len returns the number of entries.
func (t *Tree) Len() int {
	return t.size
}

// IsEmpty reports whether the tree has no entries.
func (t *Tree) IsEmpty() bool {
	return t.size == 0
}

// Clear removes all entries.
func (t *Tree) Clear() {
	t.root = nil
	t.size = 0
}

// Height returns the number of edges on the longest root-to-leaf path.
// An empty tree has height -1.
func (t *Tree) Height() int {
	return height(t.root)
}

func height(n *Node) int {
	if n == nil {
		return -1
	}
	return 1 + max(height(n.left), height(n.right))
}
