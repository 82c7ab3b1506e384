package navigation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positions(t *Tree) []int {
	var out []int
	t.Walk(func(n *Node) { out = append(out, n.Position()) })
	return out
}

func buildTree(keys ...int) *Tree {
	tr := NewTree()
	for _, k := range keys {
		tr.Insert("u", k)
	}
	return tr
}

func TestTreeInsertAndFind(t *testing.T) {
	tr := NewTree()
	assert.True(t, tr.IsEmpty())
	assert.Nil(t, tr.Find(0))

	n := tr.Insert("newtab", 0)
	require.NotNil(t, n)
	assert.Equal(t, 0, n.Position())
	assert.Equal(t, "newtab", n.URL())

	tr.Insert("https://a.com", 1)
	tr.Insert("https://b.com", 2)
	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, "https://b.com", tr.Find(2).URL())
	assert.Nil(t, tr.Find(7))
}

func TestTreeInsertOverwrite(t *testing.T) {
	tr := buildTree(5, 3, 8)
	before := tr.Len()

	n := tr.Insert("replaced", 3)
	assert.Equal(t, before, tr.Len())
	assert.Equal(t, "replaced", n.URL())
	assert.Same(t, n, tr.Find(3))

	tr.Insert("fresh", 4)
	assert.Equal(t, before+1, tr.Len())
}

func TestTreeMinMax(t *testing.T) {
	tr := NewTree()
	assert.Nil(t, tr.Min())
	assert.Nil(t, tr.Max())
	assert.Nil(t, MinFrom(nil))

	tr = buildTree(50, 30, 70, 20, 40, 60, 80)
	assert.Equal(t, 20, tr.Min().Position())
	assert.Equal(t, 80, tr.Max().Position())
	assert.Equal(t, 60, MinFrom(tr.Find(70)).Position())
	assert.Equal(t, 40, MaxFrom(tr.Find(30)).Position())
}

func TestTreePredecessorSuccessor(t *testing.T) {
	tr := buildTree(50, 30, 70, 20, 40, 60, 80, 35)

	assert.Equal(t, 35, tr.Predecessor(tr.Find(40)).Position())
	assert.Equal(t, 40, tr.Predecessor(tr.Find(50)).Position())
	assert.Equal(t, 50, tr.Predecessor(tr.Find(60)).Position())
	assert.Nil(t, tr.Predecessor(tr.Find(20)))

	assert.Equal(t, 50, tr.Successor(tr.Find(40)).Position())
	assert.Equal(t, 35, tr.Successor(tr.Find(30)).Position())
	assert.Nil(t, tr.Successor(tr.Find(80)))

	assert.Nil(t, tr.Predecessor(nil))
	assert.Nil(t, tr.Successor(nil))
}

func TestTreeDeleteCases(t *testing.T) {
	t.Run("leaf", func(t *testing.T) {
		tr := buildTree(50, 30, 70)
		assert.True(t, tr.Delete(30))
		assert.Equal(t, []int{50, 70}, positions(tr))
		assert.Equal(t, 2, tr.Len())
	})

	t.Run("one child", func(t *testing.T) {
		tr := buildTree(50, 30, 20)
		assert.True(t, tr.Delete(30))
		assert.Equal(t, []int{20, 50}, positions(tr))
		assert.Equal(t, 50, tr.Successor(tr.Find(20)).Position())
	})

	t.Run("two children", func(t *testing.T) {
		tr := buildTree(50, 30, 70, 60, 80, 65)
		assert.True(t, tr.Delete(50))
		assert.Equal(t, []int{30, 60, 65, 70, 80}, positions(tr))
		assert.Equal(t, 5, tr.Len())
		assert.Equal(t, 60, tr.Successor(tr.Find(30)).Position())
	})

	t.Run("root only", func(t *testing.T) {
		tr := buildTree(1)
		assert.True(t, tr.Delete(1))
		assert.True(t, tr.IsEmpty())
		assert.Equal(t, -1, tr.Height())
	})

	t.Run("missing", func(t *testing.T) {
		tr := buildTree(1, 2)
		assert.False(t, tr.Delete(9))
		assert.Equal(t, 2, tr.Len())
	})
}

func TestTreeDeleteGreaterThan(t *testing.T) {
	tr := buildTree(0, 1, 2, 3, 4, 5)

	assert.Equal(t, 3, tr.DeleteGreaterThan(2))
	assert.Equal(t, []int{0, 1, 2}, positions(tr))

	// A second call with the same threshold changes nothing.
	assert.Equal(t, 0, tr.DeleteGreaterThan(2))
	assert.Equal(t, []int{0, 1, 2}, positions(tr))
	assert.Equal(t, 3, tr.Len())
}

func TestTreeEntriesSnapshot(t *testing.T) {
	tr := NewTree()
	tr.Insert("b", 2)
	tr.Insert("a", 1)

	entries := tr.Entries()
	assert.Equal(t, []Entry{{URL: "a", Position: 1}, {URL: "b", Position: 2}}, entries)

	tr.Insert("c", 3)
	assert.Len(t, entries, 2)
	assert.Len(t, tr.Entries(), 3)
}

func TestTreeHeightAndClear(t *testing.T) {
	tr := buildTree(0, 1, 2, 3)
	assert.Equal(t, 3, tr.Height())

	tr = buildTree(2, 1, 3)
	assert.Equal(t, 1, tr.Height())

	tr.Clear()
	assert.True(t, tr.IsEmpty())
	assert.Equal(t, 0, tr.Len())
	assert.Nil(t, tr.Find(2))
}

// checkOrder asserts the in-order walk is strictly increasing and that
// predecessor and successor are inverse walks.
func checkOrder(t *testing.T, tr *Tree, step int) {
	t.Helper()
	got := positions(tr)
	for i := 1; i < len(got); i++ {
		require.Less(t, got[i-1], got[i], "step %d: in-order walk must be strictly increasing", step)
	}
	tr.Walk(func(n *Node) {
		if s := tr.Successor(n); s != nil {
			require.Same(t, n, tr.Predecessor(s), "step %d: predecessor of successor of %d", step, n.pos)
		}
		if p := tr.Predecessor(n); p != nil {
			require.Same(t, n, tr.Successor(p), "step %d: successor of predecessor of %d", step, n.pos)
		}
		if n.parent != nil {
			require.True(t, n.parent.left == n || n.parent.right == n, "step %d: parent of %d does not link back", step, n.pos)
		}
	})
}

func TestTreeRandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := NewTree()
	present := map[int]bool{}

	for i := 0; i < 2000; i++ {
		k := rng.Intn(200)
		switch rng.Intn(4) {
		case 0:
			assert.Equal(t, present[k], tr.Delete(k))
			delete(present, k)
		case 1:
			tr.DeleteGreaterThan(k)
			for p := range present {
				if p > k {
					delete(present, p)
				}
			}
		default:
			tr.Insert("u", k)
			present[k] = true
		}

		require.Equal(t, len(present), tr.Len())
		checkOrder(t, tr, i)
	}
}

func TestTreeTwoChildDeleteKeepsLinks(t *testing.T) {
	// 50 has two children and its successor 60 has a right child.
	tr := buildTree(50, 30, 70, 20, 40, 60, 80, 65)

	require.True(t, tr.Delete(50))
	checkOrder(t, tr, 0)
	assert.Equal(t, []int{20, 30, 40, 60, 65, 70, 80}, positions(tr))

	require.True(t, tr.Delete(60))
	checkOrder(t, tr, 1)
	assert.Equal(t, []int{20, 30, 40, 65, 70, 80}, positions(tr))
}
