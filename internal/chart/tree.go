// Package chart is the editable org-chart tree. Trees are immutable
// snapshots: every mutation builds a new Tree and the Store publishes it.
package chart

import (
	"sync"

	"github.com/locvowork/orgmaker/internal/domain"
)

// Tree is one immutable snapshot of the chart. Nodes keep insertion order;
// the first node is the root used for rendering.
type Tree struct {
	nodes    []domain.ChartNode
	index    map[string]int
	children map[string][]string

	statsOnce sync.Once
	stats     domain.Stats
}

// NewTree builds a snapshot over nodes. The slice is owned by the tree
// afterwards.
func NewTree(nodes []domain.ChartNode) *Tree {
	t := &Tree{
		nodes:    nodes,
		index:    make(map[string]int, len(nodes)),
		children: make(map[string][]string),
	}
	for i, n := range nodes {
		t.index[n.ID] = i
		if n.ParentID != "" {
			t.children[n.ParentID] = append(t.children[n.ParentID], n.ID)
		}
	}
	return t
}

// InitialTree returns the two-node bootstrap chart.
func InitialTree() *Tree {
	return NewTree(domain.InitialNodes())
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Nodes returns a copy of all nodes in insertion order.
func (t *Tree) Nodes() []domain.ChartNode {
	out := make([]domain.ChartNode, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Get looks a node up by id.
func (t *Tree) Get(id string) (domain.ChartNode, bool) {
	i, ok := t.index[id]
	if !ok {
		return domain.ChartNode{}, false
	}
	return t.nodes[i], true
}

// Has reports whether id exists.
func (t *Tree) Has(id string) bool {
	_, ok := t.index[id]
	return ok
}

// IsOrg reports whether id exists and is an org node.
func (t *Tree) IsOrg(id string) bool {
	n, ok := t.Get(id)
	return ok && n.IsOrg()
}

// Root returns the first node, which rendering starts from.
func (t *Tree) Root() (domain.ChartNode, bool) {
	if len(t.nodes) == 0 {
		return domain.ChartNode{}, false
	}
	return t.nodes[0], true
}

// ChildIDs returns the direct children of id in insertion order.
func (t *Tree) ChildIDs(id string) []string {
	kids := t.children[id]
	out := make([]string, len(kids))
	copy(out, kids)
	return out
}

// Children splits the direct children of id the way the chart lays them
// out.
func (t *Tree) Children(id string) (side, standard, persons []domain.ChartNode) {
	for _, cid := range t.children[id] {
		n := t.nodes[t.index[cid]]
		switch {
		case n.Type == domain.NodeTypePerson:
			persons = append(persons, n)
		case n.Layout == domain.LayoutSide:
			side = append(side, n)
		case n.Layout == domain.LayoutStandard:
			standard = append(standard, n)
		}
	}
	return side, standard, persons
}

// Descendants returns every node reachable below id through parent links,
// in breadth-first order. id itself is not included.
func (t *Tree) Descendants(id string) []string {
	var out []string
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, cid := range t.children[cur] {
			out = append(out, cid)
			queue = append(queue, cid)
		}
	}
	return out
}

// IsDescendant reports whether candidate sits anywhere below id.
func (t *Tree) IsDescendant(id, candidate string) bool {
	stack := append([]string(nil), t.children[id]...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == candidate {
			return true
		}
		stack = append(stack, t.children[cur]...)
	}
	return false
}

// Ancestors returns the parent chain of id, nearest first. It stops at a
// missing parent.
func (t *Tree) Ancestors(id string) []domain.ChartNode {
	var out []domain.ChartNode
	n, ok := t.Get(id)
	for ok && n.ParentID != "" {
		n, ok = t.Get(n.ParentID)
		if ok {
			out = append(out, n)
		}
		if len(out) > len(t.nodes) {
			break
		}
	}
	return out
}

// Stats returns the aggregate counts, computed once per snapshot.
func (t *Tree) Stats() domain.Stats {
	t.statsOnce.Do(func() {
		t.stats = computeStats(t.nodes)
	})
	return t.stats
}

func computeStats(nodes []domain.ChartNode) domain.Stats {
	var s domain.Stats
	for _, n := range nodes {
		if n.Type == domain.NodeTypePerson {
			s.Person++
			continue
		}
		if n.IsException {
			continue
		}
		switch n.Level {
		case domain.LevelDivision:
			s.Division++
		case domain.LevelGroup:
			s.Group++
		case domain.LevelTeam:
			s.Team++
		}
	}
	return s
}
