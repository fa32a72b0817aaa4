package chart

import "github.com/locvowork/orgmaker/internal/domain"

// HierarchyNode is the nested view of one org node as the chart draws it:
// side lane, vertical children and the people placed in the unit.
type HierarchyNode struct {
	domain.ChartNode
	Display   domain.LevelInfo   `json:"display"`
	Headcount int                `json:"headcount"`
	Persons   []domain.ChartNode `json:"persons,omitempty"`
	Side      []*HierarchyNode   `json:"side,omitempty"`
	Standard  []*HierarchyNode   `json:"standard,omitempty"`
}

// Hierarchy builds the nested view starting at the root. Nodes with a
// dangling parent are not reachable and are left out.
func (t *Tree) Hierarchy(levels domain.LevelConfig) *HierarchyNode {
	root, ok := t.Root()
	if !ok {
		return nil
	}
	return t.hierarchyOf(root, levels)
}

func (t *Tree) hierarchyOf(n domain.ChartNode, levels domain.LevelConfig) *HierarchyNode {
	side, standard, persons := t.Children(n.ID)
	h := &HierarchyNode{
		ChartNode: n,
		Display:   levels.Lookup(n),
		Headcount: len(persons),
		Persons:   persons,
	}
	for _, c := range side {
		h.Side = append(h.Side, t.hierarchyOf(c, levels))
	}
	for _, c := range standard {
		h.Standard = append(h.Standard, t.hierarchyOf(c, levels))
	}
	return h
}
