package chart

import (
	"github.com/locvowork/orgmaker/internal/domain"
)

// OrgSpec describes an org node to insert. A nil LevelIndex derives the
// level from the parent.
type OrgSpec struct {
	ParentID    string
	IsException bool
	Layout      domain.Layout
	LevelIndex  *int
}

// PersonSpec is one person node to insert.
type PersonSpec struct {
	ID       string
	Employee domain.Employee
	Role     *domain.Role
}

// BuildOrgNode resolves level and label for spec without touching the tree.
// It reports false when the layout or level index is not usable.
func (t *Tree) BuildOrgNode(id string, spec OrgSpec, levels domain.LevelConfig) (domain.ChartNode, bool) {
	layout := spec.Layout
	if layout == "" {
		layout = domain.LayoutStandard
	}
	if !layout.Valid() {
		return domain.ChartNode{}, false
	}

	node := domain.ChartNode{
		ID:          id,
		Type:        domain.NodeTypeOrg,
		ParentID:    spec.ParentID,
		IsException: spec.IsException,
		Layout:      layout,
	}

	switch {
	case spec.IsException:
		node.Level = domain.NoLevel
		node.Label = domain.ExceptionOrgLabel
	case spec.LevelIndex != nil:
		idx := *spec.LevelIndex
		if idx < 0 || idx >= len(levels) {
			return domain.ChartNode{}, false
		}
		node.Level = idx + 1
		node.Label = levels[idx].Name
	default:
		node.Level = 1
		if parent, ok := t.Get(spec.ParentID); ok {
			node.Level = parent.Level + 1
		}
		node.Label = domain.NewOrgLabel
	}
	return node, true
}

// AddOrg returns a snapshot with a new org node. An existing parent must be
// an org node; a parent that does not exist still gets the node, with a
// dangling reference.
func (t *Tree) AddOrg(id string, spec OrgSpec, levels domain.LevelConfig) (*Tree, bool) {
	if t.Has(id) {
		return t, false
	}
	if parent, ok := t.Get(spec.ParentID); ok && !parent.IsOrg() {
		return t, false
	}
	node, ok := t.BuildOrgNode(id, spec, levels)
	if !ok {
		return t, false
	}
	return t.append(node), true
}

// AddPersons returns a snapshot with one person node per spec under
// parentID. Nothing is added unless parentID is an org node. The ids of
// the created nodes are returned.
func (t *Tree) AddPersons(parentID string, people []PersonSpec) (*Tree, []string) {
	if !t.IsOrg(parentID) || len(people) == 0 {
		return t, nil
	}
	added := make([]domain.ChartNode, 0, len(people))
	ids := make([]string, 0, len(people))
	for _, p := range people {
		if t.Has(p.ID) {
			continue
		}
		added = append(added, domain.ChartNode{
			ID:               p.ID,
			Type:             domain.NodeTypePerson,
			Label:            p.Employee.Name,
			ParentID:         parentID,
			Level:            domain.NoLevel,
			OriginalPosition: p.Employee.Position,
			Role:             p.Role,
		})
		ids = append(ids, p.ID)
	}
	if len(added) == 0 {
		return t, nil
	}
	return t.append(added...), ids
}

// UpdateLabel replaces the label of id. Any string is accepted.
func (t *Tree) UpdateLabel(id, label string) (*Tree, bool) {
	i, ok := t.index[id]
	if !ok {
		return t, false
	}
	nodes := t.Nodes()
	nodes[i].Label = label
	return NewTree(nodes), true
}

// Reparent moves nodeID under newParentID. The move is refused when it
// targets the node itself, when the target is not an existing org node,
// when the node is the root, or when an org node would land below itself.
// On success only the moved node's ParentID changes.
func (t *Tree) Reparent(nodeID, newParentID string) (*Tree, bool) {
	if nodeID == newParentID || nodeID == domain.PresidentNodeID {
		return t, false
	}
	i, ok := t.index[nodeID]
	if !ok {
		return t, false
	}
	if !t.IsOrg(newParentID) {
		return t, false
	}
	node := t.nodes[i]
	if node.ParentID == newParentID {
		return t, false
	}
	if node.IsOrg() && t.IsDescendant(nodeID, newParentID) {
		return t, false
	}

	nodes := t.Nodes()
	nodes[i].ParentID = newParentID
	return NewTree(nodes), true
}

// Delete removes id and everything below it. The bootstrap nodes are never
// removed. It returns the removed ids.
func (t *Tree) Delete(id string) (*Tree, []string) {
	if domain.IsProtected(id) || !t.Has(id) {
		return t, nil
	}
	removed := append([]string{id}, t.Descendants(id)...)
	gone := make(map[string]struct{}, len(removed))
	for _, r := range removed {
		gone[r] = struct{}{}
	}

	nodes := make([]domain.ChartNode, 0, len(t.nodes)-len(removed))
	for _, n := range t.nodes {
		if _, ok := gone[n.ID]; !ok {
			nodes = append(nodes, n)
		}
	}
	return NewTree(nodes), removed
}

func (t *Tree) append(added ...domain.ChartNode) *Tree {
	nodes := make([]domain.ChartNode, len(t.nodes), len(t.nodes)+len(added))
	copy(nodes, t.nodes)
	nodes = append(nodes, added...)
	return NewTree(nodes)
}
