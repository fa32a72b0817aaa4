package chart

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/locvowork/orgmaker/internal/classifier"
	"github.com/locvowork/orgmaker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs() IDFunc {
	n := 0
	return func(t domain.NodeType) string {
		n++
		return fmt.Sprintf("%s-%d", t, n)
	}
}

func newTestStore(opts ...Option) *Store {
	return NewStore(classifier.Default(), append([]Option{WithIDFunc(seqIDs())}, opts...)...)
}

func intPtr(i int) *int {
	return &i
}

type countingRecorder struct {
	created, deleted int
	rejected         []string
}

func (r *countingRecorder) NodesCreated(n int) { r.created += n }
func (r *countingRecorder) NodesDeleted(n int) { r.deleted += n }
func (r *countingRecorder) MutationRejected(op string) { r.rejected = append(r.rejected, op) }

func TestNewStore_StartsWithBootstrapNodes(t *testing.T) {
	s := newTestStore()
	tree := s.Snapshot()

	require.Equal(t, 2, tree.Len())
	root, ok := tree.Root()
	require.True(t, ok)
	assert.Equal(t, domain.PresidentNodeID, root.ID)
	assert.Empty(t, root.ParentID)

	ceo, ok := tree.Get(domain.CEONodeID)
	require.True(t, ok)
	assert.Equal(t, domain.PresidentNodeID, ceo.ParentID)
	assert.Equal(t, 1, ceo.Level)
}

func TestAddOrgNode(t *testing.T) {
	levels := domain.LevelConfig(domain.DefaultLevels())

	testCases := map[string]struct {
		spec      OrgSpec
		person    bool
		wantOK    bool
		wantLevel int
		wantLabel string
		wantLay   domain.Layout
	}{
		"explicit level index": {
			spec:      OrgSpec{ParentID: domain.CEONodeID, LevelIndex: intPtr(1)},
			wantOK:    true,
			wantLevel: 2,
			wantLabel: "그룹",
			wantLay:   domain.LayoutStandard,
		},
		"derived from parent": {
			spec:      OrgSpec{ParentID: domain.CEONodeID, Layout: domain.LayoutStandard},
			wantOK:    true,
			wantLevel: 2,
			wantLabel: domain.NewOrgLabel,
			wantLay:   domain.LayoutStandard,
		},
		"exception ignores level index": {
			spec:      OrgSpec{ParentID: domain.CEONodeID, IsException: true, Layout: domain.LayoutSide, LevelIndex: intPtr(3)},
			wantOK:    true,
			wantLevel: domain.NoLevel,
			wantLabel: domain.ExceptionOrgLabel,
			wantLay:   domain.LayoutSide,
		},
		"side lane with level": {
			spec:      OrgSpec{ParentID: domain.PresidentNodeID, Layout: domain.LayoutSide, LevelIndex: intPtr(2)},
			wantOK:    true,
			wantLevel: 3,
			wantLabel: "팀",
			wantLay:   domain.LayoutSide,
		},
		"missing parent leaves dangling node": {
			spec:      OrgSpec{ParentID: "nope"},
			wantOK:    true,
			wantLevel: 1,
			wantLabel: domain.NewOrgLabel,
			wantLay:   domain.LayoutStandard,
		},
		"level index out of range": {
			spec:   OrgSpec{ParentID: domain.CEONodeID, LevelIndex: intPtr(5)},
			wantOK: false,
		},
		"unknown layout": {
			spec:   OrgSpec{ParentID: domain.CEONodeID, Layout: "diagonal"},
			wantOK: false,
		},
		"under a person is refused": {
			spec:   OrgSpec{ParentID: "person-1"},
			person: true,
			wantOK: false,
		},
		"under a person with level is refused": {
			spec:   OrgSpec{ParentID: "person-1", LevelIndex: intPtr(1)},
			person: true,
			wantOK: false,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			s := newTestStore()
			if tc.person {
				require.True(t, s.AddPersonNode(domain.CEONodeID, domain.Employee{ID: "emp-0", Name: "Kim"}).Changed)
			}
			before := s.Snapshot().Len()
			res := s.AddOrgNode(tc.spec, levels)
			assert.Equal(t, tc.wantOK, res.Changed)
			if !tc.wantOK {
				assert.Empty(t, res.Created)
				assert.Equal(t, before, s.Snapshot().Len())
				return
			}
			require.Len(t, res.Created, 1)
			n, ok := s.Snapshot().Get(res.Created[0])
			require.True(t, ok)
			assert.Equal(t, domain.NodeTypeOrg, n.Type)
			assert.Equal(t, tc.spec.ParentID, n.ParentID)
			assert.Equal(t, tc.wantLevel, n.Level)
			assert.Equal(t, tc.wantLabel, n.Label)
			assert.Equal(t, tc.wantLay, n.Layout)
		})
	}
}

func TestAddPersonNode(t *testing.T) {
	s := newTestStore()
	emp := domain.Employee{ID: "emp-0", Name: "Kim", Position: "팀리더"}

	res := s.AddPersonNode(domain.CEONodeID, emp)
	require.True(t, res.Changed)
	p, ok := s.Snapshot().Get(res.Created[0])
	require.True(t, ok)
	assert.Equal(t, domain.NodeTypePerson, p.Type)
	assert.Equal(t, "Kim", p.Label)
	assert.Equal(t, "팀리더", p.OriginalPosition)
	assert.Equal(t, domain.NoLevel, p.Level)
	require.NotNil(t, p.Role)
	assert.Equal(t, domain.RoleTeam, *p.Role)

	// a person node is not a valid parent
	res = s.AddPersonNode(p.ID, emp)
	assert.False(t, res.Changed)

	res = s.AddPersonNode("missing", emp)
	assert.False(t, res.Changed)
	assert.Equal(t, 3, s.Snapshot().Len())
}

func TestAddPersonNodes_Batch(t *testing.T) {
	s := newTestStore()
	emps := []domain.Employee{
		{ID: "emp-0", Name: "Kim", Position: "팀리더"},
		{ID: "emp-1", Name: "Lee"},
	}

	res := s.AddPersonNodes(domain.CEONodeID, emps)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{"person-1", "person-2"}, res.Created)

	_, _, persons := s.Snapshot().Children(domain.CEONodeID)
	require.Len(t, persons, 2)
	assert.Nil(t, persons[1].Role)

	assert.False(t, s.AddPersonNodes(domain.CEONodeID, nil).Changed)
}

func TestUpdateLabel(t *testing.T) {
	s := newTestStore()
	before := s.Snapshot()

	res := s.UpdateLabel(domain.CEONodeID, "")
	assert.True(t, res.Changed, "empty labels are allowed")
	n, _ := s.Snapshot().Get(domain.CEONodeID)
	assert.Equal(t, "", n.Label)

	old, _ := before.Get(domain.CEONodeID)
	assert.Equal(t, "대표이사", old.Label, "older snapshots are untouched")

	assert.False(t, s.UpdateLabel("missing", "x").Changed)
}

// builds president -> ceo -> a -> b -> c plus a sibling d under ceo
func buildChain(t *testing.T, s *Store) (a, b, c, d string) {
	t.Helper()
	levels := domain.LevelConfig(domain.DefaultLevels())
	a = s.AddOrgNode(OrgSpec{ParentID: domain.CEONodeID}, levels).Created[0]
	b = s.AddOrgNode(OrgSpec{ParentID: a}, levels).Created[0]
	c = s.AddOrgNode(OrgSpec{ParentID: b}, levels).Created[0]
	d = s.AddOrgNode(OrgSpec{ParentID: domain.CEONodeID}, levels).Created[0]
	return a, b, c, d
}

func TestReparent(t *testing.T) {
	s := newTestStore()
	a, b, c, d := buildChain(t, s)
	person := s.AddPersonNode(c, domain.Employee{ID: "emp-0", Name: "Kim"}).Created[0]

	t.Run("onto itself", func(t *testing.T) {
		assert.False(t, s.Reparent(a, a).Changed)
	})

	t.Run("onto a descendant is refused", func(t *testing.T) {
		before := s.Snapshot()
		assert.False(t, s.Reparent(a, c).Changed)
		assert.False(t, s.Reparent(a, b).Changed)
		assert.Same(t, before, s.Snapshot())
	})

	t.Run("onto a person is refused", func(t *testing.T) {
		assert.False(t, s.Reparent(d, person).Changed)
	})

	t.Run("onto a missing node is refused", func(t *testing.T) {
		assert.False(t, s.Reparent(d, "missing").Changed)
	})

	t.Run("missing node", func(t *testing.T) {
		assert.False(t, s.Reparent("missing", d).Changed)
	})

	t.Run("root cannot move", func(t *testing.T) {
		assert.False(t, s.Reparent(domain.PresidentNodeID, d).Changed)
	})

	t.Run("person moves between orgs", func(t *testing.T) {
		assert.True(t, s.Reparent(person, d).Changed)
		p, _ := s.Snapshot().Get(person)
		assert.Equal(t, d, p.ParentID)
	})

	t.Run("only the moved node changes", func(t *testing.T) {
		before := s.Snapshot().Nodes()
		require.True(t, s.Reparent(b, d).Changed)
		after := s.Snapshot().Nodes()
		require.Len(t, after, len(before))
		for i := range before {
			if before[i].ID == b {
				assert.Equal(t, d, after[i].ParentID)
				continue
			}
			assert.Equal(t, before[i], after[i])
		}
	})

	t.Run("same parent is not a change", func(t *testing.T) {
		assert.False(t, s.Reparent(b, d).Changed)
	})
}

func TestReparent_StaysAcyclic(t *testing.T) {
	s := newTestStore()
	levels := domain.LevelConfig(domain.DefaultLevels())
	ids := []string{domain.PresidentNodeID, domain.CEONodeID}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 30; i++ {
		parent := ids[rng.Intn(len(ids))]
		ids = append(ids, s.AddOrgNode(OrgSpec{ParentID: parent}, levels).Created[0])
	}
	for i := 0; i < 500; i++ {
		s.Reparent(ids[rng.Intn(len(ids))], ids[rng.Intn(len(ids))])
		assertAcyclic(t, s.Snapshot())
	}
}

func assertAcyclic(t *testing.T, tree *Tree) {
	t.Helper()
	for _, n := range tree.Nodes() {
		seen := map[string]bool{n.ID: true}
		cur := n
		for cur.ParentID != "" {
			require.False(t, seen[cur.ParentID], "node %s is its own ancestor", n.ID)
			seen[cur.ParentID] = true
			next, ok := tree.Get(cur.ParentID)
			if !ok {
				break
			}
			cur = next
		}
	}
}

func TestDeleteNode(t *testing.T) {
	t.Run("protected nodes", func(t *testing.T) {
		s := newTestStore()
		assert.False(t, s.DeleteNode(domain.PresidentNodeID).Changed)
		assert.False(t, s.DeleteNode(domain.CEONodeID).Changed)
		assert.Equal(t, 2, s.Snapshot().Len())
	})

	t.Run("removes exactly the subtree", func(t *testing.T) {
		s := newTestStore()
		a, b, c, d := buildChain(t, s)
		p1 := s.AddPersonNode(c, domain.Employee{ID: "emp-0"}).Created[0]
		p2 := s.AddPersonNode(d, domain.Employee{ID: "emp-1"}).Created[0]
		before := s.Snapshot()

		res := s.DeleteNode(b)
		assert.True(t, res.Changed)
		assert.ElementsMatch(t, []string{b, c, p1}, res.Removed)

		after := s.Snapshot()
		assert.Equal(t, before.Len()-3, after.Len())
		for _, id := range []string{domain.PresidentNodeID, domain.CEONodeID, a, d, p2} {
			prev, _ := before.Get(id)
			cur, ok := after.Get(id)
			require.True(t, ok, id)
			assert.Equal(t, prev.ParentID, cur.ParentID)
		}
	})

	t.Run("leaf removes one node", func(t *testing.T) {
		s := newTestStore()
		a, _, c, d := buildChain(t, s)
		before := s.Snapshot()

		res := s.DeleteNode(c)
		assert.Equal(t, []string{c}, res.Removed)
		assert.Equal(t, before.Len()-1, s.Snapshot().Len())

		_, standard, _ := s.Snapshot().Children(domain.CEONodeID)
		require.Len(t, standard, 2)
		assert.Equal(t, a, standard[0].ID)
		assert.Equal(t, d, standard[1].ID)
	})

	t.Run("missing node", func(t *testing.T) {
		s := newTestStore()
		assert.False(t, s.DeleteNode("missing").Changed)
	})
}

func TestStats(t *testing.T) {
	s := newTestStore()
	levels := domain.LevelConfig(domain.DefaultLevels())

	for i := 0; i < 3; i++ {
		s.AddOrgNode(OrgSpec{ParentID: domain.CEONodeID, LevelIndex: intPtr(1)}, levels)
	}
	for i := 0; i < 2; i++ {
		s.AddOrgNode(OrgSpec{ParentID: domain.CEONodeID, LevelIndex: intPtr(2)}, levels)
	}
	s.AddOrgNode(OrgSpec{ParentID: domain.CEONodeID, IsException: true}, levels)
	emps := make([]domain.Employee, 10)
	for i := range emps {
		emps[i] = domain.Employee{ID: fmt.Sprintf("emp-%d", i), Name: "n"}
	}
	s.AddPersonNodes(domain.CEONodeID, emps)

	assert.Equal(t, domain.Stats{Division: 3, Group: 2, Team: 0, Person: 10}, s.Snapshot().Stats())
}

func TestStats_FreshPerSnapshot(t *testing.T) {
	s := newTestStore()
	levels := domain.LevelConfig(domain.DefaultLevels())
	first := s.Snapshot()
	assert.Equal(t, domain.Stats{}, first.Stats())

	s.AddOrgNode(OrgSpec{ParentID: domain.CEONodeID, LevelIndex: intPtr(3)}, levels)
	assert.Equal(t, 1, s.Snapshot().Stats().Team)
	assert.Equal(t, 0, first.Stats().Team)
}

func TestReset(t *testing.T) {
	rec := &countingRecorder{}
	s := newTestStore(WithRecorder(rec))
	a, b, c, d := buildChain(t, s)

	res := s.Reset()
	require.True(t, res.Changed)
	assert.ElementsMatch(t, []string{a, b, c, d}, res.Removed)
	assert.Equal(t, 2, s.Snapshot().Len())
	assert.Equal(t, 4, rec.deleted)

	res = s.Reset()
	assert.True(t, res.Changed)
	assert.Empty(t, res.Removed)
}

func TestRecorder(t *testing.T) {
	rec := &countingRecorder{}
	s := newTestStore(WithRecorder(rec))
	a, b, _, _ := buildChain(t, s)

	s.Reparent(a, b)
	s.DeleteNode(a)

	assert.Equal(t, 4, rec.created)
	assert.Equal(t, 3, rec.deleted)
	assert.Equal(t, []string{"reparent"}, rec.rejected)
}

func TestHierarchy(t *testing.T) {
	s := newTestStore()
	levels := domain.LevelConfig(domain.DefaultLevels())
	std := s.AddOrgNode(OrgSpec{ParentID: domain.CEONodeID, LevelIndex: intPtr(1)}, levels).Created[0]
	side := s.AddOrgNode(OrgSpec{ParentID: domain.CEONodeID, Layout: domain.LayoutSide, IsException: true}, levels).Created[0]
	s.AddPersonNode(std, domain.Employee{ID: "emp-0", Name: "Kim"})
	s.AddOrgNode(OrgSpec{ParentID: "dangling"}, levels)

	h := s.Snapshot().Hierarchy(levels)
	require.NotNil(t, h)
	assert.Equal(t, domain.PresidentNodeID, h.ID)
	assert.Equal(t, "TOP", h.Display.Name)

	require.Len(t, h.Standard, 1)
	ceo := h.Standard[0]
	assert.Equal(t, "부문", ceo.Display.Name)
	require.Len(t, ceo.Standard, 1)
	require.Len(t, ceo.Side, 1)
	assert.Equal(t, std, ceo.Standard[0].ID)
	assert.Equal(t, "그룹", ceo.Standard[0].Display.Name)
	assert.Equal(t, 1, ceo.Standard[0].Headcount)
	assert.Equal(t, side, ceo.Side[0].ID)
	assert.Equal(t, "EXC", ceo.Side[0].Display.Name)
}

func TestAncestors(t *testing.T) {
	s := newTestStore()
	a, b, c, _ := buildChain(t, s)

	chain := s.Snapshot().Ancestors(c)
	ids := make([]string, len(chain))
	for i, n := range chain {
		ids[i] = n.ID
	}
	assert.Equal(t, []string{b, a, domain.CEONodeID, domain.PresidentNodeID}, ids)
}
