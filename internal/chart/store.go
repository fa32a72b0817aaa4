package chart

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/locvowork/orgmaker/internal/domain"
)

// IDFunc generates a fresh node id for a node type.
type IDFunc func(t domain.NodeType) string

// UUIDs generates ids of the form "<type>-<uuid>", never repeating.
func UUIDs(t domain.NodeType) string {
	return fmt.Sprintf("%s-%s", t, uuid.NewString())
}

// Result reports what a mutation did. Changed is false for every refused
// operation; refusals are not errors.
type Result struct {
	Changed bool     `json:"changed"`
	Created []string `json:"created,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc overrides node id generation.
func WithIDFunc(fn IDFunc) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithRecorder reports mutation outcomes to r.
func WithRecorder(r domain.ChartRecorder) Option {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// Store publishes the current chart snapshot. Mutations are serialized;
// readers load the snapshot without locking.
type Store struct {
	mu         sync.Mutex
	current    atomic.Pointer[Tree]
	newID      IDFunc
	classifier domain.RoleClassifier
	recorder   domain.ChartRecorder
}

// NewStore starts from the bootstrap chart.
func NewStore(classifier domain.RoleClassifier, opts ...Option) *Store {
	s := &Store{
		newID:      UUIDs,
		classifier: classifier,
		recorder:   noopRecorder{},
	}
	for _, o := range opts {
		o(s)
	}
	s.current.Store(InitialTree())
	return s
}

// Snapshot returns the current tree.
func (s *Store) Snapshot() *Tree {
	return s.current.Load()
}

// AddOrgNode inserts an org node under parentID.
func (s *Store) AddOrgNode(spec OrgSpec, levels domain.LevelConfig) Result {
	return s.apply("add_org", func(t *Tree) (*Tree, Result) {
		id := s.newID(domain.NodeTypeOrg)
		next, ok := t.AddOrg(id, spec, levels)
		if !ok {
			return t, Result{}
		}
		return next, Result{Changed: true, Created: []string{id}}
	})
}

// AddPersonNode places emp under parentID, which must be an org node.
func (s *Store) AddPersonNode(parentID string, emp domain.Employee) Result {
	return s.AddPersonNodes(parentID, []domain.Employee{emp})
}

// AddPersonNodes places every employee under parentID in one snapshot.
func (s *Store) AddPersonNodes(parentID string, emps []domain.Employee) Result {
	return s.apply("add_person", func(t *Tree) (*Tree, Result) {
		if !t.IsOrg(parentID) {
			return t, Result{}
		}
		specs := make([]PersonSpec, len(emps))
		for i, e := range emps {
			specs[i] = PersonSpec{
				ID:       s.newID(domain.NodeTypePerson),
				Employee: e,
				Role:     s.classifier.Classify(e.Position),
			}
		}
		next, ids := t.AddPersons(parentID, specs)
		return next, Result{Changed: len(ids) > 0, Created: ids}
	})
}

// UpdateLabel renames a node.
func (s *Store) UpdateLabel(id, label string) Result {
	return s.apply("update_label", func(t *Tree) (*Tree, Result) {
		next, ok := t.UpdateLabel(id, label)
		return next, Result{Changed: ok}
	})
}

// Reparent moves nodeID under newParentID; refused moves leave the chart
// untouched.
func (s *Store) Reparent(nodeID, newParentID string) Result {
	return s.apply("reparent", func(t *Tree) (*Tree, Result) {
		next, ok := t.Reparent(nodeID, newParentID)
		return next, Result{Changed: ok}
	})
}

// DeleteNode removes id and its whole subtree.
func (s *Store) DeleteNode(id string) Result {
	return s.apply("delete", func(t *Tree) (*Tree, Result) {
		next, removed := t.Delete(id)
		return next, Result{Changed: len(removed) > 0, Removed: removed}
	})
}

// Reset discards every edit and returns to the bootstrap chart. Removed
// lists every node that is not part of the bootstrap chart.
func (s *Store) Reset() Result {
	return s.apply("reset", func(t *Tree) (*Tree, Result) {
		initial := InitialTree()
		var removed []string
		for _, n := range t.nodes {
			if !initial.Has(n.ID) {
				removed = append(removed, n.ID)
			}
		}
		return initial, Result{Changed: true, Removed: removed}
	})
}

func (s *Store) apply(op string, fn func(*Tree) (*Tree, Result)) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, res := fn(s.current.Load())
	if !res.Changed {
		s.recorder.MutationRejected(op)
		return res
	}
	s.current.Store(next)
	if len(res.Created) > 0 {
		s.recorder.NodesCreated(len(res.Created))
	}
	if len(res.Removed) > 0 {
		s.recorder.NodesDeleted(len(res.Removed))
	}
	return res
}

type noopRecorder struct{}

func (noopRecorder) NodesCreated(int) {}
func (noopRecorder) NodesDeleted(int) {}
func (noopRecorder) MutationRejected(string) {}
