// Package pool holds the employee pool loaded from the feed and the set of
// employees selected for batch placement.
package pool

import (
	"fmt"
	"iter"
	"strings"

	"github.com/locvowork/orgmaker/internal/domain"
)

// MinFields is the smallest row that still yields an employee.
const MinFields = 5

// Store is the employee pool plus selection. It is not safe for concurrent
// use; the application service serializes access.
type Store struct {
	// employees is replaced wholesale on Load and never mutated in place,
	// so views handed out by Filter stay valid.
	employees []domain.Employee
	index     map[string]int
	selected  map[string]struct{}
}

// NewStore returns an empty pool.
func NewStore() *Store {
	return &Store{
		index:    make(map[string]int),
		selected: make(map[string]struct{}),
	}
}

// ParseRows turns feed rows into employees. Rows with fewer than MinFields
// cells are dropped; ids are assigned sequentially over the kept rows.
func ParseRows(rows [][]string) []domain.Employee {
	out := make([]domain.Employee, 0, len(rows))
	for _, r := range rows {
		if len(r) < MinFields {
			continue
		}
		emp := domain.Employee{
			ID:       fmt.Sprintf("emp-%d", len(out)),
			No:       strings.TrimSpace(r[0]),
			Division: strings.TrimSpace(r[1]),
			Group:    strings.TrimSpace(r[2]),
			Team:     strings.TrimSpace(r[3]),
			Name:     strings.TrimSpace(r[4]),
		}
		if len(r) > 5 {
			emp.Position = strings.TrimSpace(r[5])
		}
		out = append(out, emp)
	}
	return out
}

// Load parses rows and replaces the whole pool. Selected ids that no longer
// exist are dropped. It returns the new pool size.
func (s *Store) Load(rows [][]string) int {
	s.Replace(ParseRows(rows))
	return len(s.employees)
}

// Replace swaps in an already parsed pool.
func (s *Store) Replace(employees []domain.Employee) {
	index := make(map[string]int, len(employees))
	for i, e := range employees {
		index[e.ID] = i
	}
	s.employees = employees
	s.index = index

	for id := range s.selected {
		if _, ok := index[id]; !ok {
			delete(s.selected, id)
		}
	}
}

// Len returns the pool size.
func (s *Store) Len() int {
	return len(s.employees)
}

// Get looks up an employee by id.
func (s *Store) Get(id string) (domain.Employee, bool) {
	i, ok := s.index[id]
	if !ok {
		return domain.Employee{}, false
	}
	return s.employees[i], true
}

// Filter returns a view of the employees whose name, division, team or
// position contains term, ignoring case. The view is re-evaluated against
// the pool captured at call time every time it is ranged over.
func (s *Store) Filter(term string) iter.Seq[domain.Employee] {
	employees := s.employees
	lower := strings.ToLower(term)
	return func(yield func(domain.Employee) bool) {
		for _, e := range employees {
			if !Matches(e, lower) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Matches reports whether e matches an already lower-cased term.
func Matches(e domain.Employee, lowerTerm string) bool {
	if lowerTerm == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Name), lowerTerm) ||
		strings.Contains(strings.ToLower(e.Division), lowerTerm) ||
		strings.Contains(strings.ToLower(e.Team), lowerTerm) ||
		strings.Contains(strings.ToLower(e.Position), lowerTerm)
}

// Select marks id for batch insertion. Unknown ids are ignored.
func (s *Store) Select(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	s.selected[id] = struct{}{}
	return true
}

// Deselect unmarks id.
func (s *Store) Deselect(id string) bool {
	if _, ok := s.selected[id]; !ok {
		return false
	}
	delete(s.selected, id)
	return true
}

// Toggle flips the selection state of id.
func (s *Store) Toggle(id string) bool {
	if s.IsSelected(id) {
		return s.Deselect(id)
	}
	return s.Select(id)
}

// SelectAll replaces the selection with the known ids among visibleIDs.
func (s *Store) SelectAll(visibleIDs []string) int {
	next := make(map[string]struct{}, len(visibleIDs))
	for _, id := range visibleIDs {
		if _, ok := s.index[id]; ok {
			next[id] = struct{}{}
		}
	}
	s.selected = next
	return len(next)
}

// ClearSelection empties the selection.
func (s *Store) ClearSelection() {
	s.selected = make(map[string]struct{})
}

// IsSelected reports whether id is selected.
func (s *Store) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// SelectionSize returns the number of selected employees.
func (s *Store) SelectionSize() int {
	return len(s.selected)
}

// Selected returns the selected employees in pool order.
func (s *Store) Selected() []domain.Employee {
	out := make([]domain.Employee, 0, len(s.selected))
	for _, e := range s.employees {
		if _, ok := s.selected[e.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// SelectedIDs returns the selected ids in pool order.
func (s *Store) SelectedIDs() []string {
	selected := s.Selected()
	ids := make([]string, len(selected))
	for i, e := range selected {
		ids[i] = e.ID
	}
	return ids
}
