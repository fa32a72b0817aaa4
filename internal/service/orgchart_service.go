package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/locvowork/orgmaker/internal/chart"
	"github.com/locvowork/orgmaker/internal/domain"
	"github.com/locvowork/orgmaker/internal/dragdrop"
	"github.com/locvowork/orgmaker/internal/logger"
	"github.com/locvowork/orgmaker/internal/pool"
)

var (
	ErrNoFeed          = errors.New("no employee feed configured")
	ErrUnknownEmployee = errors.New("unknown employee")
	ErrNodeNotFound    = errors.New("node not found")
	ErrLevelNotFound   = errors.New("level not found")
	ErrInvalidLevel    = errors.New("invalid level")
	// ErrSupersededRefresh is returned by a refresh whose result was
	// discarded because a newer refresh had started.
	ErrSupersededRefresh = errors.New("pool refresh superseded")
)

// PoolView is the pool as the employee list shows it.
type PoolView struct {
	Employees     []domain.Employee `json:"employees"`
	Selected      []string          `json:"selected"`
	SelectedCount int               `json:"selectedCount"`
	Total         int               `json:"total"`
	Loading       bool              `json:"loading"`
	LastError     string            `json:"lastError,omitempty"`
	LoadedAt      *time.Time        `json:"loadedAt,omitempty"`
}

// NodeDetail is one chart node with its path to the root and its direct
// children.
type NodeDetail struct {
	Node     domain.ChartNode   `json:"node"`
	Path     []domain.ChartNode `json:"path"`
	Children []string           `json:"children"`
}

// Option configures an OrgChartService.
type Option func(*OrgChartService)

// WithFeedRecorder reports every pool load to r.
func WithFeedRecorder(r domain.FeedRecorder) Option {
	return func(s *OrgChartService) {
		if r != nil {
			s.feedRecorder = r
		}
	}
}

// WithRefreshTimeout bounds background refreshes.
func WithRefreshTimeout(d time.Duration) Option {
	return func(s *OrgChartService) {
		s.refreshTimeout = d
	}
}

// OrgChartService is the application state: the employee pool with its
// selection, the chart store and the level table. Handlers share one
// instance.
type OrgChartService struct {
	mu     sync.RWMutex
	pool   *pool.Store
	chart  *chart.Store
	levels domain.LevelConfig
	feed   domain.EmployeeFeed

	feedRecorder   domain.FeedRecorder
	refreshTimeout time.Duration

	// refresh state, guarded by mu
	generation uint64
	loading    bool
	lastErr    error
	loadedAt   time.Time

	baseCtx context.Context
	wg      sync.WaitGroup
}

// NewOrgChartService builds the application state. feed may be nil, in
// which case the pool stays empty and refreshes fail with ErrNoFeed.
func NewOrgChartService(ctx context.Context, feed domain.EmployeeFeed, charts *chart.Store, levels domain.LevelConfig, opts ...Option) *OrgChartService {
	if len(levels) == 0 {
		levels = domain.DefaultLevels()
	}
	s := &OrgChartService{
		pool:           pool.NewStore(),
		chart:          charts,
		levels:         levels.Clone(),
		feed:           feed,
		feedRecorder:   noopFeedRecorder{},
		refreshTimeout: 30 * time.Second,
		baseCtx:        ctx,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ==================== Pool Operations ====================

// RefreshPool fetches the feed and replaces the pool. A fetch that
// completes after a newer refresh has started is discarded with
// ErrSupersededRefresh. On failure the previous pool is kept.
func (s *OrgChartService) RefreshPool(ctx context.Context) error {
	if s.feed == nil {
		return ErrNoFeed
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	s.mu.Unlock()

	rows, err := s.feed.Fetch(ctx)
	var employees []domain.Employee
	if err == nil {
		employees = pool.ParseRows(rows)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		logger.DebugLog(ctx, "Discarding pool refresh %d, newer refresh %d started", gen, s.generation)
		return ErrSupersededRefresh
	}
	s.loading = false
	s.feedRecorder.RecordFeedLoad(err, len(employees))

	if err != nil {
		s.lastErr = err
		logger.ErrorLog(ctx, "Failed to refresh employee pool: %v", err)
		return fmt.Errorf("refresh pool: %w", err)
	}

	s.pool.Replace(employees)
	s.lastErr = nil
	s.loadedAt = time.Now()
	logger.InfoLog(ctx, "Employee pool loaded: %d employees from %d rows", len(employees), len(rows))
	return nil
}

// RefreshPoolAsync starts a refresh in the background and returns at once.
// The pool view reports loading until the newest refresh completes.
func (s *OrgChartService) RefreshPoolAsync() error {
	if s.feed == nil {
		return ErrNoFeed
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(s.baseCtx, s.refreshTimeout)
		defer cancel()

		if err := s.RefreshPool(ctx); errors.Is(err, ErrSupersededRefresh) {
			logger.DebugLog(ctx, "Background refresh ended: %v", err)
		}
	}()
	return nil
}

// Wait blocks until background refreshes have finished.
func (s *OrgChartService) Wait() {
	s.wg.Wait()
}

// Pool returns the employees matching term together with the selection.
func (s *OrgChartService) Pool(term string) PoolView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := PoolView{
		Employees:     []domain.Employee{},
		Selected:      s.pool.SelectedIDs(),
		SelectedCount: s.pool.SelectionSize(),
		Total:         s.pool.Len(),
		Loading:       s.loading,
	}
	for e := range s.pool.Filter(term) {
		view.Employees = append(view.Employees, e)
	}
	if s.lastErr != nil {
		view.LastError = s.lastErr.Error()
	}
	if !s.loadedAt.IsZero() {
		loadedAt := s.loadedAt
		view.LoadedAt = &loadedAt
	}
	return view
}

// SelectEmployee marks id for batch insertion.
func (s *OrgChartService) SelectEmployee(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Select(id)
}

func (s *OrgChartService) DeselectEmployee(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Deselect(id)
}

// ToggleEmployee flips the selection of id and reports whether the
// employee is now selected.
func (s *OrgChartService) ToggleEmployee(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool.Toggle(id)
	return s.pool.IsSelected(id)
}

// SelectVisible selects exactly the employees the filter term shows.
func (s *OrgChartService) SelectVisible(term string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for e := range s.pool.Filter(term) {
		ids = append(ids, e.ID)
	}
	return s.pool.SelectAll(ids)
}

func (s *OrgChartService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool.ClearSelection()
}

// ==================== Chart Operations ====================

// Chart returns the current chart snapshot.
func (s *OrgChartService) Chart() *chart.Tree {
	return s.chart.Snapshot()
}

// Hierarchy returns the nested view of the current chart.
func (s *OrgChartService) Hierarchy() *chart.HierarchyNode {
	return s.chart.Snapshot().Hierarchy(s.Levels())
}

// Node looks up id in the current chart. Path runs from the parent up to
// the root and stops at a dangling parent.
func (s *OrgChartService) Node(id string) (NodeDetail, error) {
	tree := s.chart.Snapshot()
	n, ok := tree.Get(id)
	if !ok {
		return NodeDetail{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	path := tree.Ancestors(id)
	if path == nil {
		path = []domain.ChartNode{}
	}
	return NodeDetail{Node: n, Path: path, Children: tree.ChildIDs(id)}, nil
}

func (s *OrgChartService) Stats() domain.Stats {
	return s.chart.Snapshot().Stats()
}

func (s *OrgChartService) AddOrgNode(spec chart.OrgSpec) chart.Result {
	return s.chart.AddOrgNode(spec, s.Levels())
}

// AddPersonNode places a pool employee under parentID.
func (s *OrgChartService) AddPersonNode(parentID, employeeID string) (chart.Result, error) {
	s.mu.RLock()
	emp, ok := s.pool.Get(employeeID)
	s.mu.RUnlock()
	if !ok {
		return chart.Result{}, fmt.Errorf("%w: %s", ErrUnknownEmployee, employeeID)
	}
	return s.chart.AddPersonNode(parentID, emp), nil
}

// AddSelectedAsPersons places every selected employee under parentID. The
// selection is cleared even when nothing could be inserted.
func (s *OrgChartService) AddSelectedAsPersons(parentID string) chart.Result {
	s.mu.Lock()
	selected := s.pool.Selected()
	s.pool.ClearSelection()
	s.mu.Unlock()

	if len(selected) == 0 {
		return chart.Result{}
	}
	return s.chart.AddPersonNodes(parentID, selected)
}

func (s *OrgChartService) UpdateLabel(id, label string) chart.Result {
	return s.chart.UpdateLabel(id, label)
}

func (s *OrgChartService) Reparent(nodeID, newParentID string) chart.Result {
	return s.chart.Reparent(nodeID, newParentID)
}

func (s *OrgChartService) DeleteNode(id string) chart.Result {
	return s.chart.DeleteNode(id)
}

// Drop applies a drag payload onto targetID.
func (s *OrgChartService) Drop(p dragdrop.Payload, targetID string) (chart.Result, error) {
	return dragdrop.Drop(s.chart, p, targetID)
}

// ResetChart discards every chart edit. The pool and levels are kept.
func (s *OrgChartService) ResetChart() chart.Result {
	return s.chart.Reset()
}

// ==================== Level Operations ====================

// Levels returns a copy of the level table.
func (s *OrgChartService) Levels() domain.LevelConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.levels.Clone()
}

// UpdateLevel edits the level at index. Existing nodes keep their labels;
// colours follow the table on the next read.
func (s *OrgChartService) UpdateLevel(index int, name, color *string) (domain.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.levels) {
		return domain.Level{}, fmt.Errorf("%w: index %d", ErrLevelNotFound, index)
	}
	if name != nil && *name == "" {
		return domain.Level{}, fmt.Errorf("%w: empty name", ErrInvalidLevel)
	}

	next := s.levels.Clone()
	if name != nil {
		next[index].Name = *name
	}
	if color != nil {
		next[index].Color = *color
	}
	s.levels = next
	return next[index], nil
}

type noopFeedRecorder struct{}

func (noopFeedRecorder) RecordFeedLoad(error, int) {}
