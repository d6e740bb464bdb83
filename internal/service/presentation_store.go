package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/events"
	apperrors "github.com/spec-kit/staff-directory/pkg/util"
)

// PresentationStore holds the full record set and the view state, and
// derives the displayed records from them on every read.
type PresentationStore struct {
	mu       sync.Mutex
	records  []domain.StaffRecord
	state    domain.ViewState
	collator *collate.Collator
}

// NewPresentationStore builds a store that orders text by the given BCP 47
// locale, falling back to English when it cannot be parsed.
func NewPresentationStore(locale string) *PresentationStore {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &PresentationStore{
		state:    domain.DefaultViewState(),
		collator: collate.New(tag),
	}
}

// Subscribe replaces the record set whenever a load cycle completes.
func (s *PresentationStore) Subscribe(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventDirectoryRefreshed, func(_ context.Context, ev events.Event) error {
		payload, ok := ev.Payload.(events.DirectoryRefreshedPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T", ev.Payload)
		}
		s.SetRecords(payload.Records)
		return nil
	})
}

// SetRecords replaces the full record set.
func (s *PresentationStore) SetRecords(records []domain.StaffRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = domain.CloneRecords(records)
}

// VisibleRecords derives the displayed records from the current state.
func (s *PresentationStore) VisibleRecords() []domain.StaffRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.derive(s.state.ViewQuery)
}

// Derive applies an explicit query to the full record set without touching
// the stored view state.
func (s *PresentationStore) Derive(query domain.ViewQuery) []domain.StaffRecord {
	if !query.SortField.Valid() {
		query.SortField = domain.SortFieldName
	}
	if query.SortDirection != domain.SortDescending {
		query.SortDirection = domain.SortAscending
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.derive(query)
}

type sortable struct {
	rec domain.StaffRecord
	key string
}

// derive filters by search term, then department, then stable-sorts by the
// lower-cased sort key. Callers hold s.mu; the collator is not safe for
// concurrent use.
func (s *PresentationStore) derive(query domain.ViewQuery) []domain.StaffRecord {
	term := strings.ToLower(query.SearchTerm)

	items := make([]sortable, 0, len(s.records))
	for _, rec := range s.records {
		if term != "" && !matchesSearch(rec, term) {
			continue
		}
		if query.DepartmentFilter != "" && rec.Department != query.DepartmentFilter {
			continue
		}
		items = append(items, sortable{rec: rec, key: strings.ToLower(rec.SortKey(query.SortField))})
	}

	descending := query.SortDirection == domain.SortDescending
	slices.SortStableFunc(items, func(a, b sortable) int {
		c := s.collator.CompareString(a.key, b.key)
		if descending {
			return -c
		}
		return c
	})

	out := make([]domain.StaffRecord, len(items))
	for i, item := range items {
		out[i] = item.rec
	}
	return out
}

func matchesSearch(rec domain.StaffRecord, lowerTerm string) bool {
	for _, field := range rec.SearchableFields() {
		if strings.Contains(strings.ToLower(field), lowerTerm) {
			return true
		}
	}
	return false
}

// ViewState returns a copy of the current view state.
func (s *PresentationStore) ViewState() domain.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyState()
}

// ViewSnapshot is the view state with everything derived from it, read at
// one instant.
type ViewSnapshot struct {
	State    domain.ViewState
	Visible  []domain.StaffRecord
	Selected *domain.StaffRecord
}

// Snapshot reads the state, the visible records and the selected record
// under one lock so they always agree.
func (s *PresentationStore) Snapshot() ViewSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := ViewSnapshot{
		State:   s.copyState(),
		Visible: s.derive(s.state.ViewQuery),
	}
	if s.state.SelectedID != nil {
		if rec, ok := s.find(*s.state.SelectedID); ok {
			snap.Selected = &rec
		}
	}
	return snap
}

func (s *PresentationStore) copyState() domain.ViewState {
	state := s.state
	if state.SelectedID != nil {
		id := *state.SelectedID
		state.SelectedID = &id
	}
	return state
}

// SetSearchTerm updates the search term and clears the selection.
func (s *PresentationStore) SetSearchTerm(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SearchTerm = value
	s.state.SelectedID = nil
}

// SetSort toggles the direction when field is already the sort field,
// otherwise switches to field ascending. The selection is cleared.
func (s *PresentationStore) SetSort(field domain.SortField) error {
	if !field.Valid() {
		return apperrors.NewValidationError("invalid sort field", map[string]any{"field": field})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SortField == field {
		s.state.SortDirection = s.state.SortDirection.Toggle()
	} else {
		s.state.SortField = field
		s.state.SortDirection = domain.SortAscending
	}
	s.state.SelectedID = nil
	return nil
}

// SetDepartmentFilter updates the department filter only; the selection is
// left alone.
func (s *PresentationStore) SetDepartmentFilter(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.DepartmentFilter = value
}

// Reset restores the default view.
func (s *PresentationStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.DefaultViewState()
}

// Select marks a record as the detail-view target.
func (s *PresentationStore) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.find(id); !ok {
		return apperrors.NewNotFound("staff record", map[string]any{"id": id})
	}
	s.state.SelectedID = &id
	return nil
}

// ClearSelection drops the detail-view target.
func (s *PresentationStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedID = nil
}

// Selected returns the selected record while it is still in the set.
func (s *PresentationStore) Selected() (domain.StaffRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SelectedID == nil {
		return domain.StaffRecord{}, false
	}
	return s.find(*s.state.SelectedID)
}

// Record looks up one record of the full set by id.
func (s *PresentationStore) Record(id string) (domain.StaffRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(id)
}

func (s *PresentationStore) find(id string) (domain.StaffRecord, bool) {
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return domain.StaffRecord{}, false
}

// Departments lists the distinct non-empty departments in first-seen order.
func (s *PresentationStore) Departments() []domain.Department {
	s.mu.Lock()
	defer s.mu.Unlock()
	index := map[string]int{}
	var out []domain.Department
	for _, rec := range s.records {
		if rec.Department == "" {
			continue
		}
		if i, ok := index[rec.Department]; ok {
			out[i].StaffCount++
			continue
		}
		index[rec.Department] = len(out)
		out = append(out, domain.Department{Name: rec.Department, StaffCount: 1})
	}
	return out
}

// RecordCount reports the size of the full set.
func (s *PresentationStore) RecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
