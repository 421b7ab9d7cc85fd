package filter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/campusplanner/planner/internal/conflict"
	"github.com/campusplanner/planner/internal/logging"
	"github.com/campusplanner/planner/internal/model"
)

// SearchTextID is the id of the search-text rule, which the service
// applies ahead of all other active filters.
const SearchTextID = "searchText"

// Storage persists serialized filter state under a single key. The
// SQLite store implements it; the service never touches storage
// directly beyond this interface.
type Storage interface {
	SaveFilterState(data []byte) error
	LoadFilterState() ([]byte, bool, error)
}

// SelectionProvider supplies the user's current selections for rules
// that need them (availability, sectionStatus).
type SelectionProvider func() []model.SelectedCourse

// Service owns the rule registry and the active filter state, and
// composes them into course filtering.
//
// Validation failures are logged and surfaced as a false return, never
// an error or panic: a filter that cannot be activated simply is not.
type Service struct {
	state      *State
	rules      map[string]Rule
	detector   *conflict.Detector
	selections SelectionProvider
	storage    Storage
}

// NewService creates a Service. detector and selections feed the
// Context handed to rules; storage may be nil when persistence is not
// wired (tests).
func NewService(detector *conflict.Detector, selections SelectionProvider, storage Storage) *Service {
	if selections == nil {
		selections = func() []model.SelectedCourse { return nil }
	}
	return &Service{
		state:      NewState(),
		rules:      make(map[string]Rule),
		detector:   detector,
		selections: selections,
		storage:    storage,
	}
}

// RegisterFilter adds a rule to the registry, replacing any rule with
// the same id.
func (s *Service) RegisterFilter(rule Rule) {
	s.rules[rule.ID()] = rule
}

// UnregisterFilter removes a rule, deactivating it if active.
func (s *Service) UnregisterFilter(id string) bool {
	if _, ok := s.rules[id]; !ok {
		return false
	}
	delete(s.rules, id)
	s.state.RemoveFilter(id)
	return true
}

// RegisteredFilter returns the rule for id, or nil.
func (s *Service) RegisteredFilter(id string) Rule { return s.rules[id] }

// AvailableFilters lists every registered rule, sorted by id for
// stable UI ordering.
func (s *Service) AvailableFilters() []Rule {
	out := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// AddFilter activates a filter after validating criteria through the
// rule's own type-guard. Returns false (and logs) for unknown ids or
// invalid criteria.
func (s *Service) AddFilter(id string, criteria any) bool {
	rule, ok := s.rules[id]
	if !ok {
		logging.Error("filter not registered", "id", id)
		return false
	}
	if !rule.ValidCriteria(criteria) {
		logging.Error("invalid filter criteria", "id", id)
		return false
	}
	s.state.AddFilter(id, rule.Name(), criteria, rule.DisplayValue(criteria))
	return true
}

// UpdateFilter replaces criteria for an active filter; false when the
// rule is unknown, criteria invalid, or the filter inactive.
func (s *Service) UpdateFilter(id string, criteria any) bool {
	rule, ok := s.rules[id]
	if !ok || !rule.ValidCriteria(criteria) {
		return false
	}
	return s.state.UpdateFilter(id, criteria, rule.DisplayValue(criteria))
}

// RemoveFilter deactivates a filter.
func (s *Service) RemoveFilter(id string) bool { return s.state.RemoveFilter(id) }

// ClearFilters deactivates everything.
func (s *Service) ClearFilters() { s.state.ClearFilters() }

// ToggleFilter removes the filter if active, otherwise adds it.
func (s *Service) ToggleFilter(id string, criteria any) bool {
	if s.state.HasFilter(id) {
		return s.state.RemoveFilter(id)
	}
	return s.AddFilter(id, criteria)
}

// HasFilter reports whether id is active.
func (s *Service) HasFilter(id string) bool { return s.state.HasFilter(id) }

// ActiveFilters returns the active set in insertion order.
func (s *Service) ActiveFilters() []ActiveFilter { return s.state.ActiveFilters() }

// FilterCount returns the number of active filters.
func (s *Service) FilterCount() int { return s.state.Count() }

// IsEmpty reports whether no filters are active.
func (s *Service) IsEmpty() bool { return s.state.IsEmpty() }

// AddListener registers a state change listener.
func (s *Service) AddListener(l Listener) { s.state.AddListener(l) }

// FilterCourses applies the active filters to courses by sequential
// narrowing. With no active filters the input is returned unchanged.
// The search-text filter, if active, runs first; the rest apply in
// activation order.
func (s *Service) FilterCourses(courses []model.Course) []model.Course {
	if s.state.IsEmpty() {
		return courses
	}

	active := s.state.ActiveFilters()
	fctx := s.newContext(active)

	filtered := courses
	if st := s.state.Filter(SearchTextID); st != nil {
		if rule := s.rules[SearchTextID]; rule != nil {
			filtered = rule.Apply(filtered, st.Criteria, fctx)
		}
	}
	for _, af := range active {
		if af.ID == SearchTextID {
			continue
		}
		rule, ok := s.rules[af.ID]
		if !ok {
			continue
		}
		filtered = rule.Apply(filtered, af.Criteria, fctx)
	}
	return filtered
}

// FilterSections narrows one course's sections through the active
// section- and period-grain rules, in activation order. Period rules
// narrow each section's periods; a section left with no periods is
// dropped. The view layer uses this below course granularity.
func (s *Service) FilterSections(sections []model.Section) []model.Section {
	active := s.state.ActiveFilters()
	var fctx *Context
	for _, af := range active {
		rule, ok := s.rules[af.ID]
		if !ok {
			continue
		}
		if cr, ok := rule.(ContextSectionRule); ok {
			if fctx == nil {
				fctx = s.newContext(active)
			}
			sections = cr.ApplyToSectionsWithContext(sections, af.Criteria, fctx)
			continue
		}
		if sr, ok := rule.(SectionRule); ok {
			sections = sr.ApplyToSections(sections, af.Criteria)
			continue
		}
		pr, ok := rule.(PeriodRule)
		if !ok {
			continue
		}
		kept := make([]model.Section, 0, len(sections))
		for i := range sections {
			periods := pr.ApplyToPeriods(sections[i].Periods, af.Criteria)
			if len(periods) == 0 && len(sections[i].Periods) > 0 {
				continue
			}
			sec := sections[i]
			sec.Periods = periods
			kept = append(kept, sec)
		}
		sections = kept
	}
	return sections
}

// NarrowSections returns display copies of courses with each course's
// sections run through FilterSections. Course membership is untouched;
// only what shows beneath each course narrows.
func (s *Service) NarrowSections(courses []model.Course) []model.Course {
	if s.state.IsEmpty() {
		return courses
	}
	out := make([]model.Course, len(courses))
	copy(out, courses)
	for i := range out {
		out[i].Sections = s.FilterSections(out[i].Sections)
	}
	return out
}

// FilterSelectedCourses narrows the plan list through the active
// selection-grain rules (sectionStatus, requiredStatus).
func (s *Service) FilterSelectedCourses(selected []model.SelectedCourse) []model.SelectedCourse {
	for _, af := range s.state.ActiveFilters() {
		rule, ok := s.rules[af.ID].(SelectedCourseRule)
		if !ok {
			continue
		}
		selected = rule.ApplyToSelectedCourses(selected, af.Criteria)
	}
	return selected
}

// SearchAndFilter upserts (or removes, for a blank query) the
// search-text filter and runs the full pipeline.
func (s *Service) SearchAndFilter(query string, courses []model.Course) []model.Course {
	query = strings.TrimSpace(query)
	if query != "" {
		s.AddFilter(SearchTextID, SearchTextCriteria{Query: query})
	} else {
		s.RemoveFilter(SearchTextID)
	}
	return s.FilterCourses(courses)
}

// SearchTextCriteria is defined here rather than in the rules package
// so SearchAndFilter can build it without an import cycle.
type SearchTextCriteria struct {
	Query string `json:"query"`
}

func (s *Service) newContext(active []ActiveFilter) *Context {
	return &Context{
		SelectedCourses: s.selections(),
		ActiveFilters:   active,
		Detector:        s.detector,
	}
}

// FilterSummary renders a one-line description of the active set for
// headers.
func (s *Service) FilterSummary() string {
	active := s.state.ActiveFilters()
	switch len(active) {
	case 0:
		return "No filters active"
	case 1:
		return "1 filter: " + active[0].DisplayValue
	default:
		return fmt.Sprintf("%d filters active", len(active))
	}
}

// FilterOptions derives the distinct values used to populate pickers.
// It always scans the full course list, never filtered results, so
// pickers show the complete option universe.
func (s *Service) FilterOptions(filterID string, allCourses []model.Course) []string {
	switch filterID {
	case "department":
		return departmentOptions(allCourses)
	case "professor":
		return professorOptions(allCourses)
	case "term", "periodTerm":
		return termOptions(allCourses)
	case "location", "periodLocation":
		return buildingOptions(allCourses)
	default:
		return nil
	}
}

func departmentOptions(courses []model.Course) []string {
	seen := make(map[string]bool)
	for _, c := range courses {
		if c.Department != nil {
			seen[c.Department.Abbreviation] = true
		}
	}
	return sortedKeys(seen)
}

func professorOptions(courses []model.Course) []string {
	seen := make(map[string]bool)
	for _, c := range courses {
		for _, sec := range c.Sections {
			for _, p := range sec.Periods {
				if p.Professor != "" {
					seen[p.Professor] = true
				}
			}
		}
	}
	return sortedKeys(seen)
}

func termOptions(courses []model.Course) []string {
	seen := make(map[string]bool)
	for _, c := range courses {
		for _, sec := range c.Sections {
			if sec.ComputedTerm != "" {
				seen[sec.ComputedTerm] = true
			}
		}
	}
	return sortedKeys(seen)
}

func buildingOptions(courses []model.Course) []string {
	seen := make(map[string]bool)
	for _, c := range courses {
		for _, sec := range c.Sections {
			for _, p := range sec.Periods {
				if p.Building != "" {
					seen[p.Building] = true
				}
			}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SaveFiltersToStorage persists the active set, excluding transient
// filters, through the configured Storage.
func (s *Service) SaveFiltersToStorage() error {
	if s.storage == nil {
		return nil
	}
	data, err := s.state.Serialize(SearchTextID, "department")
	if err != nil {
		return err
	}
	return s.storage.SaveFilterState(data)
}

// LoadFiltersFromStorage restores persisted filter state, re-decoding
// each entry's criteria through its rule and dropping entries whose
// rule is unknown or whose criteria no longer validate.
func (s *Service) LoadFiltersFromStorage() bool {
	if s.storage == nil {
		return false
	}
	data, ok, err := s.storage.LoadFilterState()
	if err != nil {
		logging.Error("load filter state", "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := s.state.Deserialize(data); err != nil {
		logging.Error("corrupt filter state discarded", "error", err)
		return false
	}

	// Re-hydrate raw criteria into their typed forms.
	for _, af := range s.state.ActiveFilters() {
		raw, isRaw := af.Criteria.(json.RawMessage)
		if !isRaw {
			continue
		}
		rule, registered := s.rules[af.ID]
		if !registered {
			s.state.RemoveFilter(af.ID)
			continue
		}
		criteria, err := rule.DecodeCriteria(raw)
		if err != nil || !rule.ValidCriteria(criteria) {
			logging.Warn("dropping stale filter", "id", af.ID, "error", err)
			s.state.RemoveFilter(af.ID)
			continue
		}
		s.state.UpdateFilter(af.ID, criteria, rule.DisplayValue(criteria))
	}
	return true
}
