// Package selection tracks the courses the user has added to their
// plan and which section, if any, they chose in each.
package selection

import (
	"sync"

	"github.com/campusplanner/planner/internal/logging"
	"github.com/campusplanner/planner/internal/model"
)

// Storage persists the selection list across sessions.
type Storage interface {
	SaveSelections(selected []StoredSelection) error
	LoadSelections() ([]StoredSelection, error)
}

// StoredSelection is the persisted shape of one selection: ids only,
// re-resolved against the loaded catalog.
type StoredSelection struct {
	CourseID      string `json:"courseId"`
	SectionNumber string `json:"sectionNumber,omitempty"`
	Required      bool   `json:"required"`
}

// Listener receives the full selection list after every change.
type Listener func(selected []model.SelectedCourse)

// Service is the selection list. Ordered by insertion, one entry per
// course id. Safe for concurrent use.
type Service struct {
	mu        sync.Mutex
	order     []string
	selected  map[string]*model.SelectedCourse
	storage   Storage
	listeners []Listener
}

func NewService(storage Storage) *Service {
	return &Service{
		selected: make(map[string]*model.SelectedCourse),
		storage:  storage,
	}
}

// Select adds course to the plan. Selecting an already-selected course
// updates its required flag only.
func (s *Service) Select(course *model.Course, required bool) {
	if course == nil {
		return
	}
	s.mu.Lock()
	if sc, ok := s.selected[course.ID]; ok {
		sc.Required = required
	} else {
		s.selected[course.ID] = &model.SelectedCourse{Course: course, Required: required}
		s.order = append(s.order, course.ID)
	}
	s.mu.Unlock()
	s.changed()
}

// Unselect removes the course from the plan.
func (s *Service) Unselect(courseID string) {
	s.mu.Lock()
	if _, ok := s.selected[courseID]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.selected, courseID)
	for i, id := range s.order {
		if id == courseID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.changed()
}

// Toggle selects or unselects course and reports the new state.
func (s *Service) Toggle(course *model.Course, required bool) bool {
	if course == nil {
		return false
	}
	if s.Selected(course.ID) {
		s.Unselect(course.ID)
		return false
	}
	s.Select(course, required)
	return true
}

// SetSection records the chosen section number for a selected course.
// An empty number clears the choice. The section pointer resolves
// lazily on first use.
func (s *Service) SetSection(courseID, sectionNumber string) {
	s.mu.Lock()
	sc, ok := s.selected[courseID]
	if !ok {
		s.mu.Unlock()
		logging.Warn("set section on unselected course", "course", courseID)
		return
	}
	sc.SectionNumber = sectionNumber
	sc.Section = nil
	s.mu.Unlock()
	s.changed()
}

// Section returns the chosen section number for a course, empty when
// none is chosen or the course is not selected.
func (s *Service) Section(courseID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc, ok := s.selected[courseID]; ok {
		return sc.SectionNumber
	}
	return ""
}

// Selected reports whether the course is in the plan.
func (s *Service) Selected(courseID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[courseID]
	return ok
}

// CourseSelected satisfies the renderer's selection check.
func (s *Service) CourseSelected(course *model.Course) bool {
	if course == nil {
		return false
	}
	return s.Selected(course.ID)
}

// All returns the selection list in insertion order. The returned
// slice is a copy; entries share the underlying courses.
func (s *Service) All() []model.SelectedCourse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Count returns the number of selected courses.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Clear empties the plan.
func (s *Service) Clear() {
	s.mu.Lock()
	s.order = nil
	s.selected = make(map[string]*model.SelectedCourse)
	s.mu.Unlock()
	s.changed()
}

// OnChange registers a listener called after every mutation.
func (s *Service) OnChange(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Save persists the current selection list through storage.
func (s *Service) Save() error {
	if s.storage == nil {
		return nil
	}
	s.mu.Lock()
	stored := make([]StoredSelection, 0, len(s.order))
	for _, id := range s.order {
		sc := s.selected[id]
		stored = append(stored, StoredSelection{
			CourseID:      id,
			SectionNumber: sc.SectionNumber,
			Required:      sc.Required,
		})
	}
	s.mu.Unlock()
	return s.storage.SaveSelections(stored)
}

// Load restores persisted selections, resolving course ids against the
// catalog. Entries whose course no longer exists are dropped.
func (s *Service) Load(catalog *model.Catalog) error {
	if s.storage == nil || catalog == nil {
		return nil
	}
	stored, err := s.storage.LoadSelections()
	if err != nil {
		return err
	}
	courses := make(map[string]*model.Course)
	for _, dept := range catalog.Departments {
		for ci := range dept.Courses {
			courses[dept.Courses[ci].ID] = &dept.Courses[ci]
		}
	}

	s.mu.Lock()
	s.order = nil
	s.selected = make(map[string]*model.SelectedCourse, len(stored))
	for _, entry := range stored {
		course, ok := courses[entry.CourseID]
		if !ok {
			logging.Warn("dropping stale selection", "course", entry.CourseID)
			continue
		}
		s.selected[entry.CourseID] = &model.SelectedCourse{
			Course:        course,
			SectionNumber: entry.SectionNumber,
			Required:      entry.Required,
		}
		s.order = append(s.order, entry.CourseID)
	}
	s.mu.Unlock()
	s.changed()
	return nil
}

func (s *Service) snapshotLocked() []model.SelectedCourse {
	out := make([]model.SelectedCourse, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.selected[id])
	}
	return out
}

func (s *Service) changed() {
	s.mu.Lock()
	snapshot := s.snapshotLocked()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(snapshot)
	}
}
