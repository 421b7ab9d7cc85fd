package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/campusplanner/planner/internal/conflict"
	"github.com/campusplanner/planner/internal/controller"
	"github.com/campusplanner/planner/internal/filter"
	"github.com/campusplanner/planner/internal/filter/rules"
	"github.com/campusplanner/planner/internal/model"
	"github.com/campusplanner/planner/internal/selection"
)

// App is the root Bubble Tea model.
// App does NOT run filters itself: it sends intents to the controller
// and receives rendered output via ViewEvent messages.
type App struct {
	ctrl      *controller.Controller
	filters   *filter.Service
	selection *selection.Service
	detector  *conflict.Detector

	loadCatalog func() tea.Cmd

	search   textinput.Model
	list     viewport.Model
	content  *strings.Builder
	courses  []model.Course
	cursor   int
	mode     controller.ViewMode
	matched  int
	total    int
	selected []model.SelectedCourse
	conflict []model.Conflict

	termIdx int
	deptIdx int

	err       error
	width     int
	height    int
	ready     bool
	loading   bool
	searching bool
}

// NewApp creates the root model. loadCatalog returns a Cmd that loads
// the course feed and resolves to a CatalogLoaded message.
func NewApp(ctrl *controller.Controller, filters *filter.Service, sel *selection.Service, detector *conflict.Detector, loadCatalog func() tea.Cmd) App {
	search := textinput.New()
	search.Placeholder = "search courses"
	search.Prompt = ""
	search.CharLimit = 80

	return App{
		ctrl:        ctrl,
		filters:     filters,
		selection:   sel,
		detector:    detector,
		loadCatalog: loadCatalog,
		search:      search,
		content:     &strings.Builder{},
		loading:     true,
	}
}

// Init loads the catalog and starts consuming controller events.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.loadCatalog(), a.nextEvent())
}

// nextEvent blocks on the controller's event stream.
func (a App) nextEvent() tea.Cmd {
	events := a.ctrl.Events()
	return func() tea.Msg {
		return ViewEvent{Event: <-events}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.list = viewport.New(msg.Width, a.contentHeight())
		a.list.SetContent(a.content.String())
		a.ready = true
		return a, nil

	case CatalogLoaded:
		a.loading = false
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.err = nil
		a.ctrl.SetCourses(msg.Catalog.AllCourses())
		return a, nil

	case ViewEvent:
		a.applyEvent(msg.Event)
		return a, a.nextEvent()

	case SelectionChanged:
		a.selected = msg.Selected
		a.conflict = msg.Conflicts
		// Availability depends on the selection set; re-run if active.
		if a.availabilityActive() {
			a.ctrl.Apply()
		}
		return a, nil

	case FiltersSaved:
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, nil
	}

	if a.searching {
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) applyEvent(ev controller.Event) {
	switch ev.Type {
	case controller.EventReset:
		a.content.Reset()
	case controller.EventAppend:
		a.content.WriteString(ev.Text)
		if a.ready {
			a.list.SetContent(a.content.String())
		}
	case controller.EventDone:
		a.courses = ev.Courses
		if a.cursor >= len(a.courses) && len(a.courses) > 0 {
			a.cursor = len(a.courses) - 1
		}
		if a.ready {
			a.list.SetContent(a.content.String())
		}
	}
	a.matched = ev.Matched
	a.total = ev.Total
}

func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.err != nil {
		a.err = nil
	}

	if a.searching {
		switch msg.String() {
		case "esc":
			a.searching = false
			a.search.Blur()
			return a, nil
		case "enter":
			a.searching = false
			a.search.Blur()
			a.ctrl.Search(a.search.Value())
			return a, nil
		}
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		a.ctrl.Search(a.search.Value())
		return a, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		a.ctrl.Cancel()
		return a, tea.Quit

	case "/":
		a.searching = true
		a.search.Focus()
		return a, textinput.Blink

	case "j", "down":
		if a.cursor < len(a.courses)-1 {
			a.cursor++
			a.list.SetYOffset(a.list.YOffset + 1)
		}
		return a, nil

	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
			a.list.SetYOffset(a.list.YOffset - 1)
		}
		return a, nil

	case "g", "home":
		a.cursor = 0
		a.list.GotoTop()
		return a, nil

	case "G", "end":
		if len(a.courses) > 0 {
			a.cursor = len(a.courses) - 1
		}
		a.list.GotoBottom()
		return a, nil

	case "enter", " ":
		return a, a.toggleSelection()

	case "a":
		a.toggleAvailability()
		return a, nil

	case "v":
		if a.mode == controller.ViewList {
			a.mode = controller.ViewGrid
		} else {
			a.mode = controller.ViewList
		}
		a.ctrl.SetViewMode(a.mode)
		a.ctrl.Apply()
		return a, nil

	case "t":
		a.cyclePicker("term", &a.termIdx)
		return a, nil

	case "d":
		a.cyclePicker("department", &a.deptIdx)
		return a, nil

	case "x":
		a.filters.ClearFilters()
		a.termIdx, a.deptIdx = 0, 0
		a.ctrl.Apply()
		return a, nil

	case "s":
		return a, a.saveFilters()
	}

	return a, nil
}

func (a *App) toggleSelection() tea.Cmd {
	if a.cursor >= len(a.courses) {
		return nil
	}
	course := &a.courses[a.cursor]
	a.selection.Toggle(course, false)
	sel := a.selection.All()

	// Conflicts among the chosen sections, recomputed on every change.
	var sections []*model.Section
	for i := range sel {
		if sec := sel[i].ResolveSection(); sec != nil {
			sections = append(sections, sec)
		}
	}
	conflicts := a.detector.DetectConflicts(sections)

	return func() tea.Msg {
		return SelectionChanged{Selected: sel, Conflicts: conflicts}
	}
}

func (a *App) toggleAvailability() {
	const id = "availability"
	if a.availabilityActive() {
		a.filters.RemoveFilter(id)
	} else {
		a.filters.AddFilter(id, rules.AvailabilityCriteria{AvailableOnly: true})
	}
	a.ctrl.Apply()
}

// cyclePicker steps a picker filter through the values FilterOptions
// derives from the full catalog, one per keypress, then back to off.
func (a *App) cyclePicker(id string, idx *int) {
	opts := a.filters.FilterOptions(id, a.ctrl.Courses())
	if len(opts) == 0 {
		return
	}
	if *idx >= len(opts) {
		a.filters.RemoveFilter(id)
		*idx = 0
	} else {
		switch id {
		case "term":
			a.filters.AddFilter(id, rules.TermCriteria{Terms: []string{opts[*idx]}})
		case "department":
			a.filters.AddFilter(id, rules.DepartmentCriteria{Departments: []string{opts[*idx]}})
		}
		*idx++
	}
	a.ctrl.Apply()
}

func (a *App) availabilityActive() bool {
	return a.filters.HasFilter("availability")
}

func (a *App) saveFilters() tea.Cmd {
	filters := a.filters
	return func() tea.Msg {
		return FiltersSaved{Err: filters.SaveFiltersToStorage()}
	}
}

func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	searchBar := a.renderSearchBar()
	badges := a.renderFilterBadges()
	planPanel := a.renderPlan()

	errorBar := ""
	if a.err != nil {
		errorBar = ErrorStyle.Width(a.width).Render("Error: "+a.err.Error()+" (press any key to dismiss)") + "\n"
	}

	statusBar := a.renderStatusBar()

	a.list.Height = a.contentHeight() - strings.Count(badges+planPanel+errorBar, "\n")
	return searchBar + "\n" + badges + a.list.View() + "\n" + planPanel + errorBar + statusBar
}

func (a App) contentHeight() int {
	// Search bar, badge row, status bar.
	h := a.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (a App) renderSearchBar() string {
	prompt := SearchPrompt.Render("/")
	if a.searching {
		return SearchBar.Width(a.width).Render(prompt + " " + a.search.View())
	}
	query := a.search.Value()
	if query == "" {
		query = StatusBarText.Render("press / to search")
	}
	return SearchBar.Width(a.width).Render(prompt + " " + query)
}

func (a App) renderFilterBadges() string {
	active := a.filters.ActiveFilters()
	if len(active) == 0 {
		return ""
	}
	var b strings.Builder
	for _, af := range active {
		b.WriteString(FilterBadge.Render(af.DisplayValue))
	}
	b.WriteString(FilterCount.Render(fmt.Sprintf(" %d/%d courses", a.matched, a.total)))
	b.WriteByte('\n')
	return b.String()
}

func (a App) renderPlan() string {
	// Selection-grain filters (section status, required status) narrow
	// what the plan panel lists, not the plan itself.
	selected := a.filters.FilterSelectedCourses(a.selected)
	if len(selected) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(SelectionHeader.Render(fmt.Sprintf("Plan (%d)", len(selected))))
	b.WriteByte('\n')
	for i := range selected {
		sc := &selected[i]
		line := sc.Course.Name
		if sc.Course.Department != nil {
			line = sc.Course.Department.Abbreviation + sc.Course.Number + " " + line
		}
		if sc.SectionNumber != "" {
			line += " [" + sc.SectionNumber + "]"
		}
		b.WriteString(SelectionItem.Render(line))
		b.WriteByte('\n')
	}
	if len(a.conflict) > 0 {
		for _, c := range a.conflict {
			b.WriteString(ConflictText.Render("⚠ " + c.Description))
			b.WriteByte('\n')
		}
	} else {
		b.WriteString(ValidSchedule.Render("✓ no conflicts"))
		b.WriteByte('\n')
	}
	return b.String()
}

func (a App) renderStatusBar() string {
	hints := []string{
		StatusBarKey.Render("/") + StatusBarText.Render(" search"),
		StatusBarKey.Render("enter") + StatusBarText.Render(" select"),
		StatusBarKey.Render("a") + StatusBarText.Render(" available"),
		StatusBarKey.Render("t") + StatusBarText.Render(" term"),
		StatusBarKey.Render("d") + StatusBarText.Render(" dept"),
		StatusBarKey.Render("v") + StatusBarText.Render(" view"),
		StatusBarKey.Render("x") + StatusBarText.Render(" clear"),
		StatusBarKey.Render("q") + StatusBarText.Render(" quit"),
	}
	pos := ""
	if len(a.courses) > 0 {
		pos = StatusBarText.Render(fmt.Sprintf("  %d/%d", a.cursor+1, len(a.courses)))
	}
	if a.loading {
		pos += StatusBarText.Render("  loading…")
	}
	return StatusBar.Width(a.width).Render(strings.Join(hints, "  ") + pos)
}
