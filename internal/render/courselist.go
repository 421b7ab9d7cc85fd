package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/campusplanner/planner/internal/model"
	"github.com/campusplanner/planner/internal/ops"
)

// Sink receives rendered text. The first batch of a render calls
// Reset, every batch calls Append.
type Sink interface {
	Reset()
	Append(text string)
}

// SelectionChecker reports whether a course is in the user's plan.
type SelectionChecker interface {
	CourseSelected(course *model.Course) bool
}

var (
	courseCodeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	courseNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	selectedMark = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")).
			Bold(true).
			Render("✓")

	unselectedMark = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Render("+")

	warningMark = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Render("⚠")

	sectionBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	fullSectionBadge = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	courseMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

const nameWidth = 48

// RenderCourseList renders courses as one line per course with its
// section badges, batched through r.
func RenderCourseList(r *Renderer, courses []model.Course, selection SelectionChecker, sink Sink, token *ops.Token) {
	r.RenderBatched(courses, func(batch []model.Course, first, _ bool) {
		if first {
			sink.Reset()
		}
		var b strings.Builder
		for i := range batch {
			b.WriteString(courseListLine(&batch[i], selection))
			b.WriteByte('\n')
		}
		sink.Append(b.String())
	}, token)
}

// RenderCourseGrid renders courses as compact cards with credit and
// section counts, batched through r.
func RenderCourseGrid(r *Renderer, courses []model.Course, selection SelectionChecker, sink Sink, token *ops.Token) {
	r.RenderBatched(courses, func(batch []model.Course, first, _ bool) {
		if first {
			sink.Reset()
		}
		var b strings.Builder
		for i := range batch {
			b.WriteString(courseCard(&batch[i], selection))
			b.WriteByte('\n')
		}
		sink.Append(b.String())
	}, token)
}

func courseListLine(course *model.Course, selection SelectionChecker) string {
	mark := unselectedMark
	if selection != nil && selection.CourseSelected(course) {
		mark = selectedMark
	}
	name := runewidth.Truncate(course.Name, nameWidth, "…")
	if courseFull(course) {
		name += " " + warningMark
	}

	badges := make([]string, 0, len(course.Sections))
	for i := range course.Sections {
		sec := &course.Sections[i]
		style := sectionBadge
		if sec.SeatsAvailable <= 0 {
			style = fullSectionBadge
		}
		badges = append(badges, style.Render(sec.Number))
	}

	return fmt.Sprintf("%s %s %s %s",
		mark,
		courseCodeStyle.Render(courseCode(course)),
		courseNameStyle.Render(name),
		strings.Join(badges, " "))
}

func courseCard(course *model.Course, selection SelectionChecker) string {
	mark := unselectedMark
	if selection != nil && selection.CourseSelected(course) {
		mark = selectedMark
	}
	name := runewidth.Truncate(course.Name, nameWidth, "…")
	if courseFull(course) {
		name += " " + warningMark
	}

	credits := fmt.Sprintf("%g", course.MinCredits)
	if course.MinCredits != course.MaxCredits {
		credits = fmt.Sprintf("%g-%g", course.MinCredits, course.MaxCredits)
	}
	sections := "section"
	if len(course.Sections) != 1 {
		sections = "sections"
	}
	meta := courseMetaStyle.Render(fmt.Sprintf("%s credits · %d %s",
		credits, len(course.Sections), sections))

	return fmt.Sprintf("%s %s\n  %s\n  %s",
		mark,
		courseCodeStyle.Render(courseCode(course)),
		courseNameStyle.Render(name),
		meta)
}

func courseCode(course *model.Course) string {
	if course.Department != nil {
		return course.Department.Abbreviation + course.Number
	}
	return course.Number
}

// courseFull reports whether every section is out of seats.
func courseFull(course *model.Course) bool {
	for i := range course.Sections {
		if course.Sections[i].SeatsAvailable > 0 {
			return false
		}
	}
	return len(course.Sections) > 0
}
