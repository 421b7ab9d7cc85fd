package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Catalog is one full load of the course feed.
type Catalog struct {
	Departments []*Department
	Generated   string
}

// AllCourses flattens the catalog into a single course list in
// department order.
func (c *Catalog) AllCourses() []Course {
	var courses []Course
	for _, dept := range c.Departments {
		courses = append(courses, dept.Courses...)
	}
	return courses
}

// Raw feed records. The feed uses snake_case keys throughout.
type rawCatalog struct {
	Departments []rawDepartment `json:"departments"`
	Generated   string          `json:"generated"`
}

type rawDepartment struct {
	Abbreviation string      `json:"abbreviation"`
	Name         string      `json:"name"`
	Courses      []rawCourse `json:"courses"`
}

type rawCourse struct {
	ID          string       `json:"id"`
	Number      string       `json:"number"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Sections    []rawSection `json:"sections"`
	MinCredits  float64      `json:"min_credits"`
	MaxCredits  float64      `json:"max_credits"`
}

type rawSection struct {
	CRN            int         `json:"crn"`
	Number         string      `json:"number"`
	Seats          int         `json:"seats"`
	SeatsAvailable int         `json:"seats_available"`
	ActualWaitlist int         `json:"actual_waitlist"`
	MaxWaitlist    int         `json:"max_waitlist"`
	Description    string      `json:"description"`
	Term           string      `json:"term"`
	ComputedTerm   string      `json:"computedTerm"`
	Periods        []rawPeriod `json:"periods"`
}

type rawPeriod struct {
	Type           string   `json:"type"`
	Professor      string   `json:"professor"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	Location       string   `json:"location"`
	Building       string   `json:"building"`
	Room           string   `json:"room"`
	Seats          int      `json:"seats"`
	SeatsAvailable int      `json:"seats_available"`
	ActualWaitlist int      `json:"actual_waitlist"`
	MaxWaitlist    int      `json:"max_waitlist"`
	Days           []string `json:"days"`
}

// DecodeCatalog parses a catalog feed document into the model types,
// wiring each course's back-reference to its shared department.
func DecodeCatalog(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if raw.Departments == nil {
		return nil, fmt.Errorf("decode catalog: missing departments array")
	}

	cat := &Catalog{Generated: raw.Generated}
	for _, rd := range raw.Departments {
		cat.Departments = append(cat.Departments, decodeDepartment(rd))
	}
	return cat, nil
}

func decodeDepartment(rd rawDepartment) *Department {
	dept := &Department{
		Abbreviation: rd.Abbreviation,
		Name:         rd.Name,
	}
	dept.Courses = make([]Course, 0, len(rd.Courses))
	for _, rc := range rd.Courses {
		dept.Courses = append(dept.Courses, Course{
			ID:          rc.ID,
			Number:      rc.Number,
			Name:        rc.Name,
			Description: StripHTML(rc.Description),
			Department:  dept,
			Sections:    decodeSections(rc.Sections),
			MinCredits:  rc.MinCredits,
			MaxCredits:  rc.MaxCredits,
		})
	}
	return dept
}

func decodeSections(raw []rawSection) []Section {
	sections := make([]Section, 0, len(raw))
	for _, rs := range raw {
		computed := rs.ComputedTerm
		if computed == "" {
			computed = NormalizeTerm(rs.Term)
		}
		sections = append(sections, Section{
			CRN:            rs.CRN,
			Number:         rs.Number,
			Seats:          rs.Seats,
			SeatsAvailable: rs.SeatsAvailable,
			ActualWaitlist: rs.ActualWaitlist,
			MaxWaitlist:    rs.MaxWaitlist,
			Description:    StripHTML(rs.Description),
			Term:           rs.Term,
			ComputedTerm:   computed,
			Periods:        decodePeriods(rs.Periods),
		})
	}
	return sections
}

func decodePeriods(raw []rawPeriod) []Period {
	periods := make([]Period, 0, len(raw))
	for _, rp := range raw {
		typ := rp.Type
		if typ == "" {
			typ = "Lecture"
		}
		periods = append(periods, Period{
			Type:           typ,
			Professor:      rp.Professor,
			StartTime:      ParseTime(rp.StartTime),
			EndTime:        ParseTime(rp.EndTime),
			Location:       rp.Location,
			Building:       rp.Building,
			Room:           rp.Room,
			Seats:          rp.Seats,
			SeatsAvailable: rp.SeatsAvailable,
			ActualWaitlist: rp.ActualWaitlist,
			MaxWaitlist:    rp.MaxWaitlist,
			Days:           ParseDays(rp.Days),
		})
	}
	return periods
}

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	htmlEntityRe = regexp.MustCompile(`&[^;]+;`)
)

// StripHTML removes tags and entities from feed descriptions.
func StripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	s = htmlEntityRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
