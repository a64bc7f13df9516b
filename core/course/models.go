package course

import (
	"time"

	"github.com/mkala/shule/core"
)

// UnknownCourseLabel is rendered for dangling course references.
// Deleting a Course does not cascade into Assignments holding its ID.
const UnknownCourseLabel = "Unknown Course"

type Course struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Class     string    `json:"class"`
	Section   string    `json:"section"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Label resolves a course ID to a display name over a snapshot of courses.
// A missing entry yields UnknownCourseLabel, never an error.
func Label(courses []Course, id string) string {
	for _, crs := range courses {
		if crs.ID == id {
			return crs.Name
		}
	}
	return UnknownCourseLabel
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name    string `json:"name" validate:"required"`
	Code    string `json:"code" validate:"required,alphanum_"`
	Class   string `json:"class" validate:"required"`
	Section string `json:"section"`
}

func (nc *NewCourse) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code)
	nc.Class = core.CleanString(nc.Class)
	nc.Section = core.CleanString(nc.Section)
	return core.Validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Name    string `json:"name"`
	Code    string `json:"code" validate:"omitempty,alphanum_"`
	Class   string `json:"class"`
	Section string `json:"section"`
}

func (uc *UpdateCourse) Validate(orig Course) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if code := core.CleanString(uc.Code); code != "" {
		uc.Code = code
	} else {
		uc.Code = orig.Code
	}
	if class := core.CleanString(uc.Class); class != "" {
		uc.Class = class
	} else {
		uc.Class = orig.Class
	}
	uc.Section = core.CleanString(uc.Section)
	return core.Validate.Struct(uc)
}

type QueryFilter struct {
	Search  string `query:"search"`
	Class   string `query:"class"`
	Section string `query:"section"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Class == "" && qf.Section == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Class = core.CleanString(qf.Class)
	qf.Section = core.CleanString(qf.Section)
}
