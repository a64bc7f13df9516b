package attendance

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/mkala/shule/core"
)

// SheetID builds the composite key a sheet is stored under.
// Callers must validate class, courseID and semester before building a key;
// an empty component would produce a malformed key.
func SheetID(class, courseID, semester string) string {
	return fmt.Sprintf("%s_%s_%s", class, courseID, semester)
}

// EntryMap maps a student ID to a presence flag. Stored as a JSONB column.
type EntryMap map[string]bool

func (em EntryMap) Value() (driver.Value, error) {
	if em == nil {
		em = EntryMap{}
	}
	return json.Marshal(em)
}

func (em *EntryMap) Scan(src interface{}) error {
	if src == nil {
		*em = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return errors.Errorf("unsupported type %T for EntryMap", src)
	}
	return json.Unmarshal(data, em)
}

type Sheet struct {
	ID        string    `json:"id"`
	Class     string    `json:"class"`
	CourseID  string    `json:"course_id"`
	Semester  string    `json:"semester"`
	Entries   EntryMap  `json:"entries"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Submission is one attendance write for a (class, course, semester) key.
type Submission struct {
	Class    string   `json:"class" validate:"required"`
	CourseID string   `json:"course_id" validate:"required"`
	Semester string   `json:"semester" validate:"required"`
	Entries  EntryMap `json:"entries" validate:"required"`
}

func (s *Submission) Validate() error {
	s.Class = core.CleanString(s.Class)
	s.CourseID = core.CleanString(s.CourseID)
	s.Semester = core.CleanString(s.Semester)
	return core.Validate.Struct(s)
}
