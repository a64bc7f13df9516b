package exam

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/mkala/shule/core"
)

// SheetID builds the composite key a sheet is stored under.
// Callers must validate class, courseID and semester before building a key.
func SheetID(class, courseID, semester string) string {
	return fmt.Sprintf("%s_%s_%s", class, courseID, semester)
}

// ScoreMap maps a student ID to an exam score. Stored as a JSONB column.
type ScoreMap map[string]float64

func (sm ScoreMap) Value() (driver.Value, error) {
	if sm == nil {
		sm = ScoreMap{}
	}
	return json.Marshal(sm)
}

func (sm *ScoreMap) Scan(src interface{}) error {
	if src == nil {
		*sm = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return errors.Errorf("unsupported type %T for ScoreMap", src)
	}
	return json.Unmarshal(data, sm)
}

type Sheet struct {
	ID        string    `json:"id"`
	Class     string    `json:"class"`
	CourseID  string    `json:"course_id"`
	Semester  string    `json:"semester"`
	Scores    ScoreMap  `json:"scores"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Submission is one exam results write for a (class, course, semester) key.
type Submission struct {
	Class    string   `json:"class" validate:"required"`
	CourseID string   `json:"course_id" validate:"required"`
	Semester string   `json:"semester" validate:"required"`
	Scores   ScoreMap `json:"scores" validate:"required"`
}

func (s *Submission) Validate() error {
	s.Class = core.CleanString(s.Class)
	s.CourseID = core.CleanString(s.CourseID)
	s.Semester = core.CleanString(s.Semester)
	return core.Validate.Struct(s)
}
