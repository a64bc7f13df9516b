package attendance

import (
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("attendance sheet not found")

type (
	Repository interface {
		// UpsertSheet merges sheet.Entries into any existing sheet stored
		// under the same ID; students recorded earlier but absent from this
		// write are preserved, never overwritten wholesale.
		UpsertSheet(sheet Sheet) (Sheet, error)
		GetSheetByID(id string) (Sheet, error)
		QueryAllSheets() ([]Sheet, error)
	}

	Service interface {
		// Submit validates the submission before any key is built or any
		// write happens; a missing class, course or semester aborts with a
		// validation error and leaves the store untouched.
		Submit(sub Submission) (Sheet, error)
		Get(class, courseID, semester string) (Sheet, error)
		QueryAll() ([]Sheet, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Submit(sub Submission) (Sheet, error) {
	if err := sub.Validate(); err != nil {
		return Sheet{}, err
	}
	now := time.Now().UTC()
	sheet := Sheet{
		ID:        SheetID(sub.Class, sub.CourseID, sub.Semester),
		Class:     sub.Class,
		CourseID:  sub.CourseID,
		Semester:  sub.Semester,
		Entries:   sub.Entries,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.UpsertSheet(sheet)
}

func (svc *service) Get(class, courseID, semester string) (Sheet, error) {
	return svc.repo.GetSheetByID(SheetID(class, courseID, semester))
}

func (svc *service) QueryAll() ([]Sheet, error) {
	return svc.repo.QueryAllSheets()
}
