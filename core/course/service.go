package course

import (
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("course not found")

type (
	Repository interface {
		CreateCourse(crs Course) (Course, error)
		QueryAllCourses() ([]Course, error)
		GetCourseByID(id string) (Course, error)
		// FilterCourses applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Course.Name or
		// Course.Code.
		FilterCourses(filter QueryFilter) ([]Course, error)
		// UpdateCourse only saves set fields; empty strings leave the stored
		// values untouched.
		UpdateCourse(crs Course) (Course, error)
		// DeleteCoursesByID does not cascade; Assignments referencing a
		// deleted Course keep their dangling ID.
		DeleteCoursesByID(ids ...string) error
	}

	Service interface {
		Create(nc NewCourse) (Course, error)
		QueryAll() ([]Course, error)
		GetByID(id string) (Course, error)
		Filter(filter QueryFilter) ([]Course, error)
		Update(id string, uc UpdateCourse) (Course, error)
		Delete(ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Name:      nc.Name,
		Code:      nc.Code,
		Class:     nc.Class,
		Section:   nc.Section,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateCourse(crs)
}

func (svc *service) QueryAll() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *service) GetByID(id string) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

func (svc *service) Filter(filter QueryFilter) ([]Course, error) {
	return svc.repo.FilterCourses(filter)
}

func (svc *service) Update(id string, uc UpdateCourse) (Course, error) {
	crs := Course{
		ID:        id,
		Name:      uc.Name,
		Code:      uc.Code,
		Class:     uc.Class,
		Section:   uc.Section,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateCourse(crs)
}

func (svc *service) Delete(ids ...string) error {
	return svc.repo.DeleteCoursesByID(ids...)
}
