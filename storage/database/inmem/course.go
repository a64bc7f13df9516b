package inmemdb

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mkala/shule/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) query() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.table))
	for _, crs := range repo.db.table {
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.Before(courses[j].CreatedAt) })
	return courses
}

func (repo *courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	crs.ID = uuid.New().String()
	repo.db.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *courseRepository) GetCourseByID(id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) FilterCourses(filter course.QueryFilter) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matchSearch := func(crs course.Course) bool {
		if filter.Search == "" {
			return true
		}
		search := strings.ToLower(filter.Search)
		return strings.Contains(strings.ToLower(crs.Name), search) ||
			strings.Contains(strings.ToLower(crs.Code), search)
	}

	var courses []course.Course
	for _, crs := range repo.query() {
		if !matchSearch(crs) {
			continue
		}
		if filter.Class != "" && crs.Class != filter.Class {
			continue
		}
		if filter.Section != "" && crs.Section != filter.Section {
			continue
		}
		courses = append(courses, crs)
	}
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	orig, ok := repo.db.table[crs.ID]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	if crs.Name != "" {
		orig.Name = crs.Name
	}
	if crs.Code != "" {
		orig.Code = crs.Code
	}
	if crs.Class != "" {
		orig.Class = crs.Class
	}
	if crs.Section != "" {
		orig.Section = crs.Section
	}
	if !crs.UpdatedAt.IsZero() {
		orig.UpdatedAt = crs.UpdatedAt
	}

	repo.db.table[crs.ID] = orig
	return *orig, nil
}

func (repo *courseRepository) DeleteCoursesByID(ids ...string) error {
	// no cascade; Assignments keep their dangling course ids
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
