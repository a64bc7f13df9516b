package pgrepos

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/mkala/shule/core/course"
)

type dbCourse struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Code      string    `db:"code"`
	Class     string    `db:"class"`
	Section   string    `db:"section"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (c dbCourse) toCourse() course.Course {
	return course.Course{
		ID:        c.ID,
		Name:      c.Name,
		Code:      c.Code,
		Class:     c.Class,
		Section:   c.Section,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCourses(rows []dbCourse) []course.Course {
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toCourse())
	}
	return courses
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{db: sqlx.NewDb(db, "postgres")}
}

func trapNoCourseErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return course.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()
	q := `
		INSERT INTO courses (id, name, code, class, section, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.Exec(q, crs.ID, crs.Name, crs.Code, crs.Class, crs.Section, crs.CreatedAt, crs.UpdatedAt)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) QueryAllCourses() ([]course.Course, error) {
	var rows []dbCourse
	if err := repo.db.Select(&rows, "SELECT * FROM courses ORDER BY created_at"); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return toCourses(rows), nil
}

func (repo courseRepository) GetCourseByID(id string) (course.Course, error) {
	var row dbCourse
	if err := repo.db.Get(&row, "SELECT * FROM courses WHERE id = $1", id); err != nil {
		return course.Course{}, trapNoCourseErr(err, "getting course by id")
	}
	return row.toCourse(), nil
}

func (repo courseRepository) FilterCourses(filter course.QueryFilter) ([]course.Course, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %[1]s OR code ILIKE %[1]s)", p))
	}
	if filter.Class != "" {
		conds = append(conds, fmt.Sprintf("class = %s", arg(filter.Class)))
	}
	if filter.Section != "" {
		conds = append(conds, fmt.Sprintf("section = %s", arg(filter.Section)))
	}

	q := "SELECT * FROM courses"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at"

	var rows []dbCourse
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering courses")
	}
	return toCourses(rows), nil
}

func (repo courseRepository) UpdateCourse(crs course.Course) (course.Course, error) {
	var (
		sets []string
		args []interface{}
	)
	set := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	// only save set fields
	if crs.Name != "" {
		set("name", crs.Name)
	}
	if crs.Code != "" {
		set("code", crs.Code)
	}
	if crs.Class != "" {
		set("class", crs.Class)
	}
	if crs.Section != "" {
		set("section", crs.Section)
	}
	if !crs.UpdatedAt.IsZero() {
		set("updated_at", crs.UpdatedAt)
	}
	if len(sets) == 0 {
		return repo.GetCourseByID(crs.ID)
	}

	args = append(args, crs.ID)
	q := fmt.Sprintf("UPDATE courses SET %s WHERE id = $%d RETURNING *", strings.Join(sets, ", "), len(args))

	var row dbCourse
	if err := repo.db.Get(&row, q, args...); err != nil {
		return course.Course{}, trapNoCourseErr(err, "updating course")
	}
	return row.toCourse(), nil
}

func (repo courseRepository) DeleteCoursesByID(ids ...string) error {
	// no cascade into users.assigned_courses; dangling course ids are rendered
	// with course.UnknownCourseLabel
	if _, err := repo.db.Exec("DELETE FROM courses WHERE id = ANY($1)", pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return nil
}
