package inmemdb

import (
	"sync"

	"github.com/mkala/shule/core/attendance"
	"github.com/mkala/shule/core/course"
	"github.com/mkala/shule/core/exam"
	"github.com/mkala/shule/core/user"
)

type (
	DB struct {
		user       *userTable
		course     *courseTable
		attendance *attendanceTable
		exam       *examTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	courseTable struct {
		sync.RWMutex
		table map[string]*course.Course
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Sheet
	}

	examTable struct {
		sync.RWMutex
		table map[string]*exam.Sheet
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		course:     &courseTable{table: make(map[string]*course.Course)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Sheet)},
		exam:       &examTable{table: make(map[string]*exam.Sheet)},
	}
	return db, nil
}
