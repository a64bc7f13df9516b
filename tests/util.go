package testutil

import (
	"testing"
	"time"

	"github.com/mkala/shule/core/attendance"
	"github.com/mkala/shule/core/course"
	"github.com/mkala/shule/core/exam"
	"github.com/mkala/shule/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	firstName, lastName, email, idNumber, pwd, role, class string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		IDNumber:  idNumber,
		Class:     class,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func AssignCourse(t *testing.T, repo user.Repository, usr user.User, asg user.Assignment) user.User {
	usr, err := repo.AppendAssignment(usr.ID, asg)
	if err != nil {
		t.Fatalf("AssignCourse() failed: %v", err)
	}
	return usr
}

func CreateCourse(t *testing.T, repo course.Repository, name, code, class, section string) course.Course {
	now := time.Now().UTC()
	crs, err := repo.CreateCourse(course.Course{
		Name:      name,
		Code:      code,
		Class:     class,
		Section:   section,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateAttendanceSheet(
	t *testing.T, repo attendance.Repository, class, courseID, semester string, entries attendance.EntryMap,
) attendance.Sheet {
	now := time.Now().UTC()
	sheet, err := repo.UpsertSheet(attendance.Sheet{
		ID:        attendance.SheetID(class, courseID, semester),
		Class:     class,
		CourseID:  courseID,
		Semester:  semester,
		Entries:   entries,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateAttendanceSheet() failed: %v", err)
	}
	return sheet
}

func CreateExamSheet(
	t *testing.T, repo exam.Repository, class, courseID, semester string, scores exam.ScoreMap,
) exam.Sheet {
	now := time.Now().UTC()
	sheet, err := repo.UpsertSheet(exam.Sheet{
		ID:        exam.SheetID(class, courseID, semester),
		Class:     class,
		CourseID:  courseID,
		Semester:  semester,
		Scores:    scores,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateExamSheet() failed: %v", err)
	}
	return sheet
}
