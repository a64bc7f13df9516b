package inmemdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkala/shule/core/attendance"
)

func TestAttendanceUpsertMerges(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewAttendanceRepository(db)

	id := attendance.SheetID("10", "c1", "1st")
	first := attendance.Sheet{
		ID: id, Class: "10", CourseID: "c1", Semester: "1st",
		Entries: attendance.EntryMap{"s1": true, "s2": false},
	}
	_, err = repo.UpsertSheet(first)
	require.NoError(t, err)

	// a later write with a subset of students must preserve the rest
	second := attendance.Sheet{
		ID: id, Class: "10", CourseID: "c1", Semester: "1st",
		Entries: attendance.EntryMap{"s2": true, "s3": true},
	}
	got, err := repo.UpsertSheet(second)
	require.NoError(t, err)

	assert.Equal(t, attendance.EntryMap{"s1": true, "s2": true, "s3": true}, got.Entries)

	stored, err := repo.GetSheetByID(id)
	require.NoError(t, err)
	assert.Equal(t, got.Entries, stored.Entries)

	// the caller's map must not alias the stored one
	first.Entries["s4"] = true
	stored, err = repo.GetSheetByID(id)
	require.NoError(t, err)
	assert.NotContains(t, stored.Entries, "s4")
}

func TestAttendanceGetMissingSheet(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewAttendanceRepository(db)

	_, err = repo.GetSheetByID(attendance.SheetID("10", "c1", "1st"))
	assert.Equal(t, attendance.ErrNotFound, err)
}
