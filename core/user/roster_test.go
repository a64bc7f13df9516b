package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEligibleStudents(t *testing.T) {
	teacher := User{
		ID:   "t1",
		Role: RoleTeacher,
		AssignedCourses: AssignmentList{
			{CourseID: "c1", Class: "10", Section: "A"},
			{CourseID: "c1", Class: "10", Section: "A"}, // duplicates are tolerated
			{CourseID: "c2", Class: "9", Section: "B"},
		},
	}
	std10 := User{ID: "s1", Role: RoleStudent, Class: "10"}
	std9 := User{ID: "s2", Role: RoleStudent, Class: "9"}
	otherTeacher := User{ID: "t2", Role: RoleTeacher, Class: "10"}
	roster := []User{std10, std9, otherTeacher}

	tests := []struct {
		name     string
		class    string
		courseID string
		want     []User
	}{
		{name: "matching class and course", class: "10", courseID: "c1", want: []User{std10}},
		{name: "class not assigned for course", class: "9", courseID: "c1", want: nil},
		{name: "other assigned course", class: "9", courseID: "c2", want: []User{std9}},
		{name: "unassigned course", class: "10", courseID: "c3", want: nil},
		{name: "empty class", courseID: "c1", want: nil},
		{name: "empty course", class: "10", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EligibleStudents(teacher, roster, tt.class, tt.courseID)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
