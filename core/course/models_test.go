package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	courses := []Course{
		{ID: "c1", Name: "Mathematics", Code: "MATH10", Class: "10", Section: "A"},
		{ID: "c2", Name: "Physics", Code: "PHY10", Class: "10", Section: "A"},
	}

	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "known course", id: "c1", want: "Mathematics"},
		{name: "other known course", id: "c2", want: "Physics"},
		{name: "deleted course", id: "c3", want: UnknownCourseLabel},
		{name: "empty id", id: "", want: UnknownCourseLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(courses, tt.id))
		})
	}
}
