package user

// HasAssignment reports whether the user holds an assignment for the given
// course in the given class. Duplicates in AssignedCourses do not matter here.
func (u User) HasAssignment(class, courseID string) bool {
	for _, asg := range u.AssignedCourses {
		if asg.CourseID == courseID && asg.Class == class {
			return true
		}
	}
	return false
}

// EligibleStudents computes the students visible to a teacher for a given
// (class, course) selection. A student is visible iff they hold the student
// role, their class matches the selected class, and the teacher holds an
// assignment for the selected course in that same class.
//
// This is a full scan of both the teacher's assignments and the roster; it
// must be re-derived on every selection change, never cached.
func EligibleStudents(teacher User, students []User, class, courseID string) []User {
	if class == "" || courseID == "" {
		return nil
	}

	if !teacher.HasAssignment(class, courseID) {
		return nil
	}

	eligible := make([]User, 0, len(students))
	for _, std := range students {
		if std.IsStudent() && std.Class == class {
			eligible = append(eligible, std)
		}
	}
	return eligible
}
