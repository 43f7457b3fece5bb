package core

// Caller is the verified identity attached to a request.
type Caller struct {
	TeacherID string
	IsAdmin   bool
}

// Owns reports whether the caller may act on a resource owned by teacherID.
func (c Caller) Owns(teacherID string) bool {
	return c.IsAdmin || (teacherID != "" && c.TeacherID == teacherID)
}
