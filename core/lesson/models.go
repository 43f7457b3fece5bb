package lesson

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/soundtrackapp/soundtrack/core"
)

type (
	Lesson struct {
		ID          int         `db:"id" json:"id"`
		Date        time.Time   `db:"date" json:"date"`
		Notes       null.String `db:"notes" json:"notes"`
		StudentID   int         `db:"student_id" json:"studentId"`
		StudentName string      `db:"student_name" json:"studentName,omitempty"`
		TeacherID   null.String `db:"teacher_id" json:"teacherId"`
		TeacherName null.String `db:"teacher_name" json:"teacherName,omitempty"`
	}

	NewLesson struct {
		StudentID int        `json:"studentId" validate:"required"`
		TeacherID string     `json:"teacherId" validate:"required,uuid4"`
		Notes     string     `json:"notes"`
		Date      *time.Time `json:"date"`
	}

	UpdateLesson struct {
		StudentID *int       `json:"studentId"`
		TeacherID *string    `json:"teacherId" validate:"omitempty,uuid4"`
		Notes     *string    `json:"notes"`
		Date      *time.Time `json:"date"`
	}
)

func (nl *NewLesson) Validate(validate *validator.Validate) error {
	nl.Notes = core.CleanString(nl.Notes)
	return validate.Struct(nl)
}

func (ul *UpdateLesson) Validate(validate *validator.Validate) error {
	if ul.Notes != nil {
		*ul.Notes = core.CleanString(*ul.Notes)
	}
	return validate.Struct(ul)
}

// Fields flattens the set fields into an ordered list for a sparse update.
func (ul UpdateLesson) Fields() []core.Field {
	var fields []core.Field
	if ul.StudentID != nil {
		fields = append(fields, core.Field{Name: "studentId", Value: *ul.StudentID})
	}
	if ul.TeacherID != nil {
		fields = append(fields, core.Field{Name: "teacherId", Value: *ul.TeacherID})
	}
	if ul.Notes != nil {
		fields = append(fields, core.Field{Name: "notes", Value: *ul.Notes})
	}
	if ul.Date != nil {
		fields = append(fields, core.Field{Name: "date", Value: *ul.Date})
	}
	return fields
}
