package lesson

import (
	"testing"
	"time"

	"github.com/soundtrackapp/soundtrack/core"
)

func TestNewLessonValidate(t *testing.T) {
	validate, _ := core.NewValidator()
	teacherID := "4ee7f44c-3343-48a7-a49a-4b98ace87ff6"

	tests := []struct {
		name    string
		data    NewLesson
		wantErr bool
	}{
		{name: "ok", data: NewLesson{StudentID: 1, TeacherID: teacherID}},
		{name: "notes are cleaned", data: NewLesson{StudentID: 1, TeacherID: teacherID, Notes: "  worked on scales  "}},
		{name: "student required", data: NewLesson{TeacherID: teacherID}, wantErr: true},
		{name: "teacher required", data: NewLesson{StudentID: 1}, wantErr: true},
		{name: "teacher must be a uuid", data: NewLesson{StudentID: 1, TeacherID: "lol"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(validate)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v; wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.data.Notes != "" && tt.data.Notes != "worked on scales" {
				t.Errorf("Notes = %q; want %q", tt.data.Notes, "worked on scales")
			}
		})
	}
}

func TestUpdateLessonFields(t *testing.T) {
	validate, _ := core.NewValidator()

	notes := "  progress on vibrato  "
	studentID := 2
	date := time.Date(2021, 6, 1, 10, 0, 0, 0, time.UTC)
	ul := UpdateLesson{StudentID: &studentID, Notes: &notes, Date: &date}

	if err := ul.Validate(validate); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	fields := ul.Fields()
	want := []core.Field{
		{Name: "studentId", Value: 2},
		{Name: "notes", Value: "progress on vibrato"},
		{Name: "date", Value: date},
	}
	if len(fields) != len(want) {
		t.Fatalf("Fields() len = %d; want %d", len(fields), len(want))
	}
	for i, f := range fields {
		if f != want[i] {
			t.Errorf("Fields()[%d] = %+v; want %+v", i, f, want[i])
		}
	}
}
