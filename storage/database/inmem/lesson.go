package inmemdb

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/lesson"
	"github.com/soundtrackapp/soundtrack/core/student"
)

type lessonRepository struct {
	db *DB
}

func NewLessonRepository(db *DB) lesson.Repository {
	return &lessonRepository{db: db}
}

func (repo *lessonRepository) CreateLesson(ctx context.Context, nl lesson.NewLesson) (lesson.Lesson, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	st, ok := repo.db.students[nl.StudentID]
	if !ok {
		return lesson.Lesson{}, core.NewValidationError(nil, core.FieldError{
			Field: "studentId", Error: "invalid student"})
	}
	t, ok := repo.db.teachers[nl.TeacherID]
	if !ok {
		return lesson.Lesson{}, core.NewValidationError(nil, core.FieldError{
			Field: "teacherId", Error: "invalid teacher"})
	}

	l := lesson.Lesson{
		ID:          repo.db.nextID(),
		Date:        time.Now().UTC(),
		StudentID:   st.ID,
		StudentName: st.Name,
		TeacherID:   null.StringFrom(t.ID),
		TeacherName: null.StringFrom(t.Name),
	}
	if nl.Date != nil {
		l.Date = *nl.Date
	}
	if nl.Notes != "" {
		l.Notes.SetValid(nl.Notes)
	}
	repo.db.lessons[l.ID] = &l
	return l, nil
}

func (repo *lessonRepository) GetLessonByID(ctx context.Context, id int) (lesson.Lesson, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if l, ok := repo.db.lessons[id]; ok {
		return *l, nil
	}
	return lesson.Lesson{}, lesson.ErrNotFound
}

func (repo *lessonRepository) UpdateLesson(ctx context.Context, id int, fields []core.Field) (lesson.Lesson, error) {
	if len(fields) == 0 {
		return lesson.Lesson{}, errNoData
	}
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	l, ok := repo.db.lessons[id]
	if !ok {
		return lesson.Lesson{}, lesson.ErrNotFound
	}
	for _, f := range fields {
		switch f.Name {
		case "studentId":
			st, ok := repo.db.students[f.Value.(int)]
			if !ok {
				return lesson.Lesson{}, core.NewValidationError(nil, core.FieldError{
					Field: "studentId", Error: "invalid student"})
			}
			l.StudentID = st.ID
			l.StudentName = st.Name
		case "teacherId":
			t, ok := repo.db.teachers[f.Value.(string)]
			if !ok {
				return lesson.Lesson{}, core.NewValidationError(nil, core.FieldError{
					Field: "teacherId", Error: "invalid teacher"})
			}
			l.TeacherID = null.StringFrom(t.ID)
			l.TeacherName = null.StringFrom(t.Name)
		case "notes":
			l.Notes.SetValid(f.Value.(string))
		case "date":
			l.Date = f.Value.(time.Time)
		}
	}
	return *l, nil
}

func (repo *lessonRepository) DeleteLesson(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.lessons[id]; !ok {
		return lesson.ErrNotFound
	}
	delete(repo.db.lessons, id)
	return nil
}

func (repo *lessonRepository) QueryTechniqueReviews(ctx context.Context, studentID int, includeCompleted bool) ([]student.TechniqueReview, error) {
	return NewStudentRepository(repo.db).QueryTechniqueReviews(ctx, studentID, includeCompleted)
}
