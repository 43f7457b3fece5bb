package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/lesson"
	"github.com/soundtrackapp/soundtrack/core/student"
)

const lessonColumns = `
	l.id, l.date, l.notes, l.student_id, s.name AS student_name,
	l.teacher_id, t.name AS teacher_name`

var lessonFieldAliases = map[string]string{
	"studentId": "student_id",
	"teacherId": "teacher_id",
}

type lessonRepository struct {
	exec core.DBExecutor
}

var _ lesson.Repository = (*lessonRepository)(nil) // interface compliance check

func NewLessonRepository(exec core.DBExecutor) *lessonRepository {
	return &lessonRepository{exec: exec}
}

func (repo lessonRepository) CreateLesson(ctx context.Context, nl lesson.NewLesson) (lesson.Lesson, error) {
	query := `
		INSERT INTO lessons (student_id, teacher_id, notes, date)
		VALUES ($1, $2, NULLIF($3, ''), COALESCE($4, NOW()))
		RETURNING id`

	var id int
	err := sqlx.GetContext(ctx, repo.exec, &id, query, nl.StudentID, nl.TeacherID, nl.Notes, nl.Date)
	if err != nil {
		return lesson.Lesson{}, translateError(err, lesson.ErrNotFound)
	}
	return repo.GetLessonByID(ctx, id)
}

func (repo lessonRepository) GetLessonByID(ctx context.Context, id int) (lesson.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons l
		JOIN students s ON s.id = l.student_id
		LEFT JOIN teachers t ON t.id = l.teacher_id
		WHERE l.id = $1`

	var l lesson.Lesson
	err := sqlx.GetContext(ctx, repo.exec, &l, query, id)
	return l, translateError(err, lesson.ErrNotFound)
}

func (repo lessonRepository) UpdateLesson(ctx context.Context, id int, fields []core.Field) (lesson.Lesson, error) {
	setCols, values, err := partialUpdate(fields, lessonFieldAliases)
	if err != nil {
		return lesson.Lesson{}, err
	}

	// update first, then re-select to pick up the joined names
	query := fmt.Sprintf(`UPDATE lessons SET %s WHERE id = $%d RETURNING id`, setCols, len(values)+1)

	var updatedID int
	if err = sqlx.GetContext(ctx, repo.exec, &updatedID, query, append(values, id)...); err != nil {
		return lesson.Lesson{}, translateError(err, lesson.ErrNotFound)
	}
	return repo.GetLessonByID(ctx, updatedID)
}

func (repo lessonRepository) DeleteLesson(ctx context.Context, id int) error {
	res, err := repo.exec.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lesson.ErrNotFound
	}
	return nil
}

func (repo lessonRepository) QueryTechniqueReviews(ctx context.Context, studentID int, includeCompleted bool) ([]student.TechniqueReview, error) {
	return NewStudentRepository(repo.exec).QueryTechniqueReviews(ctx, studentID, includeCompleted)
}
