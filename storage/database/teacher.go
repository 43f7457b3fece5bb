package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/repertoire"
	"github.com/soundtrackapp/soundtrack/core/teacher"
	"github.com/soundtrackapp/soundtrack/core/technique"
)

const teacherColumns = "id, email, password, name, description, date_added, is_admin"

var teacherFieldAliases = map[string]string{
	"isAdmin": "is_admin",
}

type teacherRepository struct {
	exec core.DBExecutor
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(exec core.DBExecutor) *teacherRepository {
	return &teacherRepository{exec: exec}
}

func (repo teacherRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...string) error {
	query := `SELECT COUNT(*) FROM teachers WHERE email = $1`
	args := []interface{}{email}
	if len(excludedIDs) > 0 {
		query += ` AND id != ALL($2)`
		args = append(args, pq.Array(excludedIDs))
	}

	var count int
	if err := sqlx.GetContext(ctx, repo.exec, &count, query, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return teacher.ErrEmailExists
	}
	return nil
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	query := `
		INSERT INTO teachers (email, password, name, description, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + teacherColumns

	var created teacher.Teacher
	err := sqlx.GetContext(ctx, repo.exec, &created, query,
		t.Email, t.PasswordHash, t.Name, t.Description, t.IsAdmin)
	return created, translateError(err, teacher.ErrNotFound)
}

func (repo teacherRepository) QueryTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers ORDER BY name`

	teachers := make([]teacher.Teacher, 0)
	err := sqlx.SelectContext(ctx, repo.exec, &teachers, query)
	return teachers, errors.Wrap(err, "querying teachers")
}

func (repo teacherRepository) GetTeacherByID(ctx context.Context, id string) (teacher.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE id = $1`

	var t teacher.Teacher
	err := sqlx.GetContext(ctx, repo.exec, &t, query, id)
	return t, translateError(err, teacher.ErrNotFound)
}

func (repo teacherRepository) GetTeacherByEmail(ctx context.Context, email string) (teacher.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE email = $1`

	var t teacher.Teacher
	err := sqlx.GetContext(ctx, repo.exec, &t, query, email)
	return t, translateError(err, teacher.ErrNotFound)
}

func (repo teacherRepository) UpdateTeacher(ctx context.Context, id string, fields []core.Field) (teacher.Teacher, error) {
	setCols, values, err := partialUpdate(fields, teacherFieldAliases)
	if err != nil {
		return teacher.Teacher{}, err
	}

	query := fmt.Sprintf(
		`UPDATE teachers SET %s WHERE id = $%d RETURNING %s`,
		setCols, len(values)+1, teacherColumns)

	var t teacher.Teacher
	err = sqlx.GetContext(ctx, repo.exec, &t, query, append(values, id)...)
	return t, translateError(err, teacher.ErrNotFound)
}

func (repo teacherRepository) DeleteTeacher(ctx context.Context, id string) error {
	res, err := repo.exec.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return teacher.ErrNotFound
	}
	return nil
}

func (repo teacherRepository) QueryLessons(ctx context.Context, teacherID string, daysAgo int) ([]teacher.Lesson, error) {
	query := `
		SELECT l.id, s.name AS student_name, l.date
		FROM lessons l
		JOIN students s ON s.id = l.student_id
		WHERE l.teacher_id = $1 AND l.date > NOW() - ($2 || ' days')::INTERVAL
		ORDER BY l.date DESC`

	lessons := make([]teacher.Lesson, 0)
	err := sqlx.SelectContext(ctx, repo.exec, &lessons, query, teacherID, daysAgo)
	return lessons, errors.Wrap(err, "querying teacher lessons")
}

func (repo teacherRepository) QueryTechniques(ctx context.Context, teacherID string) ([]technique.Technique, error) {
	query := `
		SELECT t.id, t.tonic, t.mode, t.type, t.description, t.date_added,
		       sl.name AS skill_level, t.teacher_id
		FROM techniques t
		LEFT JOIN skill_levels sl ON sl.id = t.skill_level_id
		WHERE t.teacher_id = $1
		ORDER BY t.date_added`

	techniques := make([]technique.Technique, 0)
	err := sqlx.SelectContext(ctx, repo.exec, &techniques, query, teacherID)
	return techniques, errors.Wrap(err, "querying teacher techniques")
}

func (repo teacherRepository) QueryRepertoire(ctx context.Context, teacherID string) ([]repertoire.Repertoire, error) {
	query := `
		SELECT r.id, r.name, r.composer, r.arranger, r.genre, r.sheet_music_url,
		       r.description, r.date_added, sl.name AS skill_level, r.teacher_id
		FROM repertoire r
		LEFT JOIN skill_levels sl ON sl.id = r.skill_level_id
		WHERE r.teacher_id = $1
		ORDER BY r.date_added`

	reps := make([]repertoire.Repertoire, 0)
	err := sqlx.SelectContext(ctx, repo.exec, &reps, query, teacherID)
	return reps, errors.Wrap(err, "querying teacher repertoire")
}
