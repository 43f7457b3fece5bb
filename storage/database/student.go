package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/student"
)

const studentColumns = `
	s.id, s.name, s.email, s.description, s.date_added,
	s.skill_level_id, sl.name AS skill_level, s.teacher_id`

// scheduleColumns derives the review schedule of an assignment row aliased a.
// A completed one-off has no next review; a never-reviewed item is due right
// away; otherwise the next review falls one interval after the last one.
const scheduleColumns = `
	a.completed_at IS NOT NULL AS completed,
	a.reviewed_at AS last_review,
	CASE
		WHEN a.completed_at IS NOT NULL AND a.review_interval IS NULL THEN NULL
		WHEN a.reviewed_at IS NULL THEN NOW()
		ELSE a.reviewed_at + a.review_interval
	END AS next_review`

// dueCondition keeps only assignments in the review queue: anything not yet
// completed, plus completed items whose review interval has lapsed.
const dueCondition = `(a.completed_at IS NULL OR a.reviewed_at + a.review_interval <= NOW())`

var studentFieldAliases = map[string]string{
	"skillLevelId": "skill_level_id",
	"teacherId":    "teacher_id",
}

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{exec: exec}
}

func (repo studentRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...int) error {
	query := `SELECT COUNT(*) FROM students WHERE email = $1`
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
		return student.ErrEmailExists
	}
	return nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	query := `
		INSERT INTO students (name, email, description, skill_level_id, teacher_id)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING id`

	var id int
	err := sqlx.GetContext(ctx, repo.exec, &id, query,
		ns.Name, ns.Email, ns.Description, ns.SkillLevelID, ns.TeacherID)
	if err != nil {
		return student.Student{}, translateError(err, student.ErrNotFound)
	}
	return repo.GetStudentByID(ctx, id)
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students s
		LEFT JOIN skill_levels sl ON sl.id = s.skill_level_id`

	var conds []string
	var args []interface{}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conds = append(conds, fmt.Sprintf("s.name ILIKE $%d", len(args)))
	}
	if filter.SkillLevelID != nil {
		args = append(args, *filter.SkillLevelID)
		conds = append(conds, fmt.Sprintf("s.skill_level_id = $%d", len(args)))
	}
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		conds = append(conds, fmt.Sprintf("s.teacher_id = $%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += "\n\t\tWHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += "\n\t\tORDER BY s.name"

	students := make([]student.Student, 0)
	err := sqlx.SelectContext(ctx, repo.exec, &students, query, args...)
	return students, errors.Wrap(err, "querying students")
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id int) (student.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students s
		LEFT JOIN skill_levels sl ON sl.id = s.skill_level_id
		WHERE s.id = $1`

	var st student.Student
	err := sqlx.GetContext(ctx, repo.exec, &st, query, id)
	return st, translateError(err, student.ErrNotFound)
}

func (repo studentRepository) UpdateStudent(ctx context.Context, id int, fields []core.Field) (student.Student, error) {
	setCols, values, err := partialUpdate(fields, studentFieldAliases)
	if err != nil {
		return student.Student{}, err
	}

	// update first, then re-select to pick up the joined skill level name
	query := fmt.Sprintf(`UPDATE students SET %s WHERE id = $%d RETURNING id`, setCols, len(values)+1)

	var updatedID int
	if err = sqlx.GetContext(ctx, repo.exec, &updatedID, query, append(values, id)...); err != nil {
		return student.Student{}, translateError(err, student.ErrNotFound)
	}
	return repo.GetStudentByID(ctx, updatedID)
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id int) error {
	res, err := repo.exec.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (repo studentRepository) QueryLessons(ctx context.Context, studentID, daysAgo int) ([]student.Lesson, error) {
	query := `
		SELECT l.id, t.name AS teacher_name, l.date
		FROM lessons l
		LEFT JOIN teachers t ON t.id = l.teacher_id
		WHERE l.student_id = $1 AND l.date > NOW() - ($2 || ' days')::INTERVAL
		ORDER BY l.date DESC`

	lessons := make([]student.Lesson, 0)
	err := sqlx.SelectContext(ctx, repo.exec, &lessons, query, studentID, daysAgo)
	return lessons, errors.Wrap(err, "querying student lessons")
}

func (repo studentRepository) QueryTechniqueReviews(ctx context.Context, studentID int, includeCompleted bool) ([]student.TechniqueReview, error) {
	query := `
		SELECT t.id, t.tonic, t.mode, t.type, ` + scheduleColumns + `
		FROM student_techniques a
		JOIN techniques t ON t.id = a.technique_id
		WHERE a.student_id = $1`
	if !includeCompleted {
		query += ` AND ` + dueCondition
	}
	query += `
		ORDER BY next_review ASC NULLS LAST`

	reviews := make([]student.TechniqueReview, 0)
	err := sqlx.SelectContext(ctx, repo.exec, &reviews, query, studentID)
	return reviews, errors.Wrap(err, "querying technique reviews")
}

func (repo studentRepository) QueryRepertoireReviews(ctx context.Context, studentID int, includeCompleted bool) ([]student.RepertoireReview, error) {
	query := `
		SELECT r.id, r.name, r.composer, r.arranger, r.genre, r.sheet_music_url, ` + scheduleColumns + `
		FROM student_repertoire a
		JOIN repertoire r ON r.id = a.repertoire_id
		WHERE a.student_id = $1`
	if !includeCompleted {
		query += ` AND ` + dueCondition
	}
	query += `
		ORDER BY next_review ASC NULLS LAST`

	reviews := make([]student.RepertoireReview, 0)
	err := sqlx.SelectContext(ctx, repo.exec, &reviews, query, studentID)
	return reviews, errors.Wrap(err, "querying repertoire reviews")
}

func (repo studentRepository) AssignTechnique(ctx context.Context, studentID, techniqueID int, interval *time.Duration) (student.AssignedTechnique, error) {
	query := `
		INSERT INTO student_techniques (student_id, technique_id, review_interval)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int
	err := sqlx.GetContext(ctx, repo.exec, &id, query, studentID, techniqueID, intervalValue(interval))
	if err != nil {
		return student.AssignedTechnique{}, translateError(err, student.ErrNotFound)
	}

	query = `
		SELECT a.id, a.date_added, t.tonic, t.mode, t.type, t.description,
		       sl.name AS skill_level, t.teacher_id, ` + scheduleColumns + `
		FROM student_techniques a
		JOIN techniques t ON t.id = a.technique_id
		LEFT JOIN skill_levels sl ON sl.id = t.skill_level_id
		WHERE a.id = $1`

	var at student.AssignedTechnique
	err = sqlx.GetContext(ctx, repo.exec, &at, query, id)
	return at, translateError(err, student.ErrTechniqueNotAssigned)
}

func (repo studentRepository) AssignRepertoire(ctx context.Context, studentID, repertoireID int, interval *time.Duration) (student.AssignedRepertoire, error) {
	query := `
		INSERT INTO student_repertoire (student_id, repertoire_id, review_interval)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int
	err := sqlx.GetContext(ctx, repo.exec, &id, query, studentID, repertoireID, intervalValue(interval))
	if err != nil {
		return student.AssignedRepertoire{}, translateError(err, student.ErrNotFound)
	}

	query = `
		SELECT a.id, a.date_added, r.name, r.composer, r.arranger, r.genre,
		       r.sheet_music_url, r.description, sl.name AS skill_level,
		       r.teacher_id, ` + scheduleColumns + `
		FROM student_repertoire a
		JOIN repertoire r ON r.id = a.repertoire_id
		LEFT JOIN skill_levels sl ON sl.id = r.skill_level_id
		WHERE a.id = $1`

	var ar student.AssignedRepertoire
	err = sqlx.GetContext(ctx, repo.exec, &ar, query, id)
	return ar, translateError(err, student.ErrRepertoireNotAssigned)
}

func (repo studentRepository) UnassignTechnique(ctx context.Context, studentID, techniqueID int) error {
	res, err := repo.exec.ExecContext(ctx,
		`DELETE FROM student_techniques WHERE student_id = $1 AND technique_id = $2`, studentID, techniqueID)
	if err != nil {
		return errors.Wrap(err, "unassigning technique")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.ErrTechniqueNotAssigned
	}
	return nil
}

func (repo studentRepository) UnassignRepertoire(ctx context.Context, studentID, repertoireID int) error {
	res, err := repo.exec.ExecContext(ctx,
		`DELETE FROM student_repertoire WHERE student_id = $1 AND repertoire_id = $2`, studentID, repertoireID)
	if err != nil {
		return errors.Wrap(err, "unassigning repertoire")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.ErrRepertoireNotAssigned
	}
	return nil
}

// intervalValue renders a review interval for the INTERVAL column.
func intervalValue(d *time.Duration) interface{} {
	if d == nil {
		return nil
	}
	return fmt.Sprintf("%d seconds", int64(d.Seconds()))
}
