package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/technique"
)

const techniqueColumns = `
	t.id, t.tonic, t.mode, t.type, t.description, t.date_added,
	sl.name AS skill_level, t.teacher_id`

var techniqueFieldAliases = map[string]string{
	"skillLevelId": "skill_level_id",
}

type techniqueRepository struct {
	exec core.DBExecutor
}

var _ technique.Repository = (*techniqueRepository)(nil) // interface compliance check

func NewTechniqueRepository(exec core.DBExecutor) *techniqueRepository {
	return &techniqueRepository{exec: exec}
}

func (repo techniqueRepository) CreateTechnique(ctx context.Context, nt technique.NewTechnique) (technique.Technique, error) {
	query := `
		INSERT INTO techniques (tonic, mode, type, description, skill_level_id, teacher_id)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
		RETURNING id`

	var id int
	err := sqlx.GetContext(ctx, repo.exec, &id, query,
		nt.Tonic, nt.Mode, nt.Type, nt.Description, nt.SkillLevelID, nt.TeacherID)
	if err != nil {
		return technique.Technique{}, translateError(err, technique.ErrNotFound)
	}
	return repo.GetTechniqueByID(ctx, id)
}

func (repo techniqueRepository) QueryTechniques(ctx context.Context) ([]technique.Technique, error) {
	query := `
		SELECT ` + techniqueColumns + `
		FROM techniques t
		LEFT JOIN skill_levels sl ON sl.id = t.skill_level_id
		ORDER BY t.id`

	techniques := make([]technique.Technique, 0)
	err := sqlx.SelectContext(ctx, repo.exec, &techniques, query)
	return techniques, errors.Wrap(err, "querying techniques")
}

func (repo techniqueRepository) GetTechniqueByID(ctx context.Context, id int) (technique.Technique, error) {
	query := `
		SELECT ` + techniqueColumns + `
		FROM techniques t
		LEFT JOIN skill_levels sl ON sl.id = t.skill_level_id
		WHERE t.id = $1`

	var t technique.Technique
	err := sqlx.GetContext(ctx, repo.exec, &t, query, id)
	return t, translateError(err, technique.ErrNotFound)
}

func (repo techniqueRepository) UpdateTechnique(ctx context.Context, id int, fields []core.Field) (technique.Technique, error) {
	setCols, values, err := partialUpdate(fields, techniqueFieldAliases)
	if err != nil {
		return technique.Technique{}, err
	}

	// update first, then re-select to pick up the joined skill level name
	query := fmt.Sprintf(`UPDATE techniques SET %s WHERE id = $%d RETURNING id`, setCols, len(values)+1)

	var updatedID int
	if err = sqlx.GetContext(ctx, repo.exec, &updatedID, query, append(values, id)...); err != nil {
		return technique.Technique{}, translateError(err, technique.ErrNotFound)
	}
	return repo.GetTechniqueByID(ctx, updatedID)
}

func (repo techniqueRepository) DeleteTechnique(ctx context.Context, id int) error {
	res, err := repo.exec.ExecContext(ctx, `DELETE FROM techniques WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting technique")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return technique.ErrNotFound
	}
	return nil
}
