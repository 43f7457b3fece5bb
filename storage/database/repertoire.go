package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/repertoire"
)

const repertoireColumns = `
	r.id, r.name, r.composer, r.arranger, r.genre, r.sheet_music_url,
	r.description, r.date_added, sl.name AS skill_level, r.teacher_id`

var repertoireFieldAliases = map[string]string{
	"sheetMusicUrl": "sheet_music_url",
	"skillLevelId":  "skill_level_id",
}

type repertoireRepository struct {
	exec core.DBExecutor
}

var _ repertoire.Repository = (*repertoireRepository)(nil) // interface compliance check

func NewRepertoireRepository(exec core.DBExecutor) *repertoireRepository {
	return &repertoireRepository{exec: exec}
}

func (repo repertoireRepository) CreateRepertoire(ctx context.Context, nr repertoire.NewRepertoire) (repertoire.Repertoire, error) {
	query := `
		INSERT INTO repertoire (name, composer, arranger, genre, sheet_music_url, description, skill_level_id, teacher_id)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)
		RETURNING id`

	var id int
	err := sqlx.GetContext(ctx, repo.exec, &id, query,
		nr.Name, nr.Composer, nr.Arranger, nr.Genre, nr.SheetMusicURL, nr.Description, nr.SkillLevelID, nr.TeacherID)
	if err != nil {
		return repertoire.Repertoire{}, translateError(err, repertoire.ErrNotFound)
	}
	return repo.GetRepertoireByID(ctx, id)
}

func (repo repertoireRepository) QueryRepertoire(ctx context.Context) ([]repertoire.Repertoire, error) {
	query := `
		SELECT ` + repertoireColumns + `
		FROM repertoire r
		LEFT JOIN skill_levels sl ON sl.id = r.skill_level_id
		ORDER BY r.id`

	reps := make([]repertoire.Repertoire, 0)
	err := sqlx.SelectContext(ctx, repo.exec, &reps, query)
	return reps, errors.Wrap(err, "querying repertoire")
}

func (repo repertoireRepository) GetRepertoireByID(ctx context.Context, id int) (repertoire.Repertoire, error) {
	query := `
		SELECT ` + repertoireColumns + `
		FROM repertoire r
		LEFT JOIN skill_levels sl ON sl.id = r.skill_level_id
		WHERE r.id = $1`

	var r repertoire.Repertoire
	err := sqlx.GetContext(ctx, repo.exec, &r, query, id)
	return r, translateError(err, repertoire.ErrNotFound)
}

func (repo repertoireRepository) UpdateRepertoire(ctx context.Context, id int, fields []core.Field) (repertoire.Repertoire, error) {
	setCols, values, err := partialUpdate(fields, repertoireFieldAliases)
	if err != nil {
		return repertoire.Repertoire{}, err
	}

	// update first, then re-select to pick up the joined skill level name
	query := fmt.Sprintf(`UPDATE repertoire SET %s WHERE id = $%d RETURNING id`, setCols, len(values)+1)

	var updatedID int
	if err = sqlx.GetContext(ctx, repo.exec, &updatedID, query, append(values, id)...); err != nil {
		return repertoire.Repertoire{}, translateError(err, repertoire.ErrNotFound)
	}
	return repo.GetRepertoireByID(ctx, updatedID)
}

func (repo repertoireRepository) DeleteRepertoire(ctx context.Context, id int) error {
	res, err := repo.exec.ExecContext(ctx, `DELETE FROM repertoire WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting repertoire")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repertoire.ErrNotFound
	}
	return nil
}
