package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/skilllevel"
)

type skillLevelRepository struct {
	exec core.DBExecutor
}

var _ skilllevel.Repository = (*skillLevelRepository)(nil) // interface compliance check

func NewSkillLevelRepository(exec core.DBExecutor) *skillLevelRepository {
	return &skillLevelRepository{exec: exec}
}

func (repo skillLevelRepository) CreateSkillLevel(ctx context.Context, name string) (skilllevel.SkillLevel, error) {
	query := `INSERT INTO skill_levels (name) VALUES ($1) RETURNING id, name`

	var sl skilllevel.SkillLevel
	err := sqlx.GetContext(ctx, repo.exec, &sl, query, name)
	return sl, translateError(err, skilllevel.ErrNotFound)
}

func (repo skillLevelRepository) QuerySkillLevels(ctx context.Context) ([]skilllevel.SkillLevel, error) {
	query := `SELECT id, name FROM skill_levels ORDER BY id`

	levels := make([]skilllevel.SkillLevel, 0)
	err := sqlx.SelectContext(ctx, repo.exec, &levels, query)
	return levels, errors.Wrap(err, "querying skill levels")
}

func (repo skillLevelRepository) GetSkillLevelByID(ctx context.Context, id int) (skilllevel.SkillLevel, error) {
	query := `SELECT id, name FROM skill_levels WHERE id = $1`

	var sl skilllevel.SkillLevel
	err := sqlx.GetContext(ctx, repo.exec, &sl, query, id)
	return sl, translateError(err, skilllevel.ErrNotFound)
}

func (repo skillLevelRepository) DeleteSkillLevel(ctx context.Context, id int) error {
	res, err := repo.exec.ExecContext(ctx, `DELETE FROM skill_levels WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting skill level")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return skilllevel.ErrNotFound
	}
	return nil
}
