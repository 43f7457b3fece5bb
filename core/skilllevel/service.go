package skilllevel

import (
	"context"

	"github.com/soundtrackapp/soundtrack/core"
)

var (
	ErrNotFound   = core.NewNotFoundError("skill level not found")
	ErrNameExists = core.NewConflictError("a skill level with this name already exists")
)

type (
	Repository interface {
		CreateSkillLevel(ctx context.Context, name string) (SkillLevel, error)
		QuerySkillLevels(ctx context.Context) ([]SkillLevel, error)
		GetSkillLevelByID(ctx context.Context, id int) (SkillLevel, error)
		// DeleteSkillLevel removes the level; referencing students, techniques
		// and repertoire keep running with a null skill level.
		DeleteSkillLevel(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nl NewSkillLevel) (SkillLevel, error) {
	return svc.repo.CreateSkillLevel(ctx, nl.Name)
}

func (svc *Service) Query(ctx context.Context) ([]SkillLevel, error) {
	return svc.repo.QuerySkillLevels(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (SkillLevel, error) {
	return svc.repo.GetSkillLevelByID(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteSkillLevel(ctx, id)
}
