package repertoire

import (
	"context"

	"github.com/soundtrackapp/soundtrack/core"
)

var ErrNotFound = core.NewNotFoundError("repertoire not found")

type (
	Repository interface {
		CreateRepertoire(ctx context.Context, nr NewRepertoire) (Repertoire, error)
		QueryRepertoire(ctx context.Context) ([]Repertoire, error)
		GetRepertoireByID(ctx context.Context, id int) (Repertoire, error)
		// UpdateRepertoire applies a sparse update; only the provided fields change.
		UpdateRepertoire(ctx context.Context, id int, fields []core.Field) (Repertoire, error)
		DeleteRepertoire(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nr NewRepertoire) (Repertoire, error) {
	return svc.repo.CreateRepertoire(ctx, nr)
}

func (svc *Service) Query(ctx context.Context) ([]Repertoire, error) {
	return svc.repo.QueryRepertoire(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Repertoire, error) {
	return svc.repo.GetRepertoireByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int, ur UpdateRepertoire) (Repertoire, error) {
	return svc.repo.UpdateRepertoire(ctx, id, ur.Fields())
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteRepertoire(ctx, id)
}
