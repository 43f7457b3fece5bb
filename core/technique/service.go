package technique

import (
	"context"

	"github.com/soundtrackapp/soundtrack/core"
)

var (
	ErrNotFound = core.NewNotFoundError("technique not found")
	// ErrExists signals the unique (tonic, mode, type, teacher) constraint.
	ErrExists = core.NewConflictError("this technique already exists for this teacher")
)

type (
	Repository interface {
		CreateTechnique(ctx context.Context, nt NewTechnique) (Technique, error)
		QueryTechniques(ctx context.Context) ([]Technique, error)
		GetTechniqueByID(ctx context.Context, id int) (Technique, error)
		// UpdateTechnique applies a sparse update; only the provided fields change.
		UpdateTechnique(ctx context.Context, id int, fields []core.Field) (Technique, error)
		DeleteTechnique(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nt NewTechnique) (Technique, error) {
	return svc.repo.CreateTechnique(ctx, nt)
}

func (svc *Service) Query(ctx context.Context) ([]Technique, error) {
	return svc.repo.QueryTechniques(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Technique, error) {
	return svc.repo.GetTechniqueByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int, ut UpdateTechnique) (Technique, error) {
	return svc.repo.UpdateTechnique(ctx, id, ut.Fields())
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteTechnique(ctx, id)
}
