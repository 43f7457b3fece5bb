package lesson

import (
	"context"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/student"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("lesson not found")
	ErrNotOwned = core.NewUnauthorizedError("")
)

type (
	Repository interface {
		CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error)
		GetLessonByID(ctx context.Context, id int) (Lesson, error)
		// UpdateLesson applies a sparse update; only the provided fields change.
		UpdateLesson(ctx context.Context, id int, fields []core.Field) (Lesson, error)
		DeleteLesson(ctx context.Context, id int) error
		// QueryTechniqueReviews lists the review queue of the lesson's student
		// as it stands for this lesson.
		QueryTechniqueReviews(ctx context.Context, studentID int, includeCompleted bool) ([]student.TechniqueReview, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, caller core.Caller, nl NewLesson) (Lesson, error) {
	if !caller.Owns(nl.TeacherID) {
		return Lesson{}, ErrNotOwned
	}
	return svc.repo.CreateLesson(ctx, nl)
}

func (svc *Service) GetByID(ctx context.Context, caller core.Caller, id int) (Lesson, error) {
	l, err := svc.repo.GetLessonByID(ctx, id)
	if err != nil {
		return Lesson{}, err
	}
	if !caller.Owns(l.TeacherID.String) {
		return Lesson{}, ErrNotOwned
	}
	return l, nil
}

func (svc *Service) Update(ctx context.Context, caller core.Caller, id int, ul UpdateLesson) (Lesson, error) {
	if _, err := svc.GetByID(ctx, caller, id); err != nil {
		return Lesson{}, err
	}
	if ul.TeacherID != nil && !caller.Owns(*ul.TeacherID) {
		return Lesson{}, ErrNotOwned
	}
	return svc.repo.UpdateLesson(ctx, id, ul.Fields())
}

func (svc *Service) Delete(ctx context.Context, caller core.Caller, id int) error {
	if _, err := svc.GetByID(ctx, caller, id); err != nil {
		return err
	}
	return svc.repo.DeleteLesson(ctx, id)
}

// Techniques lists the techniques up for review with the lesson's student.
func (svc *Service) Techniques(ctx context.Context, caller core.Caller, id int, includeCompleted bool) ([]student.TechniqueReview, error) {
	l, err := svc.GetByID(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return svc.repo.QueryTechniqueReviews(ctx, l.StudentID, includeCompleted)
}
