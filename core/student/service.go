package student

import (
	"context"
	"time"

	"github.com/soundtrackapp/soundtrack/core"
)

var (
	// errors
	ErrNotFound              = core.NewNotFoundError("student not found")
	ErrEmailExists           = core.NewConflictError("a student with this email already exists")
	ErrTechniqueNotAssigned  = core.NewNotFoundError("technique not assigned to this student")
	ErrRepertoireNotAssigned = core.NewNotFoundError("repertoire not assigned to this student")
	ErrNotOwned              = core.NewUnauthorizedError("")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...int) error
		CreateStudent(ctx context.Context, ns NewStudent) (Student, error)
		QueryStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		GetStudentByID(ctx context.Context, id int) (Student, error)
		// UpdateStudent applies a sparse update; only the provided fields change.
		UpdateStudent(ctx context.Context, id int, fields []core.Field) (Student, error)
		DeleteStudent(ctx context.Context, id int) error
		QueryLessons(ctx context.Context, studentID, daysAgo int) ([]Lesson, error)

		// QueryTechniqueReviews lists a student's assigned techniques with their
		// schedules, ordered by next review (soonest first, unscheduled last).
		// Unless includeCompleted is set, only due items are returned.
		QueryTechniqueReviews(ctx context.Context, studentID int, includeCompleted bool) ([]TechniqueReview, error)
		QueryRepertoireReviews(ctx context.Context, studentID int, includeCompleted bool) ([]RepertoireReview, error)
		AssignTechnique(ctx context.Context, studentID, techniqueID int, interval *time.Duration) (AssignedTechnique, error)
		AssignRepertoire(ctx context.Context, studentID, repertoireID int, interval *time.Duration) (AssignedRepertoire, error)
		UnassignTechnique(ctx context.Context, studentID, techniqueID int) error
		UnassignRepertoire(ctx context.Context, studentID, repertoireID int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...int) error {
	return svc.repo.CheckEmailUniqueness(ctx, email, excludedIDs...)
}

func (svc *Service) Create(ctx context.Context, caller core.Caller, ns NewStudent) (Student, error) {
	if !caller.Owns(ns.TeacherID) {
		return Student{}, ErrNotOwned
	}
	return svc.repo.CreateStudent(ctx, ns)
}

// Query lists students visible to the caller. Non-admin callers only ever see
// their own students, whatever filter they pass.
func (svc *Service) Query(ctx context.Context, caller core.Caller, filter QueryFilter) ([]Student, error) {
	if !caller.IsAdmin {
		if filter.TeacherID != "" && filter.TeacherID != caller.TeacherID {
			return nil, ErrNotOwned
		}
		filter.TeacherID = caller.TeacherID
	}
	return svc.repo.QueryStudents(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, caller core.Caller, id int) (Student, error) {
	st, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if !caller.Owns(st.TeacherID.String) {
		return Student{}, ErrNotOwned
	}
	return st, nil
}

func (svc *Service) Update(ctx context.Context, caller core.Caller, id int, ut UpdateStudent) (Student, error) {
	if _, err := svc.GetByID(ctx, caller, id); err != nil {
		return Student{}, err
	}
	if ut.TeacherID != nil && !caller.Owns(*ut.TeacherID) {
		return Student{}, ErrNotOwned
	}
	return svc.repo.UpdateStudent(ctx, id, ut.Fields())
}

func (svc *Service) Delete(ctx context.Context, caller core.Caller, id int) error {
	if _, err := svc.GetByID(ctx, caller, id); err != nil {
		return err
	}
	return svc.repo.DeleteStudent(ctx, id)
}

// Lessons lists a student's lessons from the last daysAgo days (default 30).
func (svc *Service) Lessons(ctx context.Context, caller core.Caller, id, daysAgo int) ([]Lesson, error) {
	if _, err := svc.GetByID(ctx, caller, id); err != nil {
		return nil, err
	}
	if daysAgo <= 0 {
		daysAgo = 30
	}
	return svc.repo.QueryLessons(ctx, id, daysAgo)
}

func (svc *Service) Techniques(ctx context.Context, caller core.Caller, id int, includeCompleted bool) ([]TechniqueReview, error) {
	if _, err := svc.GetByID(ctx, caller, id); err != nil {
		return nil, err
	}
	return svc.repo.QueryTechniqueReviews(ctx, id, includeCompleted)
}

func (svc *Service) Repertoire(ctx context.Context, caller core.Caller, id int, includeCompleted bool) ([]RepertoireReview, error) {
	if _, err := svc.GetByID(ctx, caller, id); err != nil {
		return nil, err
	}
	return svc.repo.QueryRepertoireReviews(ctx, id, includeCompleted)
}

func (svc *Service) AssignTechnique(ctx context.Context, caller core.Caller, id int, at AssignTechnique) (AssignedTechnique, error) {
	if _, err := svc.GetByID(ctx, caller, id); err != nil {
		return AssignedTechnique{}, err
	}
	interval, err := at.Interval()
	if err != nil {
		return AssignedTechnique{}, err
	}
	return svc.repo.AssignTechnique(ctx, id, at.TechniqueID, interval)
}

func (svc *Service) AssignRepertoire(ctx context.Context, caller core.Caller, id int, ar AssignRepertoire) (AssignedRepertoire, error) {
	if _, err := svc.GetByID(ctx, caller, id); err != nil {
		return AssignedRepertoire{}, err
	}
	interval, err := ar.Interval()
	if err != nil {
		return AssignedRepertoire{}, err
	}
	return svc.repo.AssignRepertoire(ctx, id, ar.RepertoireID, interval)
}

func (svc *Service) UnassignTechnique(ctx context.Context, caller core.Caller, id, techniqueID int) error {
	if _, err := svc.GetByID(ctx, caller, id); err != nil {
		return err
	}
	return svc.repo.UnassignTechnique(ctx, id, techniqueID)
}

func (svc *Service) UnassignRepertoire(ctx context.Context, caller core.Caller, id, repertoireID int) error {
	if _, err := svc.GetByID(ctx, caller, id); err != nil {
		return err
	}
	return svc.repo.UnassignRepertoire(ctx, id, repertoireID)
}
