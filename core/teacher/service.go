package teacher

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/repertoire"
	"github.com/soundtrackapp/soundtrack/core/technique"
)

var (
	// errors
	ErrNotFound     = core.NewNotFoundError("teacher not found")
	ErrEmailExists  = core.NewConflictError("a teacher with this email already exists")
	ErrInvalidCreds = core.NewUnauthorizedError("Invalid email or password")
	ErrInvalidToken = core.NewValidationError(errors.New("invalid token"))
	ErrTokenExpired = core.NewValidationError(errors.New("token expired"))
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...string) error
		CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		QueryTeachers(ctx context.Context) ([]Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		GetTeacherByEmail(ctx context.Context, email string) (Teacher, error)
		// UpdateTeacher applies a sparse update; only the provided fields change.
		UpdateTeacher(ctx context.Context, id string, fields []core.Field) (Teacher, error)
		DeleteTeacher(ctx context.Context, id string) error
		QueryLessons(ctx context.Context, teacherID string, daysAgo int) ([]Lesson, error)
		QueryTechniques(ctx context.Context, teacherID string) ([]technique.Technique, error)
		QueryRepertoire(ctx context.Context, teacherID string) ([]repertoire.Repertoire, error)
	}

	Service struct {
		conf    *core.Config
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) *Service {
	return &Service{
		conf:    conf,
		repo:    repo,
		mailSvc: mailSvc,
	}
}

func (svc *Service) CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...string) error {
	return svc.repo.CheckEmailUniqueness(ctx, email, excludedIDs...)
}

func (svc *Service) Register(ctx context.Context, nt NewTeacher) (Teacher, error) {
	t := Teacher{
		Email:     nt.Email,
		Name:      nt.Name,
		IsAdmin:   nt.IsAdmin,
		DateAdded: time.Now().UTC(),
	}
	if nt.Description != "" {
		t.Description.SetValid(nt.Description)
	}
	if err := t.SetPassword(nt.Password, svc.conf.BcryptCost); err != nil {
		return Teacher{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateTeacher(ctx, t)
}

// Authenticate checks a teacher's credentials. Unknown emails and wrong
// passwords fail with the same signal.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (Teacher, error) {
	t, err := svc.repo.GetTeacherByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Teacher{}, ErrInvalidCreds
		}
		return Teacher{}, errors.Wrap(err, "finding teacher by email")
	}
	if err = t.CheckPassword(pwd); err != nil {
		return Teacher{}, ErrInvalidCreds
	}
	return t, nil
}

func (svc *Service) Query(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Teacher, error) {
	return svc.repo.GetTeacherByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error) {
	var hash []byte
	if ut.Password != nil {
		var t Teacher
		if err := t.SetPassword(*ut.Password, svc.conf.BcryptCost); err != nil {
			return Teacher{}, errors.Wrap(err, "hashing password")
		}
		hash = t.PasswordHash
	}
	return svc.repo.UpdateTeacher(ctx, id, ut.fields(hash))
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteTeacher(ctx, id)
}

// Lessons lists a teacher's lessons from the last daysAgo days (default 30).
func (svc *Service) Lessons(ctx context.Context, id string, daysAgo int) ([]Lesson, error) {
	if _, err := svc.repo.GetTeacherByID(ctx, id); err != nil {
		return nil, err
	}
	if daysAgo <= 0 {
		daysAgo = 30
	}
	return svc.repo.QueryLessons(ctx, id, daysAgo)
}

func (svc *Service) Techniques(ctx context.Context, id string) ([]technique.Technique, error) {
	if _, err := svc.repo.GetTeacherByID(ctx, id); err != nil {
		return nil, err
	}
	return svc.repo.QueryTechniques(ctx, id)
}

func (svc *Service) Repertoire(ctx context.Context, id string) ([]repertoire.Repertoire, error) {
	if _, err := svc.repo.GetTeacherByID(ctx, id); err != nil {
		return nil, err
	}
	return svc.repo.QueryRepertoire(ctx, id)
}

// RequestPasswordReset emails a password reset link to the teacher with the
// given email, if one exists.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	t, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := MakeToken(svc.conf, t)
	if err != nil {
		return errors.Wrap(err, "making token")
	}

	url := fmt.Sprintf("%s/password-reset?uid=%s&token=%s", svc.conf.FrontendBaseURL, EncodeUID(t), token)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: t.Name, Address: t.Email}},
		Subject: "Password Reset",
		TextContent: fmt.Sprintf(
			"Hi %s,\n\nFollow the link below to reset your password:\n%s\n", t.Name, url),
	})
	return nil
}

func (svc *Service) ResetPassword(ctx context.Context, rp ResetTeacherPassword) error {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return ErrInvalidToken
	}
	t, err := svc.repo.GetTeacherByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return ErrInvalidToken
		}
		return errors.Wrap(err, "finding teacher by ID")
	}
	if err = verifyToken(svc.conf, t, rp.Token); err != nil {
		return err
	}
	if err = t.SetPassword(rp.Password, svc.conf.BcryptCost); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	_, err = svc.repo.UpdateTeacher(ctx, t.ID, []core.Field{{Name: "password", Value: t.PasswordHash}})
	return err
}

func (ut UpdateTeacher) fields(passwordHash []byte) []core.Field {
	var flds []core.Field
	if ut.Name != nil {
		flds = append(flds, core.Field{Name: "name", Value: *ut.Name})
	}
	if ut.Email != nil {
		flds = append(flds, core.Field{Name: "email", Value: *ut.Email})
	}
	if passwordHash != nil {
		flds = append(flds, core.Field{Name: "password", Value: passwordHash})
	}
	if ut.Description != nil {
		flds = append(flds, core.Field{Name: "description", Value: *ut.Description})
	}
	if ut.IsAdmin != nil {
		flds = append(flds, core.Field{Name: "isAdmin", Value: *ut.IsAdmin})
	}
	return flds
}
