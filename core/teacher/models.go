package teacher

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/soundtrackapp/soundtrack/core"
)

type Teacher struct {
	ID           string      `db:"id" json:"id"`
	Email        string      `db:"email" json:"email"`
	PasswordHash []byte      `db:"password" json:"-"`
	Name         string      `db:"name" json:"name"`
	Description  null.String `db:"description" json:"description"`
	IsAdmin      bool        `db:"is_admin" json:"isAdmin"`
	DateAdded    time.Time   `db:"date_added" json:"dateAdded"` // UTC
}

func (t *Teacher) SetPassword(pwd string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), cost)
	if err != nil {
		return err
	}
	t.PasswordHash = hash
	return nil
}

func (t *Teacher) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(t.PasswordHash, []byte(pwd))
}

// Lesson is a lesson overview as listed for a teacher.
type Lesson struct {
	ID          int       `db:"id" json:"id"`
	StudentName string    `db:"student_name" json:"studentName"`
	Date        time.Time `db:"date" json:"date"`
}

// NewTeacher contains information needed to register a new Teacher.
type NewTeacher struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description"`
	IsAdmin     bool   `json:"isAdmin"`
}

func (nt *NewTeacher) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.Name = core.CleanString(nt.Name)
	nt.Description = core.CleanString(nt.Description)

	if err := validate.Struct(nt); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ctx, nt.Email)
}

// UpdateTeacher defines what information may be provided to modify an existing
// Teacher. Nil fields are left untouched.
type UpdateTeacher struct {
	Name        *string `json:"name" validate:"omitempty,max=50"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    *string `json:"password"`
	Description *string `json:"description"`
	IsAdmin     *bool   `json:"isAdmin"`
}

func (ut *UpdateTeacher) Validate(ctx context.Context, orig Teacher, validate *validator.Validate, svc *Service) error {
	if ut.Email != nil {
		email := core.CleanString(*ut.Email, true /* lower */)
		ut.Email = &email
	}
	if ut.Name != nil {
		name := core.CleanString(*ut.Name)
		ut.Name = &name
	}

	if err := validate.Struct(ut); err != nil {
		return err
	}
	if ut.Email != nil && *ut.Email != orig.Email {
		return svc.CheckEmailUniqueness(ctx, *ut.Email, orig.ID)
	}
	return nil
}

type ResetTeacherPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetTeacherPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}
