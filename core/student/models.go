package student

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/soundtrackapp/soundtrack/core"
)

type (
	Student struct {
		ID           int         `db:"id" json:"id"`
		Name         string      `db:"name" json:"name"`
		Email        string      `db:"email" json:"email"`
		Description  null.String `db:"description" json:"description"`
		SkillLevelID null.Int    `db:"skill_level_id" json:"skillLevelId"`
		SkillLevel   null.String `db:"skill_level" json:"skillLevel"`
		TeacherID    null.String `db:"teacher_id" json:"teacherId"`
		DateAdded    time.Time   `db:"date_added" json:"dateAdded"`
	}

	NewStudent struct {
		Name         string `json:"name" validate:"required"`
		Email        string `json:"email" validate:"required,email"`
		Description  string `json:"description"`
		SkillLevelID *int   `json:"skillLevelId"`
		TeacherID    string `json:"teacherId" validate:"required,uuid4"`
	}

	UpdateStudent struct {
		Name         *string `json:"name" validate:"omitempty,min=1"`
		Email        *string `json:"email" validate:"omitempty,email"`
		Description  *string `json:"description"`
		SkillLevelID *int    `json:"skillLevelId"`
		TeacherID    *string `json:"teacherId" validate:"omitempty,uuid4"`
	}

	// QueryFilter narrows a student listing. Zero values mean "no filter".
	QueryFilter struct {
		Name         string `query:"name"`
		SkillLevelID *int   `query:"skillLevelId"`
		TeacherID    string `query:"teacherId"`
	}

	// Lesson is the overview row shown on a student's lesson history.
	Lesson struct {
		ID          int         `db:"id" json:"id"`
		TeacherName null.String `db:"teacher_name" json:"teacherName"`
		Date        time.Time   `db:"date" json:"date"`
	}
)

func (ns *NewStudent) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true)
	ns.Description = core.CleanString(ns.Description)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ctx, ns.Email)
}

func (ut *UpdateStudent) Validate(ctx context.Context, orig Student, validate *validator.Validate, svc *Service) error {
	if ut.Name != nil {
		*ut.Name = core.CleanString(*ut.Name)
	}
	if ut.Email != nil {
		*ut.Email = core.CleanString(*ut.Email, true)
	}
	if ut.Description != nil {
		*ut.Description = core.CleanString(*ut.Description)
	}

	if err := validate.Struct(ut); err != nil {
		return err
	}
	if ut.Email != nil && *ut.Email != orig.Email {
		return svc.CheckEmailUniqueness(ctx, *ut.Email, orig.ID)
	}
	return nil
}

// Fields flattens the set fields into an ordered list for a sparse update.
func (ut UpdateStudent) Fields() []core.Field {
	var fields []core.Field
	if ut.Name != nil {
		fields = append(fields, core.Field{Name: "name", Value: *ut.Name})
	}
	if ut.Email != nil {
		fields = append(fields, core.Field{Name: "email", Value: *ut.Email})
	}
	if ut.Description != nil {
		fields = append(fields, core.Field{Name: "description", Value: *ut.Description})
	}
	if ut.SkillLevelID != nil {
		fields = append(fields, core.Field{Name: "skillLevelId", Value: *ut.SkillLevelID})
	}
	if ut.TeacherID != nil {
		fields = append(fields, core.Field{Name: "teacherId", Value: *ut.TeacherID})
	}
	return fields
}

type (
	AssignTechnique struct {
		TechniqueID        int      `json:"techniqueId" validate:"required"`
		ReviewIntervalDays *float64 `json:"reviewIntervalDays"`
	}

	AssignRepertoire struct {
		RepertoireID       int      `json:"repertoireId" validate:"required"`
		ReviewIntervalDays *float64 `json:"reviewIntervalDays"`
	}
)

// Interval converts the requested review cadence into a duration.
// A missing cadence means the item is assigned for one-off completion.
func (at AssignTechnique) Interval() (*time.Duration, error) {
	return intervalFromDays(at.ReviewIntervalDays)
}

func (ar AssignRepertoire) Interval() (*time.Duration, error) {
	return intervalFromDays(ar.ReviewIntervalDays)
}

func intervalFromDays(days *float64) (*time.Duration, error) {
	if days == nil {
		return nil, nil
	}
	if math.IsNaN(*days) || math.IsInf(*days, 0) {
		return nil, core.NewValidationError(errors.New("'reviewIntervalDays' must be a number"))
	}
	d := time.Duration(*days * float64(24*time.Hour))
	return &d, nil
}
