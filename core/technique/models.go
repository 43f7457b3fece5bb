package technique

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/soundtrackapp/soundtrack/core"
)

// Technique is a scale or exercise a teacher can assign, identified by its
// tonic, mode and type. SkillLevel carries the joined skill level name.
type Technique struct {
	ID          int         `db:"id" json:"id"`
	Tonic       string      `db:"tonic" json:"tonic"`
	Mode        string      `db:"mode" json:"mode"`
	Type        string      `db:"type" json:"type"`
	Description null.String `db:"description" json:"description"`
	DateAdded   time.Time   `db:"date_added" json:"dateAdded"`
	SkillLevel  null.String `db:"skill_level" json:"skillLevel"`
	TeacherID   null.String `db:"teacher_id" json:"teacherId"`
}

// NewTechnique contains information needed to create a new Technique.
type NewTechnique struct {
	Tonic        string `json:"tonic" validate:"required,max=2"`
	Mode         string `json:"mode" validate:"required"`
	Type         string `json:"type" validate:"required"`
	Description  string `json:"description"`
	SkillLevelID *int   `json:"skillLevelId"`
	TeacherID    string `json:"teacherId" validate:"required"`
}

func (nt *NewTechnique) Validate(validate *validator.Validate) error {
	nt.Tonic = core.CleanString(nt.Tonic)
	nt.Mode = core.CleanString(nt.Mode)
	nt.Type = core.CleanString(nt.Type)
	return validate.Struct(nt)
}

// UpdateTechnique defines what information may be provided to modify an
// existing Technique. Nil fields are left untouched.
type UpdateTechnique struct {
	Tonic        *string `json:"tonic" validate:"omitempty,max=2"`
	Mode         *string `json:"mode"`
	Type         *string `json:"type"`
	Description  *string `json:"description"`
	SkillLevelID *int    `json:"skillLevelId"`
}

func (ut *UpdateTechnique) Validate(validate *validator.Validate) error {
	return validate.Struct(ut)
}

func (ut UpdateTechnique) Fields() []core.Field {
	var flds []core.Field
	if ut.Tonic != nil {
		flds = append(flds, core.Field{Name: "tonic", Value: *ut.Tonic})
	}
	if ut.Mode != nil {
		flds = append(flds, core.Field{Name: "mode", Value: *ut.Mode})
	}
	if ut.Type != nil {
		flds = append(flds, core.Field{Name: "type", Value: *ut.Type})
	}
	if ut.Description != nil {
		flds = append(flds, core.Field{Name: "description", Value: *ut.Description})
	}
	if ut.SkillLevelID != nil {
		flds = append(flds, core.Field{Name: "skillLevelId", Value: *ut.SkillLevelID})
	}
	return flds
}
