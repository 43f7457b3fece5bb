package repertoire

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/soundtrackapp/soundtrack/core"
)

// Repertoire is a piece a teacher can assign. SkillLevel carries the joined
// skill level name.
type Repertoire struct {
	ID            int         `db:"id" json:"id"`
	Name          string      `db:"name" json:"name"`
	Composer      string      `db:"composer" json:"composer"`
	Arranger      null.String `db:"arranger" json:"arranger"`
	Genre         string      `db:"genre" json:"genre"`
	SheetMusicURL null.String `db:"sheet_music_url" json:"sheetMusicUrl"`
	Description   null.String `db:"description" json:"description"`
	DateAdded     time.Time   `db:"date_added" json:"dateAdded"`
	SkillLevel    null.String `db:"skill_level" json:"skillLevel"`
	TeacherID     null.String `db:"teacher_id" json:"teacherId"`
}

// NewRepertoire contains information needed to create a new Repertoire item.
type NewRepertoire struct {
	Name          string `json:"name" validate:"required"`
	Composer      string `json:"composer" validate:"required,max=50"`
	Arranger      string `json:"arranger" validate:"omitempty,max=50"`
	Genre         string `json:"genre" validate:"required"`
	SheetMusicURL string `json:"sheetMusicUrl" validate:"omitempty,url"`
	Description   string `json:"description"`
	SkillLevelID  *int   `json:"skillLevelId"`
	TeacherID     string `json:"teacherId" validate:"required"`
}

func (nr *NewRepertoire) Validate(validate *validator.Validate) error {
	nr.Name = core.CleanString(nr.Name)
	nr.Composer = core.CleanString(nr.Composer)
	nr.Arranger = core.CleanString(nr.Arranger)
	nr.Genre = core.CleanString(nr.Genre)
	return validate.Struct(nr)
}

// UpdateRepertoire defines what information may be provided to modify an
// existing Repertoire item. Nil fields are left untouched.
type UpdateRepertoire struct {
	Name          *string `json:"name"`
	Composer      *string `json:"composer" validate:"omitempty,max=50"`
	Arranger      *string `json:"arranger" validate:"omitempty,max=50"`
	Genre         *string `json:"genre"`
	SheetMusicURL *string `json:"sheetMusicUrl" validate:"omitempty,url"`
	Description   *string `json:"description"`
	SkillLevelID  *int    `json:"skillLevelId"`
}

func (ur *UpdateRepertoire) Validate(validate *validator.Validate) error {
	return validate.Struct(ur)
}

func (ur UpdateRepertoire) Fields() []core.Field {
	var flds []core.Field
	if ur.Name != nil {
		flds = append(flds, core.Field{Name: "name", Value: *ur.Name})
	}
	if ur.Composer != nil {
		flds = append(flds, core.Field{Name: "composer", Value: *ur.Composer})
	}
	if ur.Arranger != nil {
		flds = append(flds, core.Field{Name: "arranger", Value: *ur.Arranger})
	}
	if ur.Genre != nil {
		flds = append(flds, core.Field{Name: "genre", Value: *ur.Genre})
	}
	if ur.SheetMusicURL != nil {
		flds = append(flds, core.Field{Name: "sheetMusicUrl", Value: *ur.SheetMusicURL})
	}
	if ur.Description != nil {
		flds = append(flds, core.Field{Name: "description", Value: *ur.Description})
	}
	if ur.SkillLevelID != nil {
		flds = append(flds, core.Field{Name: "skillLevelId", Value: *ur.SkillLevelID})
	}
	return flds
}
