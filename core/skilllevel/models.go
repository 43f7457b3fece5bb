package skilllevel

import (
	"github.com/go-playground/validator/v10"

	"github.com/soundtrackapp/soundtrack/core"
)

type SkillLevel struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// NewSkillLevel contains information needed to create a new SkillLevel.
type NewSkillLevel struct {
	Name string `json:"name" validate:"required"`
}

func (nl *NewSkillLevel) Validate(validate *validator.Validate) error {
	nl.Name = core.CleanString(nl.Name)
	return validate.Struct(nl)
}
