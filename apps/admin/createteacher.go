package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/teacher"
)

// createTeacher creates a teacher account, or updates the password and admin
// flag of an existing one.
func (cli *commandLine) createTeacher(email, name, pwd string, isAdmin bool) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)
	name = core.CleanString(name)

	t, err := cli.teacherRepo.GetTeacherByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) != teacher.ErrNotFound {
			return err
		}
		t = teacher.Teacher{
			Email:     email,
			Name:      name,
			IsAdmin:   isAdmin,
			DateAdded: time.Now().UTC(),
		}
		if err = t.SetPassword(pwd, cli.conf.BcryptCost); err != nil {
			return err
		}
		_, err = cli.teacherRepo.CreateTeacher(ctx, t)
		return err
	}

	if err = t.SetPassword(pwd, cli.conf.BcryptCost); err != nil {
		return err
	}
	_, err = cli.teacherRepo.UpdateTeacher(ctx, t.ID, []core.Field{
		{Name: "name", Value: name},
		{Name: "password", Value: t.PasswordHash},
		{Name: "isAdmin", Value: isAdmin},
	})
	return err
}
