package main

import (
	"context"

	"github.com/soundtrackapp/soundtrack/core"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	t, err := cli.teacherRepo.GetTeacherByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if err = t.SetPassword(pwd, cli.conf.BcryptCost); err != nil {
		return err
	}
	_, err = cli.teacherRepo.UpdateTeacher(ctx, t.ID, []core.Field{{Name: "password", Value: t.PasswordHash}})
	return err
}
