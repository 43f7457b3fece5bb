package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/teacher"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf        *core.Config
	db          *sqlx.DB
	teacherRepo teacher.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run database migrations (up, up-to, down, down-to, redo, reset, status, version)")
	fmt.Println("  createteacher -email EMAIL -name NAME [-admin] - create or update a teacher account")
	fmt.Println("  resetpassword -email EMAIL - reset a teacher's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createTeacherCmd := flag.NewFlagSet("createteacher", flag.ExitOnError)
	createTeacherEmail := createTeacherCmd.String("email", "", "The teacher's email. The password will be prompted next.")
	createTeacherName := createTeacherCmd.String("name", "", "The teacher's full name.")
	createTeacherAdmin := createTeacherCmd.Bool("admin", false, "Grant admin rights.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The teacher's email. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "createteacher":
		if err := createTeacherCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createTeacherEmail == "" || *createTeacherName == "" {
			createTeacherCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				createTeacherCmd.Usage()
			}
			return err
		}
		return cli.createTeacher(*createTeacherEmail, *createTeacherName, pwd, *createTeacherAdmin)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				resetPasswordCmd.Usage()
			}
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errHelp
	}
	return string(pwd), nil
}
