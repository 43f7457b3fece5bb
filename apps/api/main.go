package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/soundtrackapp/soundtrack/apps/api/echo"
	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/lesson"
	"github.com/soundtrackapp/soundtrack/core/repertoire"
	"github.com/soundtrackapp/soundtrack/core/skilllevel"
	"github.com/soundtrackapp/soundtrack/core/student"
	"github.com/soundtrackapp/soundtrack/core/teacher"
	"github.com/soundtrackapp/soundtrack/core/technique"
	emailsvc "github.com/soundtrackapp/soundtrack/services/email"
	logsvc "github.com/soundtrackapp/soundtrack/services/logger"
	"github.com/soundtrackapp/soundtrack/storage/database"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	validate, translator := core.NewValidator()
	teacher.RegisterValidators(validate, translator)

	teacherSvc := teacher.NewService(conf, database.NewTeacherRepository(db), mailSvc)
	studentSvc := student.NewService(database.NewStudentRepository(db))
	skillLevelSvc := skilllevel.NewService(database.NewSkillLevelRepository(db))
	techniqueSvc := technique.NewService(database.NewTechniqueRepository(db))
	repertoireSvc := repertoire.NewService(database.NewRepertoireRepository(db))
	lessonSvc := lesson.NewService(database.NewLessonRepository(db))

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	app := echoapi.NewServer(
		&echoapi.Options{
			Conf:          conf,
			Logger:        logger,
			Validate:      validate,
			Translator:    translator,
			TeacherSvc:    teacherSvc,
			StudentSvc:    studentSvc,
			SkillLevelSvc: skillLevelSvc,
			TechniqueSvc:  techniqueSvc,
			RepertoireSvc: repertoireSvc,
			LessonSvc:     lessonSvc,
		},
	)
	app.Start()
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}
