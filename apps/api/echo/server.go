package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/lesson"
	"github.com/soundtrackapp/soundtrack/core/repertoire"
	"github.com/soundtrackapp/soundtrack/core/skilllevel"
	"github.com/soundtrackapp/soundtrack/core/student"
	"github.com/soundtrackapp/soundtrack/core/teacher"
	"github.com/soundtrackapp/soundtrack/core/technique"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

		TeacherSvc    *teacher.Service
		StudentSvc    *student.Service
		SkillLevelSvc *skilllevel.Service
		TechniqueSvc  *technique.Service
		RepertoireSvc *repertoire.Service
		LessonSvc     *lesson.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		jwt      *jwtAuth
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		jwt:      newJWTAuth(opts.Conf),
		shutdown: make(chan struct{}, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	loggedIn := s.jwt.middleware()
	s.registerAuthAPI(s.app.Group("/auth"))
	s.registerTeacherAPI(s.app.Group("/teachers"), loggedIn)
	s.registerStudentAPI(s.app.Group("/students", loggedIn))
	s.registerSkillLevelAPI(s.app.Group("/skill-levels"), loggedIn)
	s.registerTechniqueAPI(s.app.Group("/techniques", loggedIn))
	s.registerRepertoireAPI(s.app.Group("/repertoire", loggedIn))
	s.registerLessonAPI(s.app.Group("/lessons", loggedIn))
}

func (s *server) Start() {
	go func() {
		<-s.shutdown
		s.app.Logger.Error("shutdown signal received, stopping")
		_ = s.Stop(context.Background())
	}()
	s.app.Logger.Fatal(s.app.Start(s.opts.Conf.Server.Address()))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Soundtrack API!")
}
