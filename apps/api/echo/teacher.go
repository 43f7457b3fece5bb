package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/teacher"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	// RegisterRequest is the open registration payload; unlike the admin
	// endpoint it cannot grant admin rights.
	RegisterRequest struct {
		Email       string `json:"email" validate:"required,email"`
		Password    string `json:"password" validate:"required"`
		Name        string `json:"name" validate:"required,max=50"`
		Description string `json:"description"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}
)

type teacherAPI struct {
	svc      *teacher.Service
	jwt      *jwtAuth
	validate *validator.Validate
}

func (s *server) registerAuthAPI(g *echo.Group) {
	api := teacherAPI{svc: s.opts.TeacherSvc, jwt: s.jwt, validate: s.opts.Validate}

	g.POST("/token", api.login)
	g.POST("/register", api.register)
}

func (s *server) registerTeacherAPI(g *echo.Group, loggedIn echo.MiddlewareFunc) {
	api := teacherAPI{svc: s.opts.TeacherSvc, jwt: s.jwt, validate: s.opts.Validate}

	// un-authed endpoints
	g.POST("/password-reset", api.requestPasswordReset)
	g.POST("/password-reset-confirm", api.confirmPasswordReset)

	g.POST("", api.create, loggedIn, adminMiddleware())
	g.GET("", api.query, loggedIn, adminMiddleware())

	// detail endpoints
	dg := g.Group("/:id", loggedIn, correctTeacherOrAdminMiddleware("id", ""))
	dg.GET("", api.retrieve)
	dg.PATCH("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/lessons", api.lessons)
	dg.GET("/techniques", api.techniques)
	dg.GET("/repertoire", api.repertoire)
}

// Handlers

func (api teacherAPI) login(ctx echo.Context) error {
	data := new(LoginRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	t, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return err
	}
	token, err := api.jwt.GenerateToken(t)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api teacherAPI) register(ctx echo.Context) error {
	data := new(RegisterRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	nt := teacher.NewTeacher{
		Email:       data.Email,
		Password:    data.Password,
		Name:        data.Name,
		Description: data.Description,
	}
	if err := nt.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	t, err := api.svc.Register(ctx.Request().Context(), nt)
	if err != nil {
		return err
	}
	token, err := api.jwt.GenerateToken(t)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, LoginResponse{Token: token})
}

func (api teacherAPI) create(ctx echo.Context) error {
	data := new(teacher.NewTeacher)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	t, err := api.svc.Register(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	token, err := api.jwt.GenerateToken(t)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"teacher": t, "token": token})
}

func (api teacherAPI) query(ctx echo.Context) error {
	teachers, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"teachers": teachers})
}

func (api teacherAPI) retrieve(ctx echo.Context) error {
	t, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"teacher": t})
}

func (api teacherAPI) update(ctx echo.Context) error {
	data := new(teacher.UpdateTeacher)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	// only admins may grant or revoke admin rights
	if data.IsAdmin != nil {
		caller, err := getContextCaller(ctx)
		if err != nil {
			return err
		}
		if !caller.IsAdmin {
			return errUnauthorized
		}
	}

	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = data.Validate(ctx.Request().Context(), orig, api.validate, api.svc); err != nil {
		return err
	}

	t, err := api.svc.Update(ctx.Request().Context(), orig.ID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"teacher": t})
}

func (api teacherAPI) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"deleted": id})
}

func (api teacherAPI) lessons(ctx echo.Context) error {
	daysAgo, err := queryInt(ctx, "daysAgo")
	if err != nil {
		return err
	}

	lessons, err := api.svc.Lessons(ctx.Request().Context(), ctx.Param("id"), daysAgo)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"lessons": lessons})
}

func (api teacherAPI) techniques(ctx echo.Context) error {
	techniques, err := api.svc.Techniques(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"techniques": techniques})
}

func (api teacherAPI) repertoire(ctx echo.Context) error {
	reps, err := api.svc.Repertoire(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"repertoire": reps})
}

func (api teacherAPI) requestPasswordReset(ctx echo.Context) error {
	data := new(PasswordResetRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	// unknown emails get the same response; no account enumeration
	if err := api.svc.RequestPasswordReset(ctx.Request().Context(), data.Email); err != nil {
		if errors.Cause(err) != teacher.ErrNotFound {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"detail": "a reset link has been sent if the account exists"})
}

func (api teacherAPI) confirmPasswordReset(ctx echo.Context) error {
	data := new(teacher.ResetTeacherPassword)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.ResetPassword(ctx.Request().Context(), *data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"detail": "password has been reset"})
}

// queryInt parses an optional integer query parameter; 0 means "not set".
func queryInt(ctx echo.Context, name string) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be a number"})
	}
	return val, nil
}
