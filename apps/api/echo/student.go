package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/student"
)

type studentAPI struct {
	svc      *student.Service
	validate *validator.Validate
}

func (s *server) registerStudentAPI(g *echo.Group) {
	api := studentAPI{svc: s.opts.StudentSvc, validate: s.opts.Validate}

	g.GET("", api.query, correctTeacherOrAdminMiddleware("", "teacherId"))
	g.POST("", api.create)

	// detail endpoints; ownership is enforced by the caller-scoped service
	dg := g.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PATCH("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/lessons", api.lessons)
	dg.GET("/techniques", api.techniques)
	dg.POST("/techniques", api.assignTechnique)
	dg.DELETE("/techniques/:techniqueId", api.unassignTechnique)
	dg.GET("/repertoire", api.repertoire)
	dg.POST("/repertoire", api.assignRepertoire)
	dg.DELETE("/repertoire/:repertoireId", api.unassignRepertoire)
}

// Handlers

func (api studentAPI) create(ctx echo.Context) error {
	caller, err := getContextCaller(ctx)
	if err != nil {
		return err
	}

	data := new(student.NewStudent)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	// teachers register students under themselves unless stated otherwise
	if data.TeacherID == "" {
		data.TeacherID = caller.TeacherID
	}
	if err = data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	st, err := api.svc.Create(ctx.Request().Context(), caller, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"student": st})
}

func (api studentAPI) query(ctx echo.Context) error {
	caller, err := getContextCaller(ctx)
	if err != nil {
		return err
	}

	filter := new(student.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return err
	}

	students, err := api.svc.Query(ctx.Request().Context(), caller, *filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"students": students})
}

func (api studentAPI) retrieve(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	st, err := api.svc.GetByID(ctx.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"student": st})
}

func (api studentAPI) update(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	data := new(student.UpdateStudent)
	if err = ctx.Bind(data); err != nil {
		return err
	}

	orig, err := api.svc.GetByID(ctx.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	if err = data.Validate(ctx.Request().Context(), orig, api.validate, api.svc); err != nil {
		return err
	}

	st, err := api.svc.Update(ctx.Request().Context(), caller, id, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"student": st})
}

func (api studentAPI) destroy(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), caller, id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"deleted": id})
}

func (api studentAPI) lessons(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}
	daysAgo, err := queryInt(ctx, "daysAgo")
	if err != nil {
		return err
	}

	lessons, err := api.svc.Lessons(ctx.Request().Context(), caller, id, daysAgo)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"lessons": lessons})
}

func (api studentAPI) techniques(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	reviews, err := api.svc.Techniques(ctx.Request().Context(), caller, id, queryBool(ctx, "includeCompleted"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"techniques": reviews})
}

func (api studentAPI) assignTechnique(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	data := new(student.AssignTechnique)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	at, err := api.svc.AssignTechnique(ctx.Request().Context(), caller, id, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"technique": at})
}

func (api studentAPI) unassignTechnique(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}
	techniqueID, err := paramInt(ctx, "techniqueId")
	if err != nil {
		return err
	}

	if err = api.svc.UnassignTechnique(ctx.Request().Context(), caller, id, techniqueID); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"deleted": techniqueID})
}

func (api studentAPI) repertoire(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	reviews, err := api.svc.Repertoire(ctx.Request().Context(), caller, id, queryBool(ctx, "includeCompleted"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"repertoire": reviews})
}

func (api studentAPI) assignRepertoire(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	data := new(student.AssignRepertoire)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	ar, err := api.svc.AssignRepertoire(ctx.Request().Context(), caller, id, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"repertoire": ar})
}

func (api studentAPI) unassignRepertoire(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}
	repertoireID, err := paramInt(ctx, "repertoireId")
	if err != nil {
		return err
	}

	if err = api.svc.UnassignRepertoire(ctx.Request().Context(), caller, id, repertoireID); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"deleted": repertoireID})
}

// Helpers

func callerAndID(ctx echo.Context) (core.Caller, int, error) {
	caller, err := getContextCaller(ctx)
	if err != nil {
		return core.Caller{}, 0, err
	}
	id, err := paramInt(ctx, "id")
	if err != nil {
		return core.Caller{}, 0, err
	}
	return caller, id, nil
}

func paramInt(ctx echo.Context, name string) (int, error) {
	val, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be a number"})
	}
	return val, nil
}

func queryBool(ctx echo.Context, name string) bool {
	val, _ := strconv.ParseBool(ctx.QueryParam(name))
	return val
}
