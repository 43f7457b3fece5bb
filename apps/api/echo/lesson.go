package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/soundtrackapp/soundtrack/core/lesson"
)

type lessonAPI struct {
	svc      *lesson.Service
	validate *validator.Validate
}

func (s *server) registerLessonAPI(g *echo.Group) {
	api := lessonAPI{svc: s.opts.LessonSvc, validate: s.opts.Validate}

	g.POST("", api.create)

	dg := g.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PATCH("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/techniques", api.techniques)
}

// Handlers

func (api lessonAPI) create(ctx echo.Context) error {
	caller, err := getContextCaller(ctx)
	if err != nil {
		return err
	}

	data := new(lesson.NewLesson)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if data.TeacherID == "" {
		data.TeacherID = caller.TeacherID
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	l, err := api.svc.Create(ctx.Request().Context(), caller, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"lesson": l})
}

func (api lessonAPI) retrieve(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	l, err := api.svc.GetByID(ctx.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"lesson": l})
}

func (api lessonAPI) update(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	data := new(lesson.UpdateLesson)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	l, err := api.svc.Update(ctx.Request().Context(), caller, id, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"lesson": l})
}

func (api lessonAPI) destroy(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), caller, id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"deleted": id})
}

func (api lessonAPI) techniques(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	techniques, err := api.svc.Techniques(ctx.Request().Context(), caller, id, queryBool(ctx, "includeCompleted"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"techniques": techniques})
}
