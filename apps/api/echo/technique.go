package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/soundtrackapp/soundtrack/core/technique"
)

type techniqueAPI struct {
	svc      *technique.Service
	validate *validator.Validate
}

func (s *server) registerTechniqueAPI(g *echo.Group) {
	api := techniqueAPI{svc: s.opts.TechniqueSvc, validate: s.opts.Validate}

	// teachers list their own catalog through /teachers/:id/techniques
	g.GET("", api.query, adminMiddleware())
	g.POST("", api.create)

	dg := g.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PATCH("", api.update)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api techniqueAPI) query(ctx echo.Context) error {
	techniques, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"techniques": techniques})
}

func (api techniqueAPI) create(ctx echo.Context) error {
	caller, err := getContextCaller(ctx)
	if err != nil {
		return err
	}

	data := new(technique.NewTechnique)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if data.TeacherID == "" {
		data.TeacherID = caller.TeacherID
	}
	if !caller.Owns(data.TeacherID) {
		return errUnauthorized
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"technique": t})
}

func (api techniqueAPI) retrieve(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	t, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if !caller.Owns(t.TeacherID.String) {
		return errUnauthorized
	}
	return ctx.JSON(http.StatusOK, echo.Map{"technique": t})
}

func (api techniqueAPI) update(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	t, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if !caller.Owns(t.TeacherID.String) {
		return errUnauthorized
	}

	data := new(technique.UpdateTechnique)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	t, err = api.svc.Update(ctx.Request().Context(), id, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"technique": t})
}

func (api techniqueAPI) destroy(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	t, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if !caller.Owns(t.TeacherID.String) {
		return errUnauthorized
	}

	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"deleted": id})
}
