package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/soundtrackapp/soundtrack/core/repertoire"
)

type repertoireAPI struct {
	svc      *repertoire.Service
	validate *validator.Validate
}

func (s *server) registerRepertoireAPI(g *echo.Group) {
	api := repertoireAPI{svc: s.opts.RepertoireSvc, validate: s.opts.Validate}

	// teachers list their own catalog through /teachers/:id/repertoire
	g.GET("", api.query, adminMiddleware())
	g.POST("", api.create)

	dg := g.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PATCH("", api.update)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api repertoireAPI) query(ctx echo.Context) error {
	items, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"repertoire": items})
}

func (api repertoireAPI) create(ctx echo.Context) error {
	caller, err := getContextCaller(ctx)
	if err != nil {
		return err
	}

	data := new(repertoire.NewRepertoire)
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

	r, err := api.svc.Create(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"repertoire": r})
}

func (api repertoireAPI) retrieve(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	r, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if !caller.Owns(r.TeacherID.String) {
		return errUnauthorized
	}
	return ctx.JSON(http.StatusOK, echo.Map{"repertoire": r})
}

func (api repertoireAPI) update(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	r, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if !caller.Owns(r.TeacherID.String) {
		return errUnauthorized
	}

	data := new(repertoire.UpdateRepertoire)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	r, err = api.svc.Update(ctx.Request().Context(), id, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"repertoire": r})
}

func (api repertoireAPI) destroy(ctx echo.Context) error {
	caller, id, err := callerAndID(ctx)
	if err != nil {
		return err
	}

	r, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if !caller.Owns(r.TeacherID.String) {
		return errUnauthorized
	}

	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"deleted": id})
}
