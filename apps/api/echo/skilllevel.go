package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/soundtrackapp/soundtrack/core/skilllevel"
)

type skillLevelAPI struct {
	svc      *skilllevel.Service
	validate *validator.Validate
}

func (s *server) registerSkillLevelAPI(g *echo.Group, loggedIn echo.MiddlewareFunc) {
	api := skillLevelAPI{svc: s.opts.SkillLevelSvc, validate: s.opts.Validate}

	g.GET("", api.query)
	g.POST("", api.create, loggedIn, adminMiddleware())
	g.DELETE("/:id", api.destroy, loggedIn, adminMiddleware())
}

// Handlers

func (api skillLevelAPI) query(ctx echo.Context) error {
	levels, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"skillLevels": levels})
}

func (api skillLevelAPI) create(ctx echo.Context) error {
	data := new(skilllevel.NewSkillLevel)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sl, err := api.svc.Create(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"skillLevel": sl})
}

func (api skillLevelAPI) destroy(ctx echo.Context) error {
	id, err := paramInt(ctx, "id")
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"deleted": id})
}
