package controller

import (
	"maharaja-assistant-be/internal/pkg/serverutils"
	"maharaja-assistant-be/internal/service"
	"maharaja-assistant-be/pkg/store"

	"github.com/gofiber/fiber/v2"
)

type IFlightController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
}

type flightController struct {
	flightService service.IFlightService
}

func NewFlightController(flightService service.IFlightService) IFlightController {
	return &flightController{flightService: flightService}
}

func (c *flightController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/flight/v1")
	h.Get("search", c.Search)
}

func (c *flightController) Search(ctx *fiber.Ctx) error {
	query := store.FlightQuery{
		Origin:      ctx.Query("origin"),
		Destination: ctx.Query("destination"),
		Date:        ctx.Query("date"),
		CabinClass:  ctx.Query("cabin_class"),
		Passengers:  ctx.QueryInt("passengers", 1),
	}
	if query.Origin == "" || query.Destination == "" {
		return fiber.NewError(fiber.StatusBadRequest, "origin and destination are required")
	}

	res, err := c.flightService.Search(ctx.Context(), query)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Success search flights", res))
}
