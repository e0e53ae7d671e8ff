package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/life-dashboard/internal/models"
	"github.com/bobby-s-dev/life-dashboard/internal/services"
)

type WeatherService interface {
	GetAll(ctx context.Context) ([]*models.WeatherResponse, error)
	GetWeather(ctx context.Context, loc models.Location, snapshot models.FireDataSnapshot) (*models.WeatherResponse, error)
	GetFireData(ctx context.Context) models.FireDataSnapshot
}

type Handler struct {
	weather WeatherService
	logger  *zap.Logger
}

func NewHandler(weather WeatherService, logger *zap.Logger) *Handler {
	return &Handler{
		weather: weather,
		logger:  logger,
	}
}

// GetHealth handles GET /api/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// GetAllWeather handles GET /api/weather/
func (h *Handler) GetAllWeather(c *fiber.Ctx) error {
	results, err := h.weather.GetAll(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(results)
}

// GetCityWeather handles GET /api/weather/:city. Ad-hoc lookups carry no
// fire district, so no fire data is attached.
func (h *Handler) GetCityWeather(c *fiber.Ctx) error {
	loc := models.Location{
		City:    c.Params("city"),
		Country: c.Query("country", "AU"),
		BomURL:  c.Query("bom_url"),
	}

	h.logger.Info("Fetching weather", zap.String("city", loc.City), zap.String("country", loc.Country))

	resp, err := h.weather.GetWeather(c.UserContext(), loc, nil)
	if err != nil {
		if errors.Is(err, services.ErrLocationNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(resp)
}

// GetFire handles GET /api/fire
func (h *Handler) GetFire(c *fiber.Ctx) error {
	return c.JSON(h.weather.GetFireData(c.UserContext()))
}
