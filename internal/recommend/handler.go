package recommend

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

type recommendRequest struct {
	Question string `json:"question"`
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/recommend", h.recommend)
}

func (h *Handler) recommend(c *fiber.Ctx) error {
	// BodyParser would also accept form data and yield an empty question
	if !c.Is("json") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "request body must be JSON"})
	}
	payload := new(recommendRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// an empty question is forwarded as-is; the page blocks it before posting
	text, err := h.service.Recommend(c.UserContext(), payload.Question)
	if err != nil {
		slog.Error("recommendation failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"recommendation": text})
}
