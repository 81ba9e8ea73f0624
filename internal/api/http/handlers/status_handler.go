package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/license-service/internal/api/dto"
	"github.com/spec-kit/license-service/internal/service"
)

// StatusHandler lists license statuses.
type StatusHandler struct {
	statuses *service.StatusRegistry
}

// NewStatusHandler constructs handler.
func NewStatusHandler(statuses *service.StatusRegistry) *StatusHandler {
	return &StatusHandler{statuses: statuses}
}

// List GET /v1/status.
func (h *StatusHandler) List(c *fiber.Ctx) error {
	statuses, err := h.statuses.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.StatusResponse, 0, len(statuses))
	for _, status := range statuses {
		items = append(items, dto.NewStatusResponse(status))
	}
	return c.JSON(fiber.Map{"data": items})
}
