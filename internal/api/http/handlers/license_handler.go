package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/license-service/internal/api/dto"
	"github.com/spec-kit/license-service/internal/domain"
	"github.com/spec-kit/license-service/internal/service"
	apperrors "github.com/spec-kit/license-service/pkg/util/errorutil"
)

// LicenseHandler manages license endpoints.
type LicenseHandler struct {
	licenses *service.LicenseService
	statuses *service.StatusRegistry
}

// NewLicenseHandler constructs handler.
func NewLicenseHandler(licenses *service.LicenseService, statuses *service.StatusRegistry) *LicenseHandler {
	return &LicenseHandler{licenses: licenses, statuses: statuses}
}

// Create POST /v1/license.
func (h *LicenseHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateLicenseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	statusConst := strings.TrimSpace(req.Status)
	if statusConst == "" {
		statusConst = domain.StatusActive
	}
	status, err := h.statuses.GetByConst(c.UserContext(), statusConst)
	if err != nil {
		return err
	}

	license, err := h.licenses.Create(c.UserContext(), status, req.Const, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewLicenseResponse(license)})
}

// Get GET /v1/license/:key.
func (h *LicenseHandler) Get(c *fiber.Ctx) error {
	license, err := h.load(c, c.Params("key"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLicenseResponse(license)})
}

// Search GET /v1/license.
func (h *LicenseHandler) Search(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return err
	}

	result, err := h.licenses.Search(c.UserContext(), service.SearchParams{
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return err
	}

	items := make([]dto.LicenseResponse, 0, len(result.Licenses))
	for i := range result.Licenses {
		items = append(items, dto.NewLicenseResponse(&result.Licenses[i]))
	}
	return c.JSON(fiber.Map{
		"data": items,
		"meta": dto.SearchMeta{
			TotalCount: result.TotalCount,
			Search:     result.Search,
			Limit:      result.Limit,
			Offset:     result.Offset,
		},
	})
}

// Update PATCH /v1/license/:key.
func (h *LicenseHandler) Update(c *fiber.Ctx) error {
	license, err := h.load(c, c.Params("key"))
	if err != nil {
		return err
	}

	var req dto.UpdateLicenseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	if req.Description != nil {
		license.Description = *req.Description
	}

	updated, err := h.licenses.Update(c.UserContext(), license)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLicenseResponse(updated)})
}

// UpdateStatus PATCH /v1/license/:uuid/status/:status_id.
func (h *LicenseHandler) UpdateStatus(c *fiber.Ctx) error {
	statusID, err := strconv.ParseInt(c.Params("status_id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("status_id must be an integer", nil)
	}
	status, err := h.statuses.GetByID(c.UserContext(), statusID)
	if err != nil {
		return err
	}

	license, err := h.licenses.UpdateStatus(c.UserContext(), c.Params("uuid"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLicenseResponse(license)})
}

// Delete DELETE /v1/license/:uuid.
func (h *LicenseHandler) Delete(c *fiber.Ctx) error {
	if err := h.licenses.Delete(c.UserContext(), c.Params("uuid")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": nil})
}

// load resolves a numeric key as an id and anything else as a uuid.
func (h *LicenseHandler) load(c *fiber.Ctx, key string) (*domain.License, error) {
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		return h.licenses.GetByID(c.UserContext(), id)
	}
	return h.licenses.GetByUUID(c.UserContext(), key)
}

func queryInt(c *fiber.Ctx, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(name+" must be an integer", map[string]any{name: raw})
	}
	return val, nil
}
