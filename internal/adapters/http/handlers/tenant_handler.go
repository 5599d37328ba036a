package handlers

import (
	"errors"
	"strconv"

	"bmc-rentportal/internal/adapters/persistence/memory"
	"bmc-rentportal/internal/core/domain"
	"bmc-rentportal/internal/core/services"
	"bmc-rentportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TenantHandler handles the tenant resource endpoints
type TenantHandler struct {
	tenantService *services.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *services.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// List returns all tenants
// @Summary List tenants
// @Tags Tenants
// @Produce json
// @Success 200 {object} response.Response
// @Router /tenants [get]
func (h *TenantHandler) List(c *fiber.Ctx) error {
	return response.Success(c, "Tenants retrieved", h.tenantService.List())
}

// Get returns one tenant
// @Summary Get tenant
// @Tags Tenants
// @Produce json
// @Param id path int true "Tenant ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /tenants/{id} [get]
func (h *TenantHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid tenant ID")
	}

	tenant, err := h.tenantService.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Tenant not found")
		}
		return response.InternalServerError(c, "Failed to get tenant")
	}
	return response.Success(c, "Tenant retrieved", tenant)
}

// Create stores a new tenant record
// @Summary Create tenant
// @Tags Tenants
// @Accept json
// @Produce json
// @Param body body services.TenantInput true "Tenant data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /tenants [post]
func (h *TenantHandler) Create(c *fiber.Ctx) error {
	var input services.TenantInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	tenant, err := h.tenantService.Create(&input)
	if err != nil {
		return response.BadRequest(c, "Invalid tenant data")
	}
	return response.Created(c, "Tenant created", tenant)
}

// Update merges a partial update into a tenant
// @Summary Update tenant
// @Tags Tenants
// @Accept json
// @Produce json
// @Param id path int true "Tenant ID"
// @Param body body memory.TenantPatch true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /tenants/{id} [put]
func (h *TenantHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid tenant ID")
	}

	var patch memory.TenantPatch
	if err := c.BodyParser(&patch); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	tenant, err := h.tenantService.Update(id, &patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Tenant not found")
		}
		return response.BadRequest(c, "Invalid tenant data")
	}
	return response.Success(c, "Tenant updated", tenant)
}

// Delete removes a tenant record
// @Summary Delete tenant
// @Tags Tenants
// @Produce json
// @Param id path int true "Tenant ID"
// @Success 200 {object} response.Response
// @Router /tenants/{id} [delete]
func (h *TenantHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid tenant ID")
	}
	h.tenantService.Delete(id)
	return response.Success(c, "Tenant deleted", nil)
}
