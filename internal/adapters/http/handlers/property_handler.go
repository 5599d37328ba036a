package handlers

import (
	"errors"

	"bmc-rentportal/internal/adapters/persistence/memory"
	"bmc-rentportal/internal/core/domain"
	"bmc-rentportal/internal/core/services"
	"bmc-rentportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PropertyHandler handles the property resource endpoints
type PropertyHandler struct {
	propertyService *services.PropertyService
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// List returns all properties
// @Summary List properties
// @Tags Properties
// @Produce json
// @Success 200 {object} response.Response
// @Router /properties [get]
func (h *PropertyHandler) List(c *fiber.Ctx) error {
	return response.Success(c, "Properties retrieved", h.propertyService.List())
}

// Get returns one property
// @Summary Get property
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /properties/{id} [get]
func (h *PropertyHandler) Get(c *fiber.Ctx) error {
	property, err := h.propertyService.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Property not found")
		}
		return response.InternalServerError(c, "Failed to get property")
	}
	return response.Success(c, "Property retrieved", property)
}

// Create stores a new property record
// @Summary Create property
// @Tags Properties
// @Accept json
// @Produce json
// @Param body body domain.Property true "Property data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /properties [post]
func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	var p domain.Property
	if err := c.BodyParser(&p); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	created, err := h.propertyService.Create(&p)
	if err != nil {
		return response.BadRequest(c, "Invalid property data")
	}
	return response.Created(c, "Property created", created)
}

// Update merges a partial update into a property
// @Summary Update property
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param body body memory.PropertyPatch true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /properties/{id} [put]
func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	var patch memory.PropertyPatch
	if err := c.BodyParser(&patch); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	property, err := h.propertyService.Update(c.Params("id"), &patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Property not found")
		}
		return response.BadRequest(c, "Invalid property data")
	}
	return response.Success(c, "Property updated", property)
}

// Delete removes a property record
// @Summary Delete property
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Response
// @Router /properties/{id} [delete]
func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	h.propertyService.Delete(c.Params("id"))
	return response.Success(c, "Property deleted", nil)
}
