package handlers

import (
	"errors"

	"bmc-rentportal/internal/core/domain"
	"bmc-rentportal/internal/core/services"
	"bmc-rentportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ENachHandler handles the mandate registration flow endpoints
type ENachHandler struct {
	mandateService *services.MandateService
	sessionService *services.SessionService
}

// NewENachHandler creates a new e-NACH handler
func NewENachHandler(mandateService *services.MandateService, sessionService *services.SessionService) *ENachHandler {
	return &ENachHandler{
		mandateService: mandateService,
		sessionService: sessionService,
	}
}

// Banks returns the fixed bank list for mandate registration
// @Summary List banks
// @Tags ENach
// @Produce json
// @Success 200 {object} response.Response
// @Router /enach/banks [get]
func (h *ENachHandler) Banks(c *fiber.Ctx) error {
	return response.Success(c, "Banks retrieved", domain.Banks)
}

// Start begins a registration for the session's tenant
// @Summary Start mandate registration
// @Tags ENach
// @Produce json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /enach/start [post]
func (h *ENachHandler) Start(c *fiber.Ctx) error {
	tenant := h.sessionService.CurrentTenant()
	view, err := h.mandateService.Start(tenant)
	if err != nil {
		return h.mapError(c, err)
	}
	return response.Success(c, "Registration started", view)
}

// Get returns the current registration state
// @Summary Registration state
// @Tags ENach
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /enach [get]
func (h *ENachHandler) Get(c *fiber.Ctx) error {
	tenant := h.sessionService.CurrentTenant()
	if tenant == nil {
		return h.mapError(c, domain.ErrNoTenantAttached)
	}
	view, err := h.mandateService.Get(tenant.ID)
	if err != nil {
		return h.mapError(c, err)
	}
	return response.Success(c, "Registration retrieved", view)
}

// UpdateDraft applies user input to the working draft
// @Summary Update draft
// @Tags ENach
// @Accept json
// @Produce json
// @Param body body services.DraftInput true "Draft fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /enach/draft [patch]
func (h *ENachHandler) UpdateDraft(c *fiber.Ctx) error {
	tenant := h.sessionService.CurrentTenant()
	if tenant == nil {
		return h.mapError(c, domain.ErrNoTenantAttached)
	}

	var input services.DraftInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	view, err := h.mandateService.UpdateDraft(tenant.ID, &input)
	if err != nil {
		return h.mapError(c, err)
	}
	return response.Success(c, "Draft updated", view)
}

// Advance runs the forward transition out of the current step
// @Summary Advance registration
// @Tags ENach
// @Produce json
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /enach/advance [post]
func (h *ENachHandler) Advance(c *fiber.Ctx) error {
	tenant := h.sessionService.CurrentTenant()
	if tenant == nil {
		return h.mapError(c, domain.ErrNoTenantAttached)
	}

	view, err := h.mandateService.Advance(c.Context(), tenant.ID)
	if err != nil {
		return h.mapError(c, err)
	}
	return response.Success(c, "Step completed", view)
}

// Back runs the backward transition to the previous step
// @Summary Step back
// @Tags ENach
// @Produce json
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /enach/back [post]
func (h *ENachHandler) Back(c *fiber.Ctx) error {
	tenant := h.sessionService.CurrentTenant()
	if tenant == nil {
		return h.mapError(c, domain.ErrNoTenantAttached)
	}

	view, err := h.mandateService.Back(tenant.ID)
	if err != nil {
		return h.mapError(c, err)
	}
	return response.Success(c, "Returned to previous step", view)
}

// Abandon discards the in-progress registration
// @Summary Abandon registration
// @Tags ENach
// @Produce json
// @Success 200 {object} response.Response
// @Router /enach [delete]
func (h *ENachHandler) Abandon(c *fiber.Ctx) error {
	tenant := h.sessionService.CurrentTenant()
	if tenant == nil {
		return h.mapError(c, domain.ErrNoTenantAttached)
	}
	if err := h.mandateService.Abandon(tenant.ID); err != nil {
		return h.mapError(c, err)
	}
	return response.Success(c, "Registration abandoned", nil)
}

// mapError classifies flow errors into user-facing responses
func (h *ENachHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNoTenantAttached):
		return response.Forbidden(c, "No tenant record attached to this session")
	case errors.Is(err, domain.ErrMandateAlreadyActive):
		return response.Conflict(c, "An e-NACH mandate is already active for this tenancy")
	case errors.Is(err, domain.ErrMandatePendingBank):
		return response.Conflict(c, "A mandate registration is pending bank approval")
	case errors.Is(err, domain.ErrRegistrationNotFound):
		return response.NotFound(c, "No registration in progress")
	case errors.Is(err, domain.ErrRegistrationComplete):
		return response.Conflict(c, "Registration already completed")
	case errors.Is(err, domain.ErrProcessing):
		return response.Conflict(c, "Previous step is still processing")
	case errors.Is(err, domain.ErrBankRequired):
		return response.BadRequest(c, "Please select your bank")
	case errors.Is(err, domain.ErrTermsNotAgreed):
		return response.BadRequest(c, "Please agree to the terms and conditions")
	case errors.Is(err, domain.ErrCredentialsRequired):
		return response.BadRequest(c, "Please enter your customer ID and password")
	case errors.Is(err, domain.ErrInvalidOTP):
		return response.BadRequest(c, "Invalid OTP. Please enter the 6-digit code.")
	case errors.Is(err, domain.ErrInvalidMandateAmount):
		return response.BadRequest(c, "Mandate amount must be greater than zero")
	case errors.Is(err, domain.ErrInvalidFrequency):
		return response.BadRequest(c, "Unsupported debit frequency")
	case errors.Is(err, domain.ErrUnknownBank):
		return response.BadRequest(c, "Selected bank is not supported")
	case errors.Is(err, domain.ErrNoBackwardTransition):
		return response.BadRequest(c, "Already at the first step")
	default:
		return response.InternalServerError(c, "Something went wrong. Please try again.")
	}
}
