package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"bmc-rentportal/internal/config"
	"bmc-rentportal/internal/core/domain"
)

// MandateStep identifies a state of the e-NACH registration flow
type MandateStep string

// Registration states, in flow order. StepSuccess is terminal.
const (
	StepIntro           MandateStep = "intro"
	StepNpciRedirect    MandateStep = "npci_redirect"
	StepBankSelection   MandateStep = "bank_selection"
	StepNetbankingLogin MandateStep = "netbanking_login"
	StepOTPVerification MandateStep = "otp_verification"
	StepMandateConfirm  MandateStep = "mandate_confirm"
	StepSuccess         MandateStep = "success"
)

// Steps lists the registration states in flow order
var Steps = []MandateStep{
	StepIntro,
	StepNpciRedirect,
	StepBankSelection,
	StepNetbankingLogin,
	StepOTPVerification,
	StepMandateConfirm,
	StepSuccess,
}

// demoOTP is the fixed code accepted by the simulated bank OTP check
const demoOTP = "123456"

// StatusUpdater is the narrow write capability handed to the state machine.
// The session owns the tenant profile; the machine may only flip its
// e-NACH status.
type StatusUpdater interface {
	UpdateTenantStatus(status domain.ENachStatus)
}

// transition describes the single forward edge out of a state
type transition struct {
	next  MandateStep
	guard func(d *domain.MandateDraft) error
	delay func(cfg config.MandateConfig) time.Duration
}

// transitions is the forward transition table. A state absent from the table
// (success) has no forward edge. Guard failures keep the machine in its
// current state.
var transitions = map[MandateStep]transition{
	StepIntro: {
		next: StepNpciRedirect,
		guard: func(d *domain.MandateDraft) error {
			if d.BankName == "" {
				return domain.ErrBankRequired
			}
			if !d.AgreedToTerms {
				return domain.ErrTermsNotAgreed
			}
			return nil
		},
	},
	StepNpciRedirect: {
		next:  StepBankSelection,
		delay: func(cfg config.MandateConfig) time.Duration { return cfg.RedirectDelay },
	},
	StepBankSelection: {
		next: StepNetbankingLogin,
		guard: func(d *domain.MandateDraft) error {
			if d.BankName == "" {
				return domain.ErrBankRequired
			}
			return nil
		},
		delay: func(cfg config.MandateConfig) time.Duration { return cfg.BankDelay },
	},
	StepNetbankingLogin: {
		next: StepOTPVerification,
		guard: func(d *domain.MandateDraft) error {
			if d.CustomerID == "" || d.Password == "" {
				return domain.ErrCredentialsRequired
			}
			return nil
		},
		delay: func(cfg config.MandateConfig) time.Duration { return cfg.LoginDelay },
	},
	StepOTPVerification: {
		next: StepMandateConfirm,
		guard: func(d *domain.MandateDraft) error {
			if len(d.OTP) != 6 {
				return domain.ErrInvalidOTP
			}
			// Simulated bank-side check against the demo fixture code
			if d.OTP != demoOTP {
				return domain.ErrInvalidOTP
			}
			return nil
		},
		delay: func(cfg config.MandateConfig) time.Duration { return cfg.OTPDelay },
	},
	StepMandateConfirm: {
		next:  StepSuccess,
		delay: func(cfg config.MandateConfig) time.Duration { return cfg.ConfirmDelay },
	},
}

// registration is one tenant's in-progress flow
type registration struct {
	step       MandateStep
	draft      domain.MandateDraft
	record     *domain.MandateRecord
	processing bool
}

// RegistrationView is the externally visible state of a registration
type RegistrationView struct {
	Step       MandateStep           `json:"step"`
	StepIndex  int                   `json:"stepIndex"`
	Draft      domain.MandateDraft   `json:"draft"`
	Record     *domain.MandateRecord `json:"record,omitempty"`
	Processing bool                  `json:"processing"`
}

// MandateService drives the e-NACH registration state machine. The flow is a
// fully local simulation; the only integration point is the status capability
// invoked on confirmation.
type MandateService struct {
	delays config.MandateConfig
	status StatusUpdater
	notify *NotificationService

	mu   sync.Mutex
	regs map[string]*registration // key = tenant profile ID
}

// NewMandateService creates a new mandate registration service
func NewMandateService(delays config.MandateConfig, status StatusUpdater, notify *NotificationService) *MandateService {
	return &MandateService{
		delays: delays,
		status: status,
		notify: notify,
		regs:   make(map[string]*registration),
	}
}

// Start begins a registration for the tenant. The entry guard is evaluated
// here, before any step is reachable: an active or pending mandate bypasses
// the machine entirely. Calling Start again for an in-progress flow returns
// the existing registration.
func (s *MandateService) Start(tenant *domain.TenantProfile) (*RegistrationView, error) {
	if tenant == nil {
		return nil, domain.ErrNoTenantAttached
	}

	switch tenant.ENachStatus {
	case domain.ENachActive:
		return nil, domain.ErrMandateAlreadyActive
	case domain.ENachPending:
		return nil, domain.ErrMandatePendingBank
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if reg, ok := s.regs[tenant.ID]; ok {
		return reg.view(), nil
	}

	reg := &registration{
		step: StepIntro,
		draft: domain.MandateDraft{
			TenantName:    tenant.Name,
			Mobile:        tenant.Phone,
			Email:         tenant.Email,
			PropertyID:    tenant.PropertyNo,
			MandateAmount: tenant.RentAmount,
			Frequency:     domain.FrequencyMonthly,
		},
	}
	s.regs[tenant.ID] = reg

	log.Printf("✅ e-NACH registration started for tenant %s", tenant.ID)
	return reg.view(), nil
}

// Get returns the registration state for the tenant
func (s *MandateService) Get(tenantID string) (*RegistrationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.regs[tenantID]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	return reg.view(), nil
}

// DraftInput carries user-editable draft fields; nil fields are unchanged
type DraftInput struct {
	MandateAmount *float64          `json:"mandateAmount"`
	Frequency     *domain.Frequency `json:"frequency"`
	BankName      *string           `json:"bankName"`
	AgreedToTerms *bool             `json:"agreedToTerms"`
	CustomerID    *string           `json:"customerId"`
	Password      *string           `json:"password"`
	OTP           *string           `json:"otp"`
}

// UpdateDraft applies user input to the working draft. The pre-filled
// identity fields are immutable and not accepted here. OTP input is
// normalized as it is entered: non-digits stripped, truncated to 6.
func (s *MandateService) UpdateDraft(tenantID string, input *DraftInput) (*RegistrationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.regs[tenantID]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	if reg.step == StepSuccess {
		return nil, domain.ErrRegistrationComplete
	}
	if reg.processing {
		return nil, domain.ErrProcessing
	}

	if input.MandateAmount != nil {
		if *input.MandateAmount <= 0 {
			return nil, domain.ErrInvalidMandateAmount
		}
		reg.draft.MandateAmount = *input.MandateAmount
	}
	if input.Frequency != nil {
		if !input.Frequency.IsValid() {
			return nil, domain.ErrInvalidFrequency
		}
		reg.draft.Frequency = *input.Frequency
	}
	if input.BankName != nil {
		if *input.BankName != "" && !domain.IsValidBank(*input.BankName) {
			return nil, domain.ErrUnknownBank
		}
		reg.draft.BankName = *input.BankName
	}
	if input.AgreedToTerms != nil {
		reg.draft.AgreedToTerms = *input.AgreedToTerms
	}
	if input.CustomerID != nil {
		reg.draft.CustomerID = *input.CustomerID
	}
	if input.Password != nil {
		reg.draft.Password = *input.Password
	}
	if input.OTP != nil {
		reg.draft.OTP = NormalizeOTP(*input.OTP)
	}

	return reg.view(), nil
}

// Advance runs the forward transition out of the current state. Guard
// failures leave the state unchanged. Transitions with simulated gateway
// latency hold the processing flag for the duration; a duplicate trigger
// while busy is rejected rather than interleaved.
func (s *MandateService) Advance(ctx context.Context, tenantID string) (*RegistrationView, error) {
	s.mu.Lock()

	reg, ok := s.regs[tenantID]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrRegistrationNotFound
	}
	if reg.step == StepSuccess {
		s.mu.Unlock()
		return nil, domain.ErrRegistrationComplete
	}
	if reg.processing {
		s.mu.Unlock()
		return nil, domain.ErrProcessing
	}

	tr := transitions[reg.step]
	if tr.guard != nil {
		if err := tr.guard(&reg.draft); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}

	var delay time.Duration
	if tr.delay != nil {
		delay = tr.delay(s.delays)
	}
	from := reg.step
	reg.processing = true
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			// Flow cancellation is unsupported, but the busy flag must be
			// cleared on every exit path.
			s.mu.Lock()
			reg.processing = false
			s.mu.Unlock()
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reg.processing = false
	if s.regs[tenantID] != reg {
		// Registration was discarded while the transition was in flight;
		// its side effects must not run.
		return nil, domain.ErrRegistrationNotFound
	}

	if from == StepMandateConfirm {
		s.completeRegistration(reg, tenantID)
	}

	reg.step = tr.next
	return reg.view(), nil
}

// Back runs the backward transition to the immediate predecessor. It is
// unguarded and discards nothing; it is rejected only while the same
// registration's forward action is still in flight.
func (s *MandateService) Back(tenantID string) (*RegistrationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.regs[tenantID]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	if reg.step == StepSuccess {
		return nil, domain.ErrRegistrationComplete
	}
	if reg.processing {
		return nil, domain.ErrProcessing
	}
	if reg.step == StepIntro {
		return nil, domain.ErrNoBackwardTransition
	}

	reg.step = Steps[stepIndex(reg.step)-1]
	return reg.view(), nil
}

// Abandon discards an in-progress registration and its draft. Abandoning a
// missing registration is not an error; abandoning while the registration's
// forward action is in flight is rejected like any other trigger.
func (s *MandateService) Abandon(tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.regs[tenantID]
	if !ok {
		return nil
	}
	if reg.processing {
		return domain.ErrProcessing
	}
	delete(s.regs, tenantID)
	return nil
}

// completeRegistration generates the terminal mandate record and flips the
// tenant's e-NACH status through the narrow session capability.
// Caller holds s.mu.
func (s *MandateService) completeRegistration(reg *registration, tenantID string) {
	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	mandateID := "UMRN2024" + millis[len(millis)-6:]

	reg.record = &domain.MandateRecord{
		MandateID:        mandateID,
		BankName:         reg.draft.BankName,
		Amount:           reg.draft.MandateAmount,
		Frequency:        reg.draft.Frequency,
		RegistrationDate: time.Now(),
		Status:           "active",
	}

	// Secrets are step-local; drop them the moment the flow completes
	reg.draft.CustomerID = ""
	reg.draft.Password = ""
	reg.draft.OTP = ""

	if s.status != nil {
		s.status.UpdateTenantStatus(domain.ENachActive)
	}
	if s.notify != nil {
		s.notify.NotifyMandateRegistered(reg.draft.Email, reg.record)
	}

	log.Printf("✅ e-NACH mandate registered for tenant %s: %s", tenantID, mandateID)
}

// NormalizeOTP strips non-digit characters and truncates to 6, matching the
// input-field behavior of the registration form.
func NormalizeOTP(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 6 {
				break
			}
		}
	}
	return b.String()
}

// stepIndex returns the position of step in the flow order
func stepIndex(step MandateStep) int {
	for i, s := range Steps {
		if s == step {
			return i
		}
	}
	return 0
}

func (r *registration) view() *RegistrationView {
	return &RegistrationView{
		Step:       r.step,
		StepIndex:  stepIndex(r.step),
		Draft:      r.draft,
		Record:     r.record,
		Processing: r.processing,
	}
}
