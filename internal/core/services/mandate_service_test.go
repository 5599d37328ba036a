package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"bmc-rentportal/internal/config"
	"bmc-rentportal/internal/core/domain"
)

// statusRecorder captures status updates pushed by the state machine
type statusRecorder struct {
	mu       sync.Mutex
	statuses []domain.ENachStatus
}

func (r *statusRecorder) UpdateTenantStatus(status domain.ENachStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *statusRecorder) last() domain.ENachStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statuses) == 0 {
		return ""
	}
	return r.statuses[len(r.statuses)-1]
}

func testTenant(status domain.ENachStatus) *domain.TenantProfile {
	return &domain.TenantProfile{
		ID:          "t-1",
		Name:        "Rajesh Kumar",
		Email:       "rajesh.kumar@email.com",
		Phone:       "+91 9999999999",
		PropertyNo:  "Shop No. 12, New Market",
		RentAmount:  15000,
		ENachStatus: status,
	}
}

// newTestMandate builds a machine with zero step delays so tests run instantly
func newTestMandate() (*MandateService, *statusRecorder) {
	recorder := &statusRecorder{}
	svc := NewMandateService(config.MandateConfig{}, recorder, NewNotificationService())
	return svc, recorder
}

func str(s string) *string   { return &s }
func boolp(b bool) *bool     { return &b }
func f64(f float64) *float64 { return &f }

func TestStartEntryGuards(t *testing.T) {
	svc, _ := newTestMandate()

	if _, err := svc.Start(nil); !errors.Is(err, domain.ErrNoTenantAttached) {
		t.Fatalf("expected ErrNoTenantAttached, got %v", err)
	}
	if _, err := svc.Start(testTenant(domain.ENachActive)); !errors.Is(err, domain.ErrMandateAlreadyActive) {
		t.Fatalf("expected ErrMandateAlreadyActive, got %v", err)
	}
	if _, err := svc.Start(testTenant(domain.ENachPending)); !errors.Is(err, domain.ErrMandatePendingBank) {
		t.Fatalf("expected ErrMandatePendingBank, got %v", err)
	}

	// Rejected mandates may re-register
	if _, err := svc.Start(testTenant(domain.ENachRejected)); err != nil {
		t.Fatalf("rejected tenant must be allowed to register again: %v", err)
	}
}

func TestStartPrefillsDraft(t *testing.T) {
	svc, _ := newTestMandate()

	view, err := svc.Start(testTenant(domain.ENachNotRegistered))
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if view.Step != StepIntro {
		t.Fatalf("expected intro step, got %s", view.Step)
	}
	if view.Draft.MandateAmount != 15000 || view.Draft.Frequency != domain.FrequencyMonthly {
		t.Fatalf("draft not pre-filled from tenancy: %+v", view.Draft)
	}
	if view.Draft.TenantName != "Rajesh Kumar" || view.Draft.PropertyID != "Shop No. 12, New Market" {
		t.Fatalf("identity fields not pre-filled: %+v", view.Draft)
	}

	// Starting again returns the same registration
	again, err := svc.Start(testTenant(domain.ENachNotRegistered))
	if err != nil || again.Step != StepIntro {
		t.Fatalf("restart must return the existing flow: %+v %v", again, err)
	}
}

func TestIntroGuardRequiresBankAndTerms(t *testing.T) {
	svc, _ := newTestMandate()
	ctx := context.Background()
	svc.Start(testTenant(domain.ENachNotRegistered))

	// Terms agreed but no bank selected
	svc.UpdateDraft("t-1", &DraftInput{AgreedToTerms: boolp(true)})
	if _, err := svc.Advance(ctx, "t-1"); !errors.Is(err, domain.ErrBankRequired) {
		t.Fatalf("expected ErrBankRequired, got %v", err)
	}

	// Bank selected but terms withdrawn
	svc.UpdateDraft("t-1", &DraftInput{BankName: str("HDFC Bank"), AgreedToTerms: boolp(false)})
	if _, err := svc.Advance(ctx, "t-1"); !errors.Is(err, domain.ErrTermsNotAgreed) {
		t.Fatalf("expected ErrTermsNotAgreed, got %v", err)
	}

	// Guard failure leaves the machine at intro
	view, _ := svc.Get("t-1")
	if view.Step != StepIntro {
		t.Fatalf("guard failure must not advance, at %s", view.Step)
	}
}

func TestDraftValidation(t *testing.T) {
	svc, _ := newTestMandate()
	svc.Start(testTenant(domain.ENachNotRegistered))

	if _, err := svc.UpdateDraft("t-1", &DraftInput{MandateAmount: f64(-5)}); !errors.Is(err, domain.ErrInvalidMandateAmount) {
		t.Fatalf("expected ErrInvalidMandateAmount, got %v", err)
	}
	if _, err := svc.UpdateDraft("t-1", &DraftInput{Frequency: (*domain.Frequency)(str("weekly"))}); !errors.Is(err, domain.ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
	if _, err := svc.UpdateDraft("t-1", &DraftInput{BankName: str("Some Unknown Bank")}); !errors.Is(err, domain.ErrUnknownBank) {
		t.Fatalf("expected ErrUnknownBank, got %v", err)
	}
	if _, err := svc.UpdateDraft("unknown", &DraftInput{}); !errors.Is(err, domain.ErrRegistrationNotFound) {
		t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
	}
}

func TestOTPNormalization(t *testing.T) {
	cases := map[string]string{
		"123456":       "123456",
		"12a456":       "12456",
		"1234567890":   "123456",
		" 12 34 56 ":   "123456",
		"abcdef":       "",
		"":             "",
	}
	for in, want := range cases {
		if got := NormalizeOTP(in); got != want {
			t.Fatalf("NormalizeOTP(%q) = %q, want %q", in, got, want)
		}
	}
}

// driveTo advances the flow to the given step with valid inputs
func driveTo(t *testing.T, svc *MandateService, step MandateStep) {
	t.Helper()
	ctx := context.Background()

	svc.UpdateDraft("t-1", &DraftInput{BankName: str("HDFC Bank"), AgreedToTerms: boolp(true)})
	inputs := map[MandateStep]*DraftInput{
		StepNetbankingLogin: {CustomerID: str("CUST001"), Password: str("netbank1")},
		StepOTPVerification: {OTP: str("123456")},
	}

	for {
		view, err := svc.Get("t-1")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if view.Step == step {
			return
		}
		if input, ok := inputs[view.Step]; ok {
			if _, err := svc.UpdateDraft("t-1", input); err != nil {
				t.Fatalf("draft update at %s failed: %v", view.Step, err)
			}
		}
		if _, err := svc.Advance(ctx, "t-1"); err != nil {
			t.Fatalf("advance from %s failed: %v", view.Step, err)
		}
	}
}

func TestFullRegistrationFlow(t *testing.T) {
	svc, recorder := newTestMandate()
	ctx := context.Background()
	svc.Start(testTenant(domain.ENachNotRegistered))

	driveTo(t, svc, StepNetbankingLogin)

	// Credentials guard
	svc.UpdateDraft("t-1", &DraftInput{CustomerID: str("CUST001")})
	if _, err := svc.Advance(ctx, "t-1"); !errors.Is(err, domain.ErrCredentialsRequired) {
		t.Fatalf("expected ErrCredentialsRequired, got %v", err)
	}

	svc.UpdateDraft("t-1", &DraftInput{Password: str("netbank1")})
	if view, err := svc.Advance(ctx, "t-1"); err != nil || view.Step != StepOTPVerification {
		t.Fatalf("expected otp_verification, got %+v %v", view, err)
	}

	// Wrong OTP after normalization: "12a456" becomes the 5-digit "12456"
	svc.UpdateDraft("t-1", &DraftInput{OTP: str("12a456")})
	if _, err := svc.Advance(ctx, "t-1"); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}

	svc.UpdateDraft("t-1", &DraftInput{OTP: str("123456")})
	if view, err := svc.Advance(ctx, "t-1"); err != nil || view.Step != StepMandateConfirm {
		t.Fatalf("expected mandate_confirm, got %+v %v", view, err)
	}

	view, err := svc.Advance(ctx, "t-1")
	if err != nil || view.Step != StepSuccess {
		t.Fatalf("expected success, got %+v %v", view, err)
	}

	if view.Record == nil {
		t.Fatal("success must carry the mandate record")
	}
	if !regexp.MustCompile(`^UMRN2024\d{6}$`).MatchString(view.Record.MandateID) {
		t.Fatalf("unexpected UMRN format: %q", view.Record.MandateID)
	}
	if view.Record.BankName != "HDFC Bank" || view.Record.Amount != 15000 || view.Record.Status != "active" {
		t.Fatalf("unexpected record: %+v", view.Record)
	}
	if recorder.last() != domain.ENachActive {
		t.Fatalf("tenant status must flip to active, got %q", recorder.last())
	}

	// Terminal state rejects everything
	if _, err := svc.Advance(ctx, "t-1"); !errors.Is(err, domain.ErrRegistrationComplete) {
		t.Fatalf("expected ErrRegistrationComplete on advance, got %v", err)
	}
	if _, err := svc.Back("t-1"); !errors.Is(err, domain.ErrRegistrationComplete) {
		t.Fatalf("expected ErrRegistrationComplete on back, got %v", err)
	}
}

func TestBackwardTransitions(t *testing.T) {
	svc, _ := newTestMandate()
	ctx := context.Background()
	svc.Start(testTenant(domain.ENachNotRegistered))

	if _, err := svc.Back("t-1"); !errors.Is(err, domain.ErrNoBackwardTransition) {
		t.Fatalf("intro has no predecessor, got %v", err)
	}

	svc.UpdateDraft("t-1", &DraftInput{BankName: str("HDFC Bank"), AgreedToTerms: boolp(true)})
	if view, err := svc.Advance(ctx, "t-1"); err != nil || view.Step != StepNpciRedirect {
		t.Fatalf("expected npci_redirect, got %+v %v", view, err)
	}

	view, err := svc.Back("t-1")
	if err != nil || view.Step != StepIntro {
		t.Fatalf("expected back to intro, got %+v %v", view, err)
	}

	// Back discards nothing
	if view.Draft.BankName != "HDFC Bank" || !view.Draft.AgreedToTerms {
		t.Fatalf("back must preserve the draft: %+v", view.Draft)
	}
}

func TestAdvanceRejectsWhileProcessing(t *testing.T) {
	recorder := &statusRecorder{}
	svc := NewMandateService(config.MandateConfig{RedirectDelay: 200 * time.Millisecond}, recorder, nil)
	ctx := context.Background()

	svc.Start(testTenant(domain.ENachNotRegistered))
	svc.UpdateDraft("t-1", &DraftInput{BankName: str("HDFC Bank"), AgreedToTerms: boolp(true)})
	if _, err := svc.Advance(ctx, "t-1"); err != nil {
		t.Fatalf("advance to npci_redirect failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Advance(ctx, "t-1")
		done <- err
	}()

	// Let the goroutine grab the processing flag, then trigger duplicates
	time.Sleep(50 * time.Millisecond)
	if _, err := svc.Advance(ctx, "t-1"); !errors.Is(err, domain.ErrProcessing) {
		t.Fatalf("expected ErrProcessing on duplicate advance, got %v", err)
	}
	if _, err := svc.Back("t-1"); !errors.Is(err, domain.ErrProcessing) {
		t.Fatalf("expected ErrProcessing on back while busy, got %v", err)
	}
	if _, err := svc.UpdateDraft("t-1", &DraftInput{BankName: str("ICICI Bank")}); !errors.Is(err, domain.ErrProcessing) {
		t.Fatalf("expected ErrProcessing on draft update while busy, got %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("in-flight advance failed: %v", err)
	}
	view, _ := svc.Get("t-1")
	if view.Step != StepBankSelection {
		t.Fatalf("expected bank_selection after delay, got %s", view.Step)
	}
	if view.Processing {
		t.Fatal("processing flag must be cleared after the transition")
	}
}

func TestAbandonDiscardsRegistration(t *testing.T) {
	svc, _ := newTestMandate()
	svc.Start(testTenant(domain.ENachNotRegistered))

	if err := svc.Abandon("t-1"); err != nil {
		t.Fatalf("abandon failed: %v", err)
	}
	if _, err := svc.Get("t-1"); !errors.Is(err, domain.ErrRegistrationNotFound) {
		t.Fatalf("expected ErrRegistrationNotFound after abandon, got %v", err)
	}

	// Abandoning twice is fine
	if err := svc.Abandon("t-1"); err != nil {
		t.Fatalf("repeat abandon must be a no-op: %v", err)
	}
}

func TestAbandonRejectedDuringConfirmation(t *testing.T) {
	recorder := &statusRecorder{}
	svc := NewMandateService(config.MandateConfig{ConfirmDelay: 200 * time.Millisecond}, recorder, nil)
	ctx := context.Background()

	svc.Start(testTenant(domain.ENachNotRegistered))
	driveTo(t, svc, StepMandateConfirm)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Advance(ctx, "t-1")
		done <- err
	}()

	// The confirmation is in flight: abandoning now must be rejected, not
	// interleaved with the pending side effects
	time.Sleep(50 * time.Millisecond)
	if err := svc.Abandon("t-1"); !errors.Is(err, domain.ErrProcessing) {
		t.Fatalf("expected ErrProcessing on abandon while busy, got %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("in-flight confirmation failed: %v", err)
	}

	view, err := svc.Get("t-1")
	if err != nil {
		t.Fatalf("registration must survive the rejected abandon: %v", err)
	}
	if view.Step != StepSuccess || view.Record == nil {
		t.Fatalf("expected completed registration with record, got %+v", view)
	}
	if recorder.last() != domain.ENachActive {
		t.Fatalf("tenant status must flip to active, got %q", recorder.last())
	}
}

func TestSecretsClearedOnCompletion(t *testing.T) {
	svc, _ := newTestMandate()
	svc.Start(testTenant(domain.ENachNotRegistered))
	driveTo(t, svc, StepSuccess)

	view, _ := svc.Get("t-1")
	if view.Draft.CustomerID != "" || view.Draft.Password != "" || view.Draft.OTP != "" {
		t.Fatal("netbanking secrets must be dropped when the flow completes")
	}
}
