package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
)

// Session errors
var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoTenantAttached   = errors.New("no tenant profile attached to session")
)

// Mandate errors
var (
	ErrMandateAlreadyActive  = errors.New("e-NACH mandate already active")
	ErrMandatePendingBank    = errors.New("e-NACH mandate awaiting bank approval")
	ErrRegistrationNotFound  = errors.New("no registration in progress")
	ErrRegistrationComplete  = errors.New("registration already completed")
	ErrProcessing            = errors.New("previous step still processing")
	ErrBankRequired          = errors.New("bank selection required")
	ErrTermsNotAgreed        = errors.New("terms must be agreed")
	ErrCredentialsRequired   = errors.New("customer ID and password required")
	ErrInvalidOTP            = errors.New("invalid 6-digit OTP")
	ErrInvalidMandateAmount  = errors.New("mandate amount must be positive")
	ErrInvalidFrequency      = errors.New("invalid debit frequency")
	ErrUnknownBank           = errors.New("bank not in supported list")
	ErrNoBackwardTransition  = errors.New("no backward transition from this step")
)
