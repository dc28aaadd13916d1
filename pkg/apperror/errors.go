package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so callers can use
// errors.Is(err, apperror.ErrWalletNotConnected()).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet session (WAL) ----

func ErrWalletNotConnected() *AppError {
	return New("WAL_001", "Wallet not connected", http.StatusConflict)
}

func ErrInvalidTransaction(message string) *AppError {
	return New("WAL_002", message, http.StatusBadRequest)
}

func ErrWalletInitFailed(err error) *AppError {
	return Wrap("WAL_003", "Wallet integration initialization failed", http.StatusBadGateway, err)
}

func ErrPairingTimeout() *AppError {
	return New("WAL_004", "Timed out waiting for wallet pairing", http.StatusGatewayTimeout)
}

func ErrSubmissionFailed(err error) *AppError {
	return Wrap("WAL_005", "Wallet transaction submission failed", http.StatusBadGateway, err)
}

func ErrDisconnected() *AppError {
	return New("WAL_006", "Wallet disconnected while pairing", http.StatusConflict)
}

func ErrDuplicateSubmission() *AppError {
	return New("WAL_007", "A submission with this idempotency key is already in progress or done", http.StatusConflict)
}

// ---- Request validation (REQ) ----

func ErrInvalidRequest(message string) *AppError {
	return New("REQ_001", message, http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrAccountMismatch() *AppError {
	return New("AUTH_004", "Token account does not match the connected wallet", http.StatusForbidden)
}

func ErrRoleForbidden(role string) *AppError {
	return New("AUTH_005", fmt.Sprintf("Role %q is not allowed to perform this action", role), http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a WAL_002-style validation error.
func Validation(message string) *AppError {
	return ErrInvalidTransaction(message)
}
