package response

import (
	"errors"
	"net/http"
	"time"

	"supplychain-wallet-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxRequestID is the gin context key holding the request correlation ID.
const CtxRequestID = "request_id"

// SuccessResponse is the standard success envelope. WalletMode tells the
// caller whether the result came from the real wallet or the simulated one.
type SuccessResponse struct {
	Data       interface{} `json:"data"`
	WalletMode string      `json:"wallet_mode,omitempty"`
	RequestID  string      `json:"request_id"`
	Timestamp  string      `json:"timestamp"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, "", data)
}

// Created sends a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, "", data)
}

// OKWithMode sends a 200 response tagged with the wallet mode that served it.
func OKWithMode(c *gin.Context, mode string, data interface{}) {
	write(c, http.StatusOK, mode, data)
}

// CreatedWithMode sends a 201 response tagged with the wallet mode that served it.
func CreatedWithMode(c *gin.Context, mode string, data interface{}) {
	write(c, http.StatusCreated, mode, data)
}

func write(c *gin.Context, status int, mode string, data interface{}) {
	c.JSON(status, SuccessResponse{
		Data:       data,
		WalletMode: mode,
		RequestID:  getRequestID(c),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it accordingly, otherwise returns 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{
			ErrorCode: appErr.Code,
			Message:   appErr.Message,
			RequestID: getRequestID(c),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		ErrorCode: "SYS_000",
		Message:   "Internal server error",
		RequestID: getRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// getRequestID retrieves request ID from context, or generates one.
func getRequestID(c *gin.Context) string {
	if id, exists := c.Get(CtxRequestID); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
