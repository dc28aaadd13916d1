package middleware

import (
	"net/http"
	"time"

	"supplychain-wallet-gateway/internal/core/ports"
	"supplychain-wallet-gateway/pkg/apperror"
	"supplychain-wallet-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"

	maxIdempotencyKeyLen = 128
)

// Idempotency rejects a write whose Idempotency-Key the account already used
// within ttl. A key is released again when the request fails, so the client
// may retry it. Requests without the header pass through. It must run after
// WalletAuth.
func Idempotency(guard ports.SubmissionGuard, ttl time.Duration, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			response.Error(c, apperror.ErrInvalidRequest("Idempotency-Key is too long"))
			c.Abort()
			return
		}

		accountID := c.GetString(CtxAccountID)
		ctx := c.Request.Context()

		fresh, err := guard.Claim(ctx, accountID, key, ttl)
		if err != nil {
			log.Warn().Err(err).Str("account_id", accountID).Msg("submission guard unavailable, allowing request (degraded mode)")
			c.Next()
			return
		}
		if !fresh {
			response.Error(c, apperror.ErrDuplicateSubmission())
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := guard.Release(ctx, accountID, key); err != nil {
				log.Warn().Err(err).Str("account_id", accountID).Msg("failed to release idempotency key")
			}
		}
	}
}
