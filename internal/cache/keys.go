package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// ExplanationKey addresses one cached provider output. Outputs are keyed by
// provider, model, and kind so switching any of them never serves stale text.
func ExplanationKey(provider, model, kind, clause string) string {
	return fmt.Sprintf("explain:%s:%s:%s:%s", provider, model, kind, ClauseHash(clause))
}

func ReportKey(tenantID, reportID uuid.UUID) string {
	return fmt.Sprintf("report:%s:%s", tenantID, reportID)
}

func JobStatusKey(jobID uuid.UUID) string {
	return fmt.Sprintf("job:%s", jobID)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}

// ClauseHash returns the lowercase hex SHA-256 of a clause.
func ClauseHash(clause string) string {
	sum := sha256.Sum256([]byte(clause))
	return hex.EncodeToString(sum[:])
}
