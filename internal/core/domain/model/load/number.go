package load

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
)

const (
	loadNumberPrefix  = "LD"
	trackingTokenSize = 16
	base36Alphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewLoadNumber builds a human-readable load number:
//
//	LD-<first 8 hex digits of the tenant id>-<base36 unix millis><4 random base36>
//
// Storage keeps a unique index on (tenant, number) and reports a collision as a
// resource conflict.
func NewLoadNumber(tenantID kernel.UUID, now time.Time) (string, error) {
	tenant := strings.ToUpper(strings.ReplaceAll(tenantID.String(), "-", ""))[:8]
	suffix, err := randomBase36(4)
	if err != nil {
		return "", err
	}
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return fmt.Sprintf("%s-%s-%s%s", loadNumberPrefix, tenant, stamp, suffix), nil
}

// NewTrackingToken returns 128 bits from crypto/rand as 32 lowercase hex digits,
// suitable for an unauthenticated public URL.
func NewTrackingToken() (string, error) {
	buf := make([]byte, trackingTokenSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate tracking token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// IsTrackingTokenShaped reports whether s looks like a token from NewTrackingToken.
func IsTrackingTokenShaped(s string) bool {
	if len(s) != trackingTokenSize*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func randomBase36(n int) (string, error) {
	limit := big.NewInt(int64(len(base36Alphabet)))
	var b strings.Builder
	for range n {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate load number: %w", err)
		}
		b.WriteByte(base36Alphabet[idx.Int64()])
	}
	return b.String(), nil
}
