package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NoticeTokenPrefix marks tokens that grant access to a customer's notices.
const NoticeTokenPrefix = "ntc"

var (
	ErrNoticeTokenMissing   = errors.New("notice token is required")
	ErrNoticeTokenMalformed = errors.New("invalid notice token format")
	ErrNoticeTokenSignature = errors.New("invalid notice token signature")
)

// NoticeTokenService issues and checks the token handed to the shopper at
// checkout. It binds the notice queue to the customer who placed the order.
// Token format: ntc_<customer_id>_<signature>
// Signature: base64url(HMAC-SHA256(secret, "ntc_" + customer_id)[:16])
type NoticeTokenService struct {
	secret []byte
}

func NewNoticeTokenService(secret string) *NoticeTokenService {
	return &NoticeTokenService{secret: []byte(secret)}
}

// Generate returns the token for customerID.
func (s *NoticeTokenService) Generate(customerID uint) string {
	id := strconv.FormatUint(uint64(customerID), 10)
	return fmt.Sprintf("%s_%s_%s", NoticeTokenPrefix, id, s.sign(id))
}

// Verify returns the customer the token was issued for.
func (s *NoticeTokenService) Verify(token string) (uint, error) {
	if token == "" {
		return 0, ErrNoticeTokenMissing
	}

	// base64url signatures may contain '_'
	parts := strings.SplitN(token, "_", 3)
	if len(parts) != 3 || parts[0] != NoticeTokenPrefix {
		return 0, ErrNoticeTokenMalformed
	}

	customerID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || customerID == 0 {
		return 0, ErrNoticeTokenMalformed
	}

	if !hmac.Equal([]byte(parts[2]), []byte(s.sign(parts[1]))) {
		return 0, ErrNoticeTokenSignature
	}
	return uint(customerID), nil
}

func (s *NoticeTokenService) sign(id string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(NoticeTokenPrefix + "_" + id))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)[:16])
}
