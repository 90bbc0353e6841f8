// Package premium issues and verifies the signed tokens that unlock premium
// generation features. Tokens are checked on the server for every request.
package premium

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PlanPremium is the plan claim value that unlocks premium features.
const PlanPremium = "premium"

const issuer = "writeablog"

// ErrPremiumRequired is returned when a request uses a premium feature
// without a valid premium token.
var ErrPremiumRequired = errors.New("premium plan required")

// Claims are the JWT claims carried by a premium token.
type Claims struct {
	Plan string `json:"plan"`
	jwt.RegisteredClaims
}

// Verifier signs and checks premium tokens with a shared HMAC secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier. An empty secret is rejected.
func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("premium secret cannot be empty")
	}

	return &Verifier{secret: []byte(secret)}, nil
}

// Issue mints a premium token for subject that expires after ttl.
func (v *Verifier) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("subject cannot be empty")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("ttl must be positive, got %s", ttl)
	}

	now := time.Now()
	claims := Claims{
		Plan: PlanPremium,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign premium token: %w", err)
	}

	return signed, nil
}

// Verify parses tokenString and checks signature, expiry, issuer and plan.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPremiumRequired, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrPremiumRequired)
	}
	if claims.Plan != PlanPremium {
		return nil, fmt.Errorf("%w: plan %q", ErrPremiumRequired, claims.Plan)
	}

	return claims, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
