package tokens

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/organize/tasktracker/internal/models"
	"github.com/organize/tasktracker/pkg/logger"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 24 * time.Hour

// ErrInvalidToken is wrapped by every Verify failure.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the token payload: subject email plus the comma-joined authorities.
type Claims struct {
	Email       string `json:"email"`
	Authorities string `json:"authorities"`
	jwt.RegisteredClaims
}

// Identity is what a valid token proves about its bearer.
type Identity struct {
	Email string
	Roles []models.Role
}

// Codec issues and verifies HS256 bearer tokens.
type Codec struct {
	keys KeySource
	ttl  time.Duration
	now  func() time.Time
}

// NewCodec returns a codec signing with keys. A non-positive ttl uses DefaultTTL.
func NewCodec(keys KeySource, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{keys: keys, ttl: ttl, now: time.Now}
}

// Issue signs a token for email carrying roles as its authorities.
func (c *Codec) Issue(email string, roles []models.Role) (string, error) {
	now := c.now()
	claims := Claims{
		Email:       email,
		Authorities: models.JoinRoles(roles),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := jt.SignedString(c.keys.Current())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	logger.Debugf("issued token for %s", email)
	return signed, nil
}

// Verify checks signature and expiry. On any failure it returns a zero Identity
// and an error wrapping ErrInvalidToken.
func (c *Codec) Verify(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}
	var lastErr error
	for _, key := range c.keys.VerificationKeys() {
		claims, err := c.parse(raw, key)
		if err == nil {
			return Identity{
				Email: claims.Email,
				Roles: models.RoleSet(strings.Split(claims.Authorities, ",")),
			}, nil
		}
		lastErr = err
		// only a signature mismatch is worth retrying with an older key
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			break
		}
	}
	return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, lastErr)
}

func (c *Codec) parse(raw string, key []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ExtractEmail is the lenient variant used when only the identity matters.
// The credential may carry the "Bearer " prefix. Failures are logged, never returned.
func (c *Codec) ExtractEmail(credential string) (string, bool) {
	id, err := c.Verify(strings.TrimPrefix(credential, "Bearer "))
	if err != nil {
		logger.Warnf("failed to extract email from token: %v", err)
		return "", false
	}
	return id.Email, true
}
