package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CSRFHeader is the request header mutating API calls must carry.
const CSRFHeader = "X-CSRF-Token"

// CSRF mints and verifies tokens protecting cookie-authenticated mutations.
// Tokens are HS256 JWTs bound to a digest of the session cookie, so a token
// issued for one session is useless with another session's cookie.
type CSRF struct {
	secret []byte
	ttl    time.Duration
}

func NewCSRF(secret string, ttl time.Duration) *CSRF {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CSRF{secret: []byte(secret), ttl: ttl}
}

// Issue returns a token bound to sessionToken. Page views call this and
// include the token in their payload for the client to echo back.
func (m *CSRF) Issue(sessionToken string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"jti": uuid.NewString(),
		"sid": sessionDigest(sessionToken),
		"iat": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Middleware rejects state-changing requests without a valid token for the
// current session. Safe methods pass through untouched.
func (m *CSRF) Middleware(cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			sessionToken := ""
			if cookie, err := c.Cookie(cookieName); err == nil {
				sessionToken = cookie.Value
			}

			if !m.verify(c.Request().Header.Get(CSRFHeader), sessionToken) {
				return echo.NewHTTPError(http.StatusForbidden, "missing or invalid CSRF token")
			}
			return next(c)
		}
	}
}

func (m *CSRF) verify(token, sessionToken string) bool {
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return false
	}

	sid, _ := claims["sid"].(string)
	return sid == sessionDigest(sessionToken)
}

func sessionDigest(sessionToken string) string {
	sum := sha256.Sum256([]byte(sessionToken))
	return hex.EncodeToString(sum[:16])
}
