package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/api/metrics"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

// ContextKeySession is the echo context key holding the ports.Session.
const ContextKeySession = "session"

// SessionConfig configures the Session middleware.
type SessionConfig struct {
	Manager    ports.SessionManager
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
	Log        zerolog.Logger
}

// Session identifies the browser from its signed cookie, opens its session
// and injects it into the context. A missing or invalid cookie starts a new
// browser session.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(cfg.CookieName); err == nil {
				sid = ParseSessionToken(cfg.Secret, ck.Value)
			}

			if sid == "" {
				sid = uuid.NewString()
				token, err := IssueSessionToken(cfg.Secret, sid, cfg.TTL)
				if err != nil {
					return err
				}
				c.SetCookie(&http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
				metrics.SessionEventsTotal.WithLabelValues("created").Inc()
				cfg.Log.Debug().Str("session_id", sid).Msg("browser session started")
			}

			sess, err := cfg.Manager.Open(c.Request().Context(), sid)
			if err != nil {
				return err
			}
			c.Set(ContextKeySession, sess)

			return next(c)
		}
	}
}

// IssueSessionToken signs a cookie value carrying sid.
func IssueSessionToken(secret, sid string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
	}
	if ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSessionToken returns the sid carried by a valid token, or "".
func ParseSessionToken(secret, raw string) string {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return ""
	}
	sid, _ := claims["sid"].(string)
	if _, err := uuid.Parse(sid); err != nil {
		return ""
	}
	return sid
}

// SessionFrom returns the session injected by Session, or nil.
func SessionFrom(c echo.Context) ports.Session {
	sess, _ := c.Get(ContextKeySession).(ports.Session)
	return sess
}
