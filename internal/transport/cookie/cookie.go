// Package cookie converts sessions to and from the HTTP session cookie. It is
// the only code that knows how a session travels over the wire.
package cookie

import (
	"errors"
	"net/http"
	"time"

	"msgboard/internal/domain/session"

	"github.com/golang-jwt/jwt/v5"
)

const Name = "msgboard_session"

var ErrInvalidCookie = errors.New("invalid session cookie")

// Claims is the signed cookie payload. Subject carries the user id.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type Codec struct {
	secret []byte
	secure bool
	now    func() time.Time
}

func NewCodec(secret string, secure bool) *Codec {
	return &Codec{secret: []byte(secret), secure: secure, now: time.Now}
}

// Encode signs a reference to sess. The session itself stays server side.
func (c *Codec) Encode(sess session.Session) (string, error) {
	claims := Claims{
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the signature and expiry and returns the session and user ids.
func (c *Codec) Decode(value string) (string, string, error) {
	if value == "" {
		return "", "", ErrInvalidCookie
	}

	parsed, err := jwt.ParseWithClaims(value, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCookie
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", "", ErrInvalidCookie
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.SessionID == "" || claims.Subject == "" {
		return "", "", ErrInvalidCookie
	}
	return claims.SessionID, claims.Subject, nil
}

// Read returns the ids referenced by the request's cookie, if any.
func (c *Codec) Read(r *http.Request) (string, string, bool) {
	ck, err := r.Cookie(Name)
	if err != nil {
		return "", "", false
	}
	sid, uid, err := c.Decode(ck.Value)
	if err != nil {
		return "", "", false
	}
	return sid, uid, true
}

// Write issues the cookie for sess, or clears it when sess is anonymous.
func (c *Codec) Write(w http.ResponseWriter, sess session.Session) error {
	if sess.IsAnonymous() {
		c.Clear(w)
		return nil
	}

	value, err := c.Encode(sess)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    value,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(sess.TTL(c.now()).Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
