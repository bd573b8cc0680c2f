package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/numguess/apps/go-server/internal/play"
)

// tableTokenTTL bounds how long a browser may keep referring to its table.
const tableTokenTTL = 24 * time.Hour

var errNoTable = errors.New("no table token")

// signTableToken creates an HS256 JWT carrying the table ID.
// The token binds a browser to its table; it identifies no user.
func (s *Server) signTableToken(tableID string) (string, error) {
	now := s.opts.Clock()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   tableID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tableTokenTTL)),
	})
	return t.SignedString([]byte(s.opts.SessionSecret))
}

// parseTableToken validates tok and returns the table ID.
func (s *Server) parseTableToken(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.opts.Clock))
	if err != nil || !token.Valid {
		return "", errNoTable
	}
	if claims.Subject == "" {
		return "", errNoTable
	}
	return claims.Subject, nil
}

// tableFromRequest resolves the caller's table from bearer token or cookie.
func (s *Server) tableFromRequest(r *http.Request) (*play.Table, error) {
	tok := s.bearerOrCookie(r)
	if tok == "" {
		return nil, errNoTable
	}
	id, err := s.parseTableToken(tok)
	if err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

// setTableCookie writes the table cookie with appropriate security attributes.
func (s *Server) setTableCookie(w http.ResponseWriter, token string) {
	sameSite := http.SameSiteLaxMode
	if s.opts.Production {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Production,
		SameSite: sameSite,
		Expires:  s.opts.Clock().Add(tableTokenTTL),
	})
}

// clearTableCookie expires the table cookie.
func (s *Server) clearTableCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Production,
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a token from the Authorization header or the table cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.opts.CookieName); err == nil {
		return c.Value
	}
	return ""
}
