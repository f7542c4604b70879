package config

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const gameCookie = "game"

var ErrNoToken = errors.New("no game token")

type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

func NewCookies(jwt *JWT) *Cookies {
	sameSite := http.SameSiteStrictMode
	switch strings.ToUpper(env.GetString("COOKIES_SAMESITE")) {
	case "DEFAULT":
		sameSite = http.SameSiteDefaultMode
	case "LAX":
		sameSite = http.SameSiteLaxMode
	case "NONE":
		sameSite = http.SameSiteNoneMode
	}

	return &Cookies{
		Domain:   env.GetString("COOKIES_DOMAIN"),
		Secure:   env.GetString("COOKIES_SECURE") != "0",
		SameSite: sameSite,
		jwt:      jwt,
	}
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     gameCookie,
		Path:     "/",
		Value:    "delete",
		MaxAge:   -1,
		HttpOnly: true,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

func (c *Cookies) Refresh(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     gameCookie,
		Path:     "/",
		Value:    token,
		Expires:  time.Now().Add(c.jwt.TokenLifetime()),
		HttpOnly: true,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

// ParseGameClaims reads the game token from the Authorization header or,
// failing that, from the game cookie.
func (c *Cookies) ParseGameClaims(r *http.Request) (*GameClaims, error) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		cookie, err := r.Cookie(gameCookie)
		if err != nil {
			return nil, ErrNoToken
		}
		token = cookie.Value
	}
	return c.jwt.Parse(strings.TrimSpace(token))
}
