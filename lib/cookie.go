package lib

import (
	"breadstation_server/config"
	"net/http"
	"time"
)

const (
	CartCookieName  = "cart_id"
	AdminCookieName = "sb-access-token"
)

// cartCookieLifetime only bounds the browser cookie, the stored cart itself does not expire
const cartCookieLifetime = 365 * 24 * time.Hour

func sessionCookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Secure:   config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
	}
}

// SetCartCookie issues the cart session cookie
func SetCartCookie(id string, w http.ResponseWriter) {
	c := sessionCookie(CartCookieName, id)
	c.Expires = time.Now().Add(cartCookieLifetime)
	http.SetCookie(w, c)
}

func GetCookieValue(key string, r *http.Request) (string, error) {
	cookie, err := r.Cookie(key)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClearCookie expires the cookie in the browser
func ClearCookie(key string, w http.ResponseWriter) {
	c := sessionCookie(key, "")
	c.Expires = time.Unix(0, 0)
	c.MaxAge = -1
	http.SetCookie(w, c)
}
