package flash

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Flash messages survive a POST-redirect-GET hop inside a short-lived,
// HS256-signed cookie so they cannot be forged client-side.

const (
	CookieName = "mediashelf_flash"
	Issuer     = "mediashelf"
	TTL        = 5 * time.Minute
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Message is a one-shot notice rendered on the next page view.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

type cookieClaims struct {
	Messages []Message `json:"messages"`
	jwt.RegisteredClaims
}

var jwtSigningMethod = jwt.SigningMethodHS256

// Mint signs the messages into a cookie value valid for TTL from now.
func Mint(secret string, now time.Time, messages []Message) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("flash secret is required")
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("at least one message is required")
	}

	claims := cookieClaims{
		Messages: messages,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing flash cookie: %w", err)
	}
	return signed, nil
}

// Parse validates a cookie value and returns the carried messages.
func Parse(secret, value string) ([]Message, error) {
	if secret == "" {
		return nil, fmt.Errorf("flash secret is required")
	}

	claims := &cookieClaims{}
	_, err := jwt.ParseWithClaims(
		value,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(Issuer),
	)
	if err != nil {
		return nil, err
	}

	return claims.Messages, nil
}

// Set attaches a flash cookie carrying the messages to the response.
func Set(w http.ResponseWriter, secret string, messages ...Message) error {
	value, err := Mint(secret, time.Now(), messages)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop reads the flash cookie, clears it, and returns its messages. A
// missing, expired, or tampered cookie yields nil.
func Pop(w http.ResponseWriter, r *http.Request, secret string) []Message {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	messages, err := Parse(secret, cookie.Value)
	if err != nil {
		return nil
	}
	return messages
}
