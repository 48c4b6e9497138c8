package identity

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid identity token")
	ErrMissingEmail  = errors.New("identity token has no email claim")
	ErrMissingSecret = errors.New("identity secret not configured")
)

// Claims is the sign-in shape handed over by the identity provider:
// a stable user id plus verified profile fields. PhotoURL may be empty.
type Claims struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Avatar returns the profile photo, falling back to a generated
// avatar the way the web client does for accounts without one.
func (c *Claims) Avatar() string {
	if c.PhotoURL != "" {
		return c.PhotoURL
	}
	name := c.DisplayName
	if name == "" {
		name = "User"
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=00BFA5&color=fff"
}

// Verifier validates identity-provider ID tokens.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a signed ID token and extracts the
// sign-in claims. Any parse or signature failure is an authentication
// error, never an authorization rejection.
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, ErrMissingSecret
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &Claims{
		UID:         stringClaim(mapClaims, "sub"),
		Email:       stringClaim(mapClaims, "email"),
		DisplayName: stringClaim(mapClaims, "name"),
		PhotoURL:    stringClaim(mapClaims, "picture"),
	}
	if claims.UID == "" {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, ErrMissingEmail
	}
	return claims, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
