// Package auth turns bearer tokens issued by the identity service into actors.
package auth

import (
	"errors"
	"fmt"
	"strconv"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the fields the identity service puts into access tokens.
// PartyID is the supplier or customer organisation of the user and is
// empty for admins.
type Claims struct {
	Role    string `json:"role"`
	PartyID int64  `json:"party_id,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 signatures with a shared secret.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()),
	}, nil
}

// Actor validates raw and returns the caller it identifies.
func (v *Verifier) Actor(raw string) (kernel.Actor, error) {
	var claims Claims
	token, err := v.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return kernel.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.actor()
}

func (c Claims) actor() (kernel.Actor, error) {
	role, err := kernel.RoleFromString(c.Role)
	if err != nil {
		return kernel.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id := c.PartyID
	if role == kernel.RoleAdmin {
		id, err = strconv.ParseInt(c.Subject, 10, 64)
		if err != nil {
			return kernel.Actor{}, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, c.Subject)
		}
	}

	actor, err := kernel.NewActor(role, id)
	if err != nil {
		return kernel.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return actor, nil
}
