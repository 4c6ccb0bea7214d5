// Package token issues and validates the JWTs that authenticate requests to
// touistd. A token's signing key is derived per-account (server secret +
// account password hash + last-logout time), so rotating a password or
// logging out invalidates every token issued before that point without
// needing a revocation list.
package token

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/touist-lang/touist/server/dao"
)

const issuer = "touistd"

// Generate issues a new bearer token for acct, signed with a key derived
// from secret and acct's current password hash and logout time.
func Generate(secret []byte, acct dao.Account) (string, error) {
	claims := &jwt.MapClaims{
		"iss": issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": acct.ID.String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(signingKey(secret, acct))
}

// Validate parses and verifies tok, looking up the subject account via db,
// and returns it if the token is well-formed, signed with the expected key,
// and not expired.
func Validate(ctx context.Context, tok string, secret []byte, db dao.AccountRepository) (dao.Account, error) {
	var acct dao.Account

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		acct, err = db.GetByID(ctx, id)
		if err != nil {
			if err == dao.ErrNotFound {
				return nil, fmt.Errorf("subject does not exist")
			}
			return nil, fmt.Errorf("subject could not be validated")
		}

		return signingKey(secret, acct), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return dao.Account{}, err
	}

	return acct, nil
}

func signingKey(secret []byte, acct dao.Account) []byte {
	var key []byte
	key = append(key, secret...)
	key = append(key, []byte(acct.Password)...)
	key = append(key, []byte(fmt.Sprintf("%d", acct.LastLogoutTime.Unix()))...)
	return key
}

// Get extracts the bearer token from req's Authorization header.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	tok := strings.TrimSpace(authParts[1])
	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return tok, nil
}
