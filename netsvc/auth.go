package netsvc

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kestrelvcs/kestrel/core"
)

// AuthConfig configures server authentication, grounded on the
// teacher's cmd/server AuthConfig.
type AuthConfig struct {
	Enabled    bool
	JWTSecret  string
	Issuer     string
	Audience   string
	NameClaim  string // default "name"
	EmailClaim string // default "email"
}

// ConnectionState tracks per-connection authentication state.
type ConnectionState struct {
	identity      *core.Identity
	authenticated bool
	tokenExpiry   time.Time
}

func (cs *ConnectionState) IsAuthenticated() bool    { return cs.authenticated }
func (cs *ConnectionState) Identity() *core.Identity { return cs.identity }

type authResult struct {
	identity  core.Identity
	expiresAt time.Time
	err       error
}

// validateJWT validates an HS256/384/512 token and extracts the
// committing identity from its claims.
func (s *Server) validateJWT(tokenString string) authResult {
	if s.authConfig == nil {
		return authResult{err: errors.New("kestrel: authentication not configured")}
	}

	nameClaim := s.authConfig.NameClaim
	if nameClaim == "" {
		nameClaim = "name"
	}
	emailClaim := s.authConfig.EmailClaim
	if emailClaim == "" {
		emailClaim = "email"
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("kestrel: unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.authConfig.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return authResult{err: fmt.Errorf("kestrel: invalid token: %w", err)}
	}
	if !token.Valid {
		return authResult{err: errors.New("kestrel: invalid token")}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authResult{err: errors.New("kestrel: invalid token claims")}
	}

	if s.authConfig.Issuer != "" {
		issuer, _ := claims.GetIssuer()
		if issuer != s.authConfig.Issuer {
			return authResult{err: fmt.Errorf("kestrel: invalid issuer: expected %s, got %s", s.authConfig.Issuer, issuer)}
		}
	}
	if s.authConfig.Audience != "" {
		audiences, _ := claims.GetAudience()
		found := false
		for _, aud := range audiences {
			if aud == s.authConfig.Audience {
				found = true
				break
			}
		}
		if !found {
			return authResult{err: fmt.Errorf("kestrel: invalid audience: expected %s", s.authConfig.Audience)}
		}
	}

	name, _ := claims[nameClaim].(string)
	email, _ := claims[emailClaim].(string)
	if name == "" && email == "" {
		return authResult{err: fmt.Errorf("kestrel: token missing identity claims (%s or %s)", nameClaim, emailClaim)}
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	return authResult{identity: core.Identity{Name: name, Email: email}, expiresAt: expiresAt}
}

// parseAuthCommand parses a raw "AUTH JWT <token>" line.
func parseAuthCommand(line string) (authType, token string, err error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(strings.ToUpper(line), "AUTH ") {
		return "", "", errors.New("kestrel: not an AUTH command")
	}
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return "", "", errors.New("kestrel: invalid AUTH command: expected AUTH <type> <credentials>")
	}
	authType = strings.ToUpper(parts[1])
	token = parts[2]
	if authType != "JWT" {
		return "", "", fmt.Errorf("kestrel: unsupported auth type: %s", authType)
	}
	return authType, token, nil
}
