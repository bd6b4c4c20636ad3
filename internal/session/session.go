// Package session holds the operator identity and privileges resolved once at startup
// and passed explicitly to every wizard step.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Privileges is the closed set of capabilities the counter UI knows about.
// They drive what is displayed; the backend enforces them.
type Privileges struct {
	SellPlates         bool
	DeliverVignettes   bool
	CancelTransactions bool
	ManageTaxes        bool
	ManageTaxpayers    bool
	UseAssistant       bool
}

// privilegeKeys maps the backend's flag names to fields.
var privilegeKeys = map[string]func(p *Privileges) *bool{
	"vente_plaques":        func(p *Privileges) *bool { return &p.SellPlates },
	"delivrance_vignettes": func(p *Privileges) *bool { return &p.DeliverVignettes },
	"annulation":           func(p *Privileges) *bool { return &p.CancelTransactions },
	"gestion_impots":       func(p *Privileges) *bool { return &p.ManageTaxes },
	"gestion_particuliers": func(p *Privileges) *bool { return &p.ManageTaxpayers },
	"assistant_ia":         func(p *Privileges) *bool { return &p.UseAssistant },
}

// ParsePrivileges decodes the backend's free-form privilege blob.
// Unknown keys are ignored; anything that is not a JSON object yields all-false.
func ParsePrivileges(raw string) Privileges {
	var p Privileges

	var flags map[string]any
	if err := json.Unmarshal([]byte(raw), &flags); err != nil {
		return Privileges{}
	}

	for key, v := range flags {
		field, ok := privilegeKeys[strings.ToLower(key)]
		if !ok {
			continue
		}

		*field(&p) = truthy(v)
	}

	return p
}

// truthy accepts the shapes the backend has been seen to emit: true, 1, "1", "true", "oui".
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		if b, err := strconv.ParseBool(t); err == nil {
			return b
		}

		return strings.EqualFold(t, "oui")
	}

	return false
}

// User is the authenticated counter agent.
type User struct {
	ID   string
	Name string
	Site string
	Role string
}

// Session is the operator context injected into wizards.
type Session struct {
	User       User
	Privileges Privileges
	ExpiresAt  time.Time
}

// Anonymous is used when no token is configured: no privileges, no identity.
func Anonymous() *Session {
	return &Session{}
}

type claims struct {
	Name       string          `json:"name"`
	Site       string          `json:"site"`
	Role       string          `json:"role"`
	Privileges json.RawMessage `json:"privileges"`
	jwt.RegisteredClaims
}

// FromToken verifies an HS256 session token and resolves the operator session.
// The privileges claim may be a JSON object or a string holding one.
func FromToken(token, secret string) (*Session, error) {
	if token == "" {
		return nil, errors.New("empty session token")
	}

	var c claims

	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parsing session token: %w", err)
	}

	s := &Session{
		User: User{
			ID:   c.Subject,
			Name: c.Name,
			Site: c.Site,
			Role: c.Role,
		},
		Privileges: ParsePrivileges(privilegeBlob(c.Privileges)),
	}

	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}

	return s, nil
}

func privilegeBlob(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return string(raw)
}
