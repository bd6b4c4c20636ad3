package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vignettes/internal/session"
)

func TestParsePrivileges(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want session.Privileges
	}{
		{
			name: "Booleans",
			raw:  `{"vente_plaques": true, "delivrance_vignettes": false, "assistant_ia": true}`,
			want: session.Privileges{SellPlates: true, UseAssistant: true},
		},
		{
			name: "MixedShapes",
			raw:  `{"VENTE_PLAQUES": "1", "annulation": 1, "gestion_impots": "oui", "gestion_particuliers": 0}`,
			want: session.Privileges{SellPlates: true, CancelTransactions: true, ManageTaxes: true},
		},
		{
			name: "UnknownKeysIgnored",
			raw:  `{"export_pdf": true}`,
			want: session.Privileges{},
		},
		{name: "Malformed", raw: `{"vente_plaques": tru`, want: session.Privileges{}},
		{name: "NotAnObject", raw: `["vente_plaques"]`, want: session.Privileges{}},
		{name: "Empty", raw: ``, want: session.Privileges{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, session.ParsePrivileges(tt.raw))
		})
	}
}

func sign(t *testing.T, secret string, c jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestFromToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	token := sign(t, "s3cret", jwt.MapClaims{
		"sub":        "agent-42",
		"name":       "Grace Kabila",
		"site":       "Kinshasa/Gombe",
		"role":       "guichet",
		"privileges": `{"vente_plaques": true, "delivrance_vignettes": "1"}`,
		"exp":        exp.Unix(),
	})

	s, err := session.FromToken(token, "s3cret")
	require.NoError(t, err)

	assert.Equal(t, "agent-42", s.User.ID)
	assert.Equal(t, "Grace Kabila", s.User.Name)
	assert.Equal(t, "Kinshasa/Gombe", s.User.Site)
	assert.True(t, s.Privileges.SellPlates)
	assert.True(t, s.Privileges.DeliverVignettes)
	assert.False(t, s.Privileges.UseAssistant)
	assert.True(t, exp.Equal(s.ExpiresAt))
}

func TestFromToken_ObjectPrivileges(t *testing.T) {
	token := sign(t, "k", jwt.MapClaims{
		"sub":        "agent-1",
		"privileges": map[string]any{"assistant_ia": true},
	})

	s, err := session.FromToken(token, "k")
	require.NoError(t, err)
	assert.True(t, s.Privileges.UseAssistant)
}

func TestFromToken_BadPrivilegesFallsBack(t *testing.T) {
	token := sign(t, "k", jwt.MapClaims{"sub": "agent-1", "privileges": "not json"})

	s, err := session.FromToken(token, "k")
	require.NoError(t, err)
	assert.Equal(t, session.Privileges{}, s.Privileges)
}

func TestFromToken_Errors(t *testing.T) {
	_, err := session.FromToken("", "k")
	assert.Error(t, err)

	token := sign(t, "right", jwt.MapClaims{"sub": "agent-1"})
	_, err = session.FromToken(token, "wrong")
	assert.Error(t, err)

	expired := sign(t, "k", jwt.MapClaims{"sub": "agent-1", "exp": time.Now().Add(-time.Hour).Unix()})
	_, err = session.FromToken(expired, "k")
	assert.Error(t, err)
}
