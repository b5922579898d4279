package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/sisvam-web/pkg/jwt"
)

func TestExpiresAt_LeeExpSinVerificarFirma(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto-del-backend", "12345678", "admin", "sisvam-auth", 2*time.Hour)
	require.NoError(t, err)

	exp, err := pkgjwt.ExpiresAt(tok)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), exp, 5*time.Second)
}

func TestExpiresAt_TokenOpacoRetornaError(t *testing.T) {
	_, err := pkgjwt.ExpiresAt("token-opaco-sin-puntos")
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "1", "admin", "x", time.Hour)
	assert.Error(t, err)
}
