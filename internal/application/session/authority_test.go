package session_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-stock-api/internal/application/session"
	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
	"github.com/jhoicas/pos-stock-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-stock-api/pkg/token"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testUser = &entity.User{ID: 1, Username: "cajero1", IsActive: true}

func buildAuthority(t *testing.T, lifetime time.Duration) *session.Authority {
	t.Helper()
	store := memory.NewStore()
	secret, err := session.LoadOrCreateSecret(store.Settings())
	require.NoError(t, err)
	return session.NewAuthority(token.NewCodec(secret), store.Revocations(), lifetime)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests LoadOrCreateSecret
// ──────────────────────────────────────────────────────────────────────────────

// El secreto se genera una vez y se reutiliza en lecturas posteriores.
func TestLoadOrCreateSecret_EsEstable(t *testing.T) {
	store := memory.NewStore()

	first, err := session.LoadOrCreateSecret(store.Settings())
	require.NoError(t, err)
	assert.Len(t, first, 64, "el secreto nuevo debe tener 64 bytes")

	second, err := session.LoadOrCreateSecret(store.Settings())
	require.NoError(t, err)
	assert.Equal(t, first, second, "la segunda carga debe devolver el mismo secreto persistido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Generate / Validate
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateValidate_TokenVigente(t *testing.T) {
	authority := buildAuthority(t, 30*time.Minute)

	tokenString, issued, err := authority.Generate(testUser)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.NotEmpty(t, issued.TokenID)

	validated := authority.Validate(tokenString)
	require.NotNil(t, validated, "un token recién emitido debe validar")
	assert.Equal(t, testUser.ID, validated.UserID)
	assert.Equal(t, testUser.Username, validated.Username)
	assert.Equal(t, issued.TokenID, validated.TokenID)
}

// Cada Generate emite un token id distinto.
func TestGenerate_TokenIDUnicoPorEmision(t *testing.T) {
	authority := buildAuthority(t, 30*time.Minute)

	_, first, err := authority.Generate(testUser)
	require.NoError(t, err)
	_, second, err := authority.Generate(testUser)
	require.NoError(t, err)
	assert.NotEqual(t, first.TokenID, second.TokenID)
}

// Un token expirado devuelve nil, nunca error: no autenticado es un estado
// esperado.
func TestValidate_TokenExpirado(t *testing.T) {
	authority := buildAuthority(t, -1*time.Minute)

	tokenString, _, err := authority.Generate(testUser)
	require.NoError(t, err)

	assert.Nil(t, authority.Validate(tokenString), "token con vencimiento en el pasado no debe validar")
}

func TestValidate_TokenManipuladoOMalformado(t *testing.T) {
	authority := buildAuthority(t, 30*time.Minute)

	tokenString, _, err := authority.Generate(testUser)
	require.NoError(t, err)

	// Payload alterado: la firma deja de coincidir.
	parts := strings.SplitN(tokenString, ".", 2)
	require.Len(t, parts, 2)
	tampered := parts[0][:len(parts[0])-4] + "AAAA" + "." + parts[1]
	assert.Nil(t, authority.Validate(tampered), "payload alterado no debe validar")

	assert.Nil(t, authority.Validate("no-es-un-token"), "token sin separador no debe validar")
	assert.Nil(t, authority.Validate(""), "token vacío no debe validar")
}

// Un token firmado con otro secreto no valida.
func TestValidate_SecretoDistinto(t *testing.T) {
	authorityA := buildAuthority(t, 30*time.Minute)
	authorityB := buildAuthority(t, 30*time.Minute)

	tokenString, _, err := authorityA.Generate(testUser)
	require.NoError(t, err)

	assert.Nil(t, authorityB.Validate(tokenString), "cada secreto invalida los tokens del otro")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Revoke
// ──────────────────────────────────────────────────────────────────────────────

func TestRevoke_TokenRevocadoNoValida(t *testing.T) {
	authority := buildAuthority(t, 30*time.Minute)

	tokenString, _, err := authority.Generate(testUser)
	require.NoError(t, err)
	require.NotNil(t, authority.Validate(tokenString))

	require.NoError(t, authority.Revoke(tokenString))

	assert.Nil(t, authority.Validate(tokenString), "un token revocado no debe validar aunque no haya expirado")
	assert.True(t, authority.IsRevoked(tokenString))
}

// Revocar un token no afecta otros tokens vigentes del mismo usuario.
func TestRevoke_NoAfectaOtrosTokens(t *testing.T) {
	authority := buildAuthority(t, 30*time.Minute)

	primero, _, err := authority.Generate(testUser)
	require.NoError(t, err)
	segundo, _, err := authority.Generate(testUser)
	require.NoError(t, err)

	require.NoError(t, authority.Revoke(primero))

	assert.Nil(t, authority.Validate(primero))
	assert.NotNil(t, authority.Validate(segundo), "la revocación es por token id, no por usuario")
}

// failingRevocations repositorio de revocación que rechaza toda escritura.
type failingRevocations struct{}

func (failingRevocations) Revoke(tokenID string, at time.Time) error {
	return errors.New("lista de revocación no disponible")
}

func (failingRevocations) IsRevoked(tokenID string) (bool, error) { return false, nil }

// Si el repositorio no confirma la revocación, Revoke reporta el error: un
// token que se cree revocado pero no lo está seguiría validando.
func TestRevoke_PropagaElErrorDelRepositorio(t *testing.T) {
	store := memory.NewStore()
	secret, err := session.LoadOrCreateSecret(store.Settings())
	require.NoError(t, err)
	authority := session.NewAuthority(token.NewCodec(secret), failingRevocations{}, 30*time.Minute)

	tokenString, _, err := authority.Generate(testUser)
	require.NoError(t, err)

	require.Error(t, authority.Revoke(tokenString), "la falla del repositorio debe reportarse al caller")
	assert.NotNil(t, authority.Validate(tokenString), "sin revocación confirmada el token sigue vigente")

	// Refresh tampoco entrega un token nuevo si no pudo revocar el anterior.
	newString, newToken := authority.Refresh(tokenString)
	assert.Empty(t, newString)
	assert.Nil(t, newToken)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Refresh
// ──────────────────────────────────────────────────────────────────────────────

// Refresh emite un token nuevo y revoca el anterior.
func TestRefresh_EmiteNuevoYRevocaAnterior(t *testing.T) {
	authority := buildAuthority(t, 30*time.Minute)

	oldString, oldToken, err := authority.Generate(testUser)
	require.NoError(t, err)

	newString, newToken := authority.Refresh(oldString)
	require.NotNil(t, newToken)
	require.NotEmpty(t, newString)

	assert.NotEqual(t, oldToken.TokenID, newToken.TokenID, "el token renovado tiene id propio")
	assert.Equal(t, oldToken.UserID, newToken.UserID)
	assert.Nil(t, authority.Validate(oldString), "el token anterior queda revocado")
	assert.NotNil(t, authority.Validate(newString), "el nuevo token debe validar")
}

// Renovar un token inválido (expirado o revocado) no emite nada.
func TestRefresh_TokenInvalidoNoRenueva(t *testing.T) {
	expirado := buildAuthority(t, -1*time.Minute)
	tokenString, _, err := expirado.Generate(testUser)
	require.NoError(t, err)
	newString, newToken := expirado.Refresh(tokenString)
	assert.Empty(t, newString)
	assert.Nil(t, newToken, "un token expirado no se renueva")

	vigente := buildAuthority(t, 30*time.Minute)
	revocado, _, err := vigente.Generate(testUser)
	require.NoError(t, err)
	require.NoError(t, vigente.Revoke(revocado))
	newString, newToken = vigente.Refresh(revocado)
	assert.Empty(t, newString)
	assert.Nil(t, newToken, "un token revocado no se renueva")
}
