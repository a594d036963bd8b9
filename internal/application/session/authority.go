package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
	"github.com/jhoicas/pos-stock-api/internal/domain/repository"
	"github.com/jhoicas/pos-stock-api/pkg/token"
)

// Clave del secreto de firma en el repositorio de ajustes.
const SettingTokenSecret = "security.token_secret"

// LoadOrCreateSecret obtiene el secreto de firma persistido; si no existe,
// genera 64 bytes aleatorios, los guarda en base64 y los reutiliza en adelante.
func LoadOrCreateSecret(settings repository.SettingsRepository) ([]byte, error) {
	value, err := settings.Get(SettingTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("leer secreto de firma: %w", err)
	}
	if value == "" {
		raw := make([]byte, 64)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("generar secreto de firma: %w", err)
		}
		value = base64.StdEncoding.EncodeToString(raw)
		if err := settings.Set(SettingTokenSecret, value); err != nil {
			return nil, fmt.Errorf("guardar secreto de firma: %w", err)
		}
		return raw, nil
	}
	secret, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decodificar secreto de firma: %w", err)
	}
	return secret, nil
}

// Authority emite, valida, renueva y revoca tokens de sesión opacos. Los
// tokens son verificables sin estado (firma HMAC); solo la lista de revocación
// vive del lado del servidor, detrás de un repositorio inyectado.
type Authority struct {
	codec       *token.Codec
	revocations repository.RevocationRepository
	lifetime    time.Duration
	now         func() time.Time
}

// NewAuthority construye el authority. lifetime es la vida de cada token
// (defecto recomendado: 30 minutos).
func NewAuthority(codec *token.Codec, revocations repository.RevocationRepository, lifetime time.Duration) *Authority {
	return &Authority{
		codec:       codec,
		revocations: revocations,
		lifetime:    lifetime,
		now:         time.Now,
	}
}

// Generate emite un token nuevo para el usuario: id aleatorio, emitido ahora,
// expira en lifetime. Devuelve el token en formato de cable y su payload.
func (a *Authority) Generate(user *entity.User) (string, *entity.SessionToken, error) {
	now := a.now().UTC()
	sessionToken := &entity.SessionToken{
		TokenID:        uuid.New().String(),
		UserID:         user.ID,
		Username:       user.Username,
		IssuedAt:       now,
		ExpiresAt:      now.Add(a.lifetime),
		LastActivityAt: now,
	}
	tokenString, err := a.codec.Sign(sessionToken)
	if err != nil {
		return "", nil, err
	}
	return tokenString, sessionToken, nil
}

// Validate devuelve el payload si el token es auténtico, vigente y no revocado;
// nil en cualquier otro caso. Un token inválido es un resultado negativo
// normal, nunca un error: "no autenticado" es un estado esperado.
func (a *Authority) Validate(tokenString string) *entity.SessionToken {
	if tokenString == "" {
		return nil
	}
	sessionToken, err := a.codec.Verify(tokenString)
	if err != nil {
		return nil
	}
	revoked, err := a.revocations.IsRevoked(sessionToken.TokenID)
	if err != nil || revoked {
		return nil
	}
	if sessionToken.Expired(a.now().UTC()) {
		return nil
	}
	return sessionToken
}

// Refresh valida el token anterior y, si sigue vigente, emite uno nuevo (id y
// vencimiento nuevos) revocando el anterior. Devuelve "" si el anterior ya no
// era válido.
func (a *Authority) Refresh(oldTokenString string) (string, *entity.SessionToken) {
	oldToken := a.Validate(oldTokenString)
	if oldToken == nil {
		return "", nil
	}
	user := &entity.User{ID: oldToken.UserID, Username: oldToken.Username}
	newTokenString, newToken, err := a.Generate(user)
	if err != nil {
		return "", nil
	}
	// Si la revocación no se confirma, el token anterior seguiría vigente:
	// mejor no entregar el nuevo y dejar que el caller reintente.
	if err := a.Revoke(oldTokenString); err != nil {
		return "", nil
	}
	return newTokenString, newToken
}

// Revoke agrega el token a la lista de revocación (por token id). Tokens que
// no se pueden decodificar se ignoran: nunca fueron válidos. Un error del
// repositorio se propaga porque sin confirmación el token sigue siendo válido.
func (a *Authority) Revoke(tokenString string) error {
	sessionToken, err := a.codec.Verify(tokenString)
	if err != nil {
		return nil
	}
	if err := a.revocations.Revoke(sessionToken.TokenID, a.now().UTC()); err != nil {
		return fmt.Errorf("revocar token: %w", err)
	}
	return nil
}

// IsRevoked consulta la lista de revocación.
func (a *Authority) IsRevoked(tokenString string) bool {
	sessionToken, err := a.codec.Verify(tokenString)
	if err != nil {
		return false
	}
	revoked, err := a.revocations.IsRevoked(sessionToken.TokenID)
	return err == nil && revoked
}
