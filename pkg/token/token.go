// Package token firma y verifica tokens de sesión opacos.
//
// Formato de cable: base64(payload JSON) + "." + base64(firma HMAC-SHA256).
// La verificación usa comparación en tiempo constante (hmac.Equal) para evitar
// side-channels de timing.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
)

// Errores de codec. El llamador típico (Token Authority) los colapsa en un
// resultado nil: un token inválido es un estado normal, no una excepción.
var (
	ErrMalformed    = errors.New("token malformado")
	ErrBadSignature = errors.New("firma de token inválida")
)

// Codec firma y verifica payloads de sesión con una clave HMAC persistida.
type Codec struct {
	secret []byte
}

// NewCodec construye el codec con la clave de firma.
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// Sign serializa el payload y lo firma. Devuelve el token en formato de cable.
func (c *Codec) Sign(t *entity.SessionToken) (string, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	sig := c.signature(payload)
	return base64.StdEncoding.EncodeToString(payload) + "." + base64.StdEncoding.EncodeToString(sig), nil
}

// Verify valida formato y firma, y devuelve el payload deserializado.
// No evalúa expiración ni revocación: eso es responsabilidad del Authority.
func (c *Codec) Verify(tokenString string) (*entity.SessionToken, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 2 {
		return nil, ErrMalformed
	}
	payload, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrMalformed
	}
	sig, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrMalformed
	}
	if !hmac.Equal(sig, c.signature(payload)) {
		return nil, ErrBadSignature
	}
	var t entity.SessionToken
	if err := json.Unmarshal(payload, &t); err != nil {
		return nil, ErrMalformed
	}
	return &t, nil
}

func (c *Codec) signature(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
