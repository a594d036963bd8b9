// Package securestore guarda el token de sesión activo cifrado en reposo
// (XChaCha20-Poly1305 sobre un archivo local).
package securestore

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/jhoicas/pos-stock-api/internal/application/session"
)

var _ session.SecureStore = (*FileStore)(nil)

// FileStore implementación de SecureStore sobre un archivo cifrado.
type FileStore struct {
	path string
	aead cipher.AEAD
}

// NewFileStore construye el store. La clave de cifrado se deriva del secreto
// con SHA-256 (chacha20poly1305 exige 32 bytes exactos).
func NewFileStore(path string, secret []byte) (*FileStore, error) {
	key := sha256.Sum256(secret)
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("crear cifrador: %w", err)
	}
	return &FileStore{path: path, aead: aead}, nil
}

// Save cifra y escribe el token (nonce aleatorio antepuesto al ciphertext).
func (s *FileStore) Save(tokenString string) error {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generar nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(tokenString), nil)
	if err := os.WriteFile(s.path, sealed, 0o600); err != nil {
		return fmt.Errorf("guardar token: %w", err)
	}
	return nil
}

// Get descifra y devuelve el token guardado; "" si no hay archivo.
func (s *FileStore) Get() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("leer token: %w", err)
	}
	if len(data) < s.aead.NonceSize() {
		return "", fmt.Errorf("archivo de sesión corrupto")
	}
	nonce, sealed := data[:s.aead.NonceSize()], data[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("descifrar token: %w", err)
	}
	return string(plain), nil
}

// Delete elimina el archivo del token (no es error si no existe).
func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("eliminar token: %w", err)
	}
	return nil
}
