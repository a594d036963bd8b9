package session

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-stock-api/internal/domain"
	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
	"github.com/jhoicas/pos-stock-api/internal/domain/repository"
)

// SecureStore almacenamiento cifrado en reposo para el token de sesión activo.
type SecureStore interface {
	Save(tokenString string) error
	Get() (string, error) // "" si no hay token guardado
	Delete() error
}

// Manager sesión activa del proceso: login con credenciales, persistencia del
// token en almacenamiento seguro, revalidación y renovación.
type Manager struct {
	authority *Authority
	users     repository.UserRepository
	store     SecureStore

	mu      sync.RWMutex
	current *entity.SessionToken
}

// NewManager construye el manager.
func NewManager(authority *Authority, users repository.UserRepository, store SecureStore) *Manager {
	return &Manager{authority: authority, users: users, store: store}
}

// Login verifica credenciales (bcrypt), emite un token y lo guarda en el
// almacenamiento seguro. Devuelve el token en formato de cable y su payload.
// ErrUserNotFound si el usuario no existe, ErrUnauthorized si la contraseña no
// coincide, ErrForbidden si está inactivo.
func (m *Manager) Login(username, password string) (string, *entity.SessionToken, error) {
	user, err := m.users.FindByUsername(username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return "", nil, domain.ErrForbidden
	}
	tokenString, sessionToken, err := m.authority.Generate(user)
	if err != nil {
		return "", nil, err
	}
	if err := m.store.Save(tokenString); err != nil {
		return "", nil, err
	}
	m.mu.Lock()
	m.current = sessionToken
	m.mu.Unlock()
	return tokenString, sessionToken, nil
}

// Logout revoca el token guardado y lo elimina del almacenamiento. La sesión
// local se cierra aunque la revocación falle; el error se reporta igual.
func (m *Manager) Logout() error {
	var revokeErr error
	tokenString, err := m.store.Get()
	if err == nil && tokenString != "" {
		revokeErr = m.authority.Revoke(tokenString)
	}
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	if err := m.store.Delete(); err != nil {
		return err
	}
	return revokeErr
}

// ValidateSession revalida el token guardado y restaura la sesión si sigue
// vigente. false cuando no hay token o ya no es válido.
func (m *Manager) ValidateSession() bool {
	tokenString, err := m.store.Get()
	if err != nil || tokenString == "" {
		return false
	}
	sessionToken := m.authority.Validate(tokenString)
	m.mu.Lock()
	m.current = sessionToken
	m.mu.Unlock()
	return sessionToken != nil
}

// RefreshSession renueva el token guardado si sigue válido. false si no se
// pudo renovar (token ausente, expirado o revocado).
func (m *Manager) RefreshSession() bool {
	tokenString, err := m.store.Get()
	if err != nil || tokenString == "" {
		return false
	}
	newTokenString, newToken := m.authority.Refresh(tokenString)
	if newToken == nil {
		return false
	}
	if err := m.store.Save(newTokenString); err != nil {
		return false
	}
	m.mu.Lock()
	m.current = newToken
	m.mu.Unlock()
	return true
}

// Current token de sesión activo (nil si no hay sesión).
func (m *Manager) Current() *entity.SessionToken {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// RemainingTime tiempo restante de la sesión activa (cero si no hay sesión).
func (m *Manager) RemainingTime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return 0
	}
	remaining := m.current.Remaining(time.Now().UTC())
	if remaining < 0 {
		return 0
	}
	return remaining
}
