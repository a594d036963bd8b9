package session

import (
	"context"
	"time"

	"github.com/jhoicas/pos-stock-api/pkg/logger"
)

// Monitor vigila la expiración de la sesión activa en segundo plano: renueva
// el token cuando queda poco tiempo de vida y cierra la sesión cuando expira.
// Es la única goroutine de fondo del sistema y se detiene vía contexto sin
// efectos secundarios.
type Monitor struct {
	manager   *Manager
	interval  time.Duration // periodo de chequeo (defecto 1 minuto)
	threshold time.Duration // renovar cuando quede menos que esto (defecto 5 minutos)
	log       *logger.Logger

	// OnExpired se invoca (si no es nil) cuando la sesión expira y se cierra.
	OnExpired func()
}

// NewMonitor construye el monitor.
func NewMonitor(manager *Manager, interval, threshold time.Duration, log *logger.Logger) *Monitor {
	return &Monitor{manager: manager, interval: interval, threshold: threshold, log: log}
}

// Run ejecuta el bucle de chequeo hasta que el contexto se cancele.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check()
		}
	}
}

func (m *Monitor) check() {
	hadSession := m.manager.Current() != nil

	if !m.manager.ValidateSession() {
		// Había sesión activa y el token guardado ya no valida: expiró.
		if hadSession {
			m.log.Info().Msg("sesión expirada, cerrando sesión")
			if err := m.manager.Logout(); err != nil {
				m.log.Warn().Err(err).Msg("cerrar la sesión expirada")
			}
			if m.OnExpired != nil {
				m.OnExpired()
			}
		}
		return
	}

	remaining := m.manager.RemainingTime()
	if remaining < m.threshold {
		if m.manager.RefreshSession() {
			m.log.Debug().Dur("restante", remaining).Msg("token de sesión renovado automáticamente")
		}
	}
}
