package repository

// SettingsRepository ajustes string-keyed persistidos (proveedor de
// configuración del dominio). El Token Authority lo usa para obtener y
// conservar su secreto de firma entre reinicios.
type SettingsRepository interface {
	Get(key string) (string, error) // "" si no existe
	Set(key, value string) error
}
