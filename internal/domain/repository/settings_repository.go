package repository

// SettingsRepository define el puerto de persistencia para la configuración
// de facturación (blob plano clave/valor, sin versionado).
type SettingsRepository interface {
	Load() (map[string]string, error)
	Save(values map[string]string) error
}
