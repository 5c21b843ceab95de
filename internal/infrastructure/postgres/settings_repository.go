package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/factura-manual/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo implementación de SettingsRepository sobre una tabla
// clave/valor. Las claves ausentes se resuelven con defaults en el caso de uso.
type SettingsRepo struct {
	q Querier
}

func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

func (r *SettingsRepo) Load() (map[string]string, error) {
	rows, err := r.q.Query(context.Background(), `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		values[k] = v
	}
	return values, rows.Err()
}

func (r *SettingsRepo) Save(values map[string]string) error {
	ctx := context.Background()
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	for k, v := range values {
		if _, err := r.q.Exec(ctx, query, k, v); err != nil {
			return fmt.Errorf("save setting %s: %w", k, err)
		}
	}
	return nil
}
