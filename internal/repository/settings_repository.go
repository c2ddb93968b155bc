package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/awards-service/internal/domain"
)

// SettingsRepository reads configuration records.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*domain.Setting, error)
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository instantiates repository.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	const query = `SELECT key, value, updated_at FROM settings WHERE key=$1`
	var setting domain.Setting
	var value []byte
	if err := r.pool.QueryRow(ctx, query, key).Scan(&setting.Key, &value, &setting.UpdatedAt); err != nil {
		return nil, err
	}
	if len(value) > 0 {
		if err := json.Unmarshal(value, &setting.Value); err != nil {
			return nil, err
		}
	}
	return &setting, nil
}
