package settings

import "context"

type SettingsRepository interface {
	// Get returns the company settings row, or ErrSettingsNotFound when the
	// company has never saved one.
	Get(ctx context.Context, companyID string) (Settings, error)
	Upsert(ctx context.Context, s Settings) (Settings, error)
}
