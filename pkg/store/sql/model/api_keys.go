package model

import (
	"time"

	"github.com/datashelf/datashelf/pkg/api"
)

// APIKey mapped from table <api_keys>. Only the sha256 hash of the secret
// is persisted; the prefix exists so operators can tell keys apart.
type APIKey struct {
	ID         string     `gorm:"column:id;primaryKey"`
	Name       string     `gorm:"column:name;not null"`
	KeyHash    string     `gorm:"column:key_hash;not null;uniqueIndex"`
	Prefix     string     `gorm:"column:prefix;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;not null"`
	LastUsedAt *time.Time `gorm:"column:last_used_at"`
}

func (k APIKey) ToAPI() api.APIKey {
	return api.APIKey{
		ID:         k.ID,
		Name:       k.Name,
		Prefix:     k.Prefix,
		CreatedAt:  k.CreatedAt,
		LastUsedAt: k.LastUsedAt,
	}
}
