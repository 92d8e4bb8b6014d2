package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/datashelf/datashelf/pkg/api"
	"github.com/datashelf/datashelf/pkg/contract"
	"github.com/datashelf/datashelf/pkg/store/sql/model"
	"github.com/datashelf/datashelf/pkg/utils"
)

func (s Store) CreateAPIKey(ctx context.Context, name, keyHash, prefix string) (*api.APIKey, *contract.Error) {
	key := model.APIKey{
		ID:      uuid.NewString(),
		Name:    name,
		KeyHash: keyHash,
		Prefix:  prefix,
	}

	if err := s.db.WithContext(ctx).Create(&key).Error; err != nil {
		return nil, storageError("failed to create API key", err)
	}

	return utils.PtrTo(key.ToAPI()), nil
}

func (s Store) ListAPIKeys(ctx context.Context) ([]api.APIKey, *contract.Error) {
	var rows []model.APIKey
	if err := s.db.WithContext(ctx).Order("created_at DESC, id").Find(&rows).Error; err != nil {
		return nil, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			"failed to list API keys",
			err,
		)
	}

	keys := make([]api.APIKey, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, row.ToAPI())
	}

	return keys, nil
}

func (s Store) DeleteAPIKey(ctx context.Context, id string) *contract.Error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.APIKey{})
	if result.Error != nil {
		return storageError("failed to delete API key", result.Error)
	}

	if result.RowsAffected == 0 {
		return contract.NewError(
			contract.ErrorCodeResourceDoesNotExist,
			fmt.Sprintf("No API key with id=%q exists", id),
		)
	}

	return nil
}

func (s Store) AuthenticateAPIKey(ctx context.Context, keyHash string) (*api.APIKey, *contract.Error) {
	var key model.APIKey
	if err := s.db.WithContext(ctx).First(&key, "key_hash = ?", keyHash).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contract.NewError(contract.ErrorCodeUnauthenticated, "Invalid API key")
		}

		return nil, storageError("failed to look up API key", err)
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&key).UpdateColumn("last_used_at", now).Error; err != nil {
		return nil, storageError("failed to record API key use", err)
	}

	key.LastUsedAt = &now

	return utils.PtrTo(key.ToAPI()), nil
}
