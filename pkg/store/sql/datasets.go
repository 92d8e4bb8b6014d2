package sql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/datashelf/datashelf/pkg/api"
	"github.com/datashelf/datashelf/pkg/contract"
	"github.com/datashelf/datashelf/pkg/store"
	"github.com/datashelf/datashelf/pkg/store/sql/model"
	"github.com/datashelf/datashelf/pkg/utils"
)

const batchSize = 100

func (s Store) CreateDataset(ctx context.Context, input *api.CreateDatasetRequest) (*api.Dataset, *contract.Error) {
	dataset := model.NewDatasetFromCreate(input)

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&dataset)
	if result.Error != nil {
		return nil, storageError("failed to register dataset", result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, contract.NewError(
			contract.ErrorCodeResourceAlreadyExists,
			fmt.Sprintf("Dataset with id=%q already exists", dataset.ID),
		)
	}

	return utils.PtrTo(dataset.ToAPI()), nil
}

func (s Store) BatchCreateDatasets(ctx context.Context, inputs []api.CreateDatasetRequest) (int64, *contract.Error) {
	datasets := make([]model.Dataset, 0, len(inputs))
	for i := range inputs {
		datasets = append(datasets, model.NewDatasetFromCreate(&inputs[i]))
	}

	// Rows whose id already exists are skipped, everything else lands in
	// one transaction.
	var inserted int64

	if err := s.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		result := transaction.
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
			CreateInBatches(datasets, batchSize)
		if result.Error != nil {
			return fmt.Errorf("failed to insert datasets in batch: %w", result.Error)
		}

		inserted = result.RowsAffected

		return nil
	}); err != nil {
		return 0, storageError("failed to register datasets", err)
	}

	return inserted, nil
}

func (s Store) GetDataset(ctx context.Context, id string) (*api.Dataset, *contract.Error) {
	var dataset model.Dataset
	if err := s.db.WithContext(ctx).First(&dataset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contract.NewError(
				contract.ErrorCodeResourceDoesNotExist,
				fmt.Sprintf("No dataset with id=%q exists", id),
			)
		}

		return nil, storageError("failed to get dataset", err)
	}

	return utils.PtrTo(dataset.ToAPI()), nil
}

func (s Store) UpdateDataset(
	ctx context.Context, id string, input *api.UpdateDatasetRequest,
) (*api.Dataset, *contract.Error) {
	columns := updateColumns(input)
	if len(columns) == 0 {
		return nil, contract.NewError(
			contract.ErrorCodeInvalidParameterValue,
			"No updatable fields provided",
		)
	}

	var dataset model.Dataset

	if err := s.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		result := transaction.Model(&model.Dataset{}).Where("id = ?", id).Updates(columns)
		if result.Error != nil {
			return fmt.Errorf("failed to update dataset %q: %w", id, result.Error)
		}

		if result.RowsAffected != 1 {
			return gorm.ErrRecordNotFound
		}

		if err := transaction.First(&dataset, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to reload dataset %q: %w", id, err)
		}

		return nil
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contract.NewError(
				contract.ErrorCodeResourceDoesNotExist,
				fmt.Sprintf("No dataset with id=%q exists", id),
			)
		}

		return nil, storageError("failed to update dataset", err)
	}

	return utils.PtrTo(dataset.ToAPI()), nil
}

// updateColumns maps the set fields of a partial update onto their
// columns. updated_at is left out on purpose, the update callback
// touches it on every write.
func updateColumns(input *api.UpdateDatasetRequest) map[string]interface{} {
	columns := make(map[string]interface{})

	if input.Name != nil {
		columns["name"] = *input.Name
	}

	if input.Version != nil {
		columns["version"] = *input.Version
	}

	if input.Description != nil {
		columns["description"] = *input.Description
	}

	if input.Owner != nil {
		columns["owner"] = *input.Owner
	}

	if input.Tags != nil {
		columns["tags"] = model.Tags(*input.Tags)
	}

	if input.Status != nil {
		columns["status"] = *input.Status
	}

	if input.CollectedAt != nil {
		columns["collected_at"] = *input.CollectedAt
	}

	if input.CollectedBy != nil {
		columns["collected_by"] = *input.CollectedBy
	}

	if input.CollectionParams != nil {
		columns["collection_params"] = model.JSONMap(*input.CollectionParams)
	}

	if input.StorageBackend != nil {
		columns["storage_backend"] = *input.StorageBackend
	}

	if input.StoragePath != nil {
		columns["storage_path"] = *input.StoragePath
	}

	if input.Host != nil {
		columns["host"] = *input.Host
	}

	if input.ItemCount != nil {
		columns["item_count"] = *input.ItemCount
	}

	if input.TotalSizeBytes != nil {
		columns["total_size_bytes"] = *input.TotalSizeBytes
	}

	if input.Checksum != nil {
		columns["checksum"] = *input.Checksum
	}

	if input.SchemaVersion != nil {
		columns["schema_version"] = *input.SchemaVersion
	}

	return columns
}

func (s Store) DeleteDataset(ctx context.Context, id string) *contract.Error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Dataset{})
	if result.Error != nil {
		return storageError("failed to delete dataset", result.Error)
	}

	if result.RowsAffected == 0 {
		return contract.NewError(
			contract.ErrorCodeResourceDoesNotExist,
			fmt.Sprintf("No dataset with id=%q exists", id),
		)
	}

	return nil
}

func (s Store) listQuery(ctx context.Context, params store.ListParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&model.Dataset{})

	if params.SourceType != "" {
		query = query.Where("source_type = ?", params.SourceType)
	}

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	if params.Owner != "" {
		query = query.Where("owner = ?", params.Owner)
	}

	return query
}

func (s Store) ListDatasets(
	ctx context.Context, params store.ListParams,
) (*store.PagedList[api.Dataset], *contract.Error) {
	var total int64
	if err := s.listQuery(ctx, params).Count(&total).Error; err != nil {
		return nil, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			"failed to count datasets",
			err,
		)
	}

	var rows []model.Dataset
	if err := s.listQuery(ctx, params).
		Order("created_at DESC, id").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error; err != nil {
		return nil, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			"failed to list datasets",
			err,
		)
	}

	items := make([]api.Dataset, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.ToAPI())
	}

	return &store.PagedList[api.Dataset]{Items: items, Total: total}, nil
}
