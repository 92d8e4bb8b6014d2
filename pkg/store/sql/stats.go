package sql

import (
	"context"

	"github.com/datashelf/datashelf/pkg/api"
	"github.com/datashelf/datashelf/pkg/contract"
	"github.com/datashelf/datashelf/pkg/store/sql/model"
)

type statsBucket struct {
	Bucket string
	Count  int64
}

// groupCounts aggregates row counts per distinct value of column. The
// column name only ever comes from the fixed set below.
func (s Store) groupCounts(ctx context.Context, column string) (map[string]int64, *contract.Error) {
	var buckets []statsBucket
	if err := s.db.WithContext(ctx).
		Model(&model.Dataset{}).
		Select(column + " AS bucket, COUNT(*) AS count").
		Group(column).
		Scan(&buckets).Error; err != nil {
		return nil, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			"failed to aggregate datasets by "+column,
			err,
		)
	}

	counts := make(map[string]int64, len(buckets))
	for _, bucket := range buckets {
		counts[bucket.Bucket] = bucket.Count
	}

	return counts, nil
}

func (s Store) GetStats(ctx context.Context) (*api.StatsResponse, *contract.Error) {
	var totals struct {
		TotalDatasets  int64
		TotalItems     int64
		TotalSizeBytes int64
	}

	if err := s.db.WithContext(ctx).
		Model(&model.Dataset{}).
		Select(
			"COUNT(*) AS total_datasets, "+
				"COALESCE(SUM(item_count), 0) AS total_items, "+
				"COALESCE(SUM(total_size_bytes), 0) AS total_size_bytes",
		).
		Scan(&totals).Error; err != nil {
		return nil, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			"failed to aggregate dataset totals",
			err,
		)
	}

	bySourceType, contractError := s.groupCounts(ctx, "source_type")
	if contractError != nil {
		return nil, contractError
	}

	byStatus, contractError := s.groupCounts(ctx, "status")
	if contractError != nil {
		return nil, contractError
	}

	byStorageBackend, contractError := s.groupCounts(ctx, "storage_backend")
	if contractError != nil {
		return nil, contractError
	}

	return &api.StatsResponse{
		TotalDatasets:    totals.TotalDatasets,
		TotalItems:       totals.TotalItems,
		TotalSizeBytes:   totals.TotalSizeBytes,
		BySourceType:     bySourceType,
		ByStatus:         byStatus,
		ByStorageBackend: byStorageBackend,
	}, nil
}
