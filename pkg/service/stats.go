package service

import (
	"context"

	"github.com/datashelf/datashelf/pkg/api"
	"github.com/datashelf/datashelf/pkg/contract"
	"github.com/datashelf/datashelf/pkg/store"
)

type StatsService struct {
	store store.CatalogStore
}

func NewStatsService(catalog store.CatalogStore) *StatsService {
	return &StatsService{store: catalog}
}

func (s StatsService) GetStats(ctx context.Context) (*api.StatsResponse, *contract.Error) {
	return s.store.GetStats(ctx)
}
