package store

import (
	"context"

	"github.com/datashelf/datashelf/pkg/api"
	"github.com/datashelf/datashelf/pkg/contract"
)

// SearchParams is a normalized search request: Query is the raw q input,
// SourceType/Status/Owner are exact-match filters, Tags is a set-overlap
// filter. Limit is already clamped and Offset already floored by the
// HTTP layer.
type SearchParams struct {
	Query      string
	SourceType string
	Status     string
	Owner      string
	Tags       []string
	Fuzzy      bool
	Limit      int
	Offset     int
}

// ListParams filters a plain catalog listing, newest first.
type ListParams struct {
	SourceType string
	Status     string
	Owner      string
	Limit      int
	Offset     int
}

// PagedList couples one page of items with the unpaginated total.
type PagedList[T any] struct {
	Items []T
	Total int64
}

type CatalogStore interface {
	// SearchCount returns how many datasets match params. Limit and
	// Offset are ignored.
	SearchCount(ctx context.Context, params SearchParams) (int64, *contract.Error)

	// SearchPage returns one ranked page of matches for params, ordered
	// by relevance, then recency, then id.
	SearchPage(ctx context.Context, params SearchParams) ([]api.DatasetSearchResult, *contract.Error)

	CreateDataset(ctx context.Context, input *api.CreateDatasetRequest) (*api.Dataset, *contract.Error)

	// BatchCreateDatasets inserts the inputs in chunks, skipping ids that
	// already exist, and returns how many rows were actually inserted.
	BatchCreateDatasets(ctx context.Context, inputs []api.CreateDatasetRequest) (int64, *contract.Error)

	GetDataset(ctx context.Context, id string) (*api.Dataset, *contract.Error)

	UpdateDataset(ctx context.Context, id string, input *api.UpdateDatasetRequest) (*api.Dataset, *contract.Error)

	DeleteDataset(ctx context.Context, id string) *contract.Error

	ListDatasets(ctx context.Context, params ListParams) (*PagedList[api.Dataset], *contract.Error)

	GetStats(ctx context.Context) (*api.StatsResponse, *contract.Error)
}

type APIKeyStore interface {
	CreateAPIKey(ctx context.Context, name, keyHash, prefix string) (*api.APIKey, *contract.Error)

	ListAPIKeys(ctx context.Context) ([]api.APIKey, *contract.Error)

	DeleteAPIKey(ctx context.Context, id string) *contract.Error

	// AuthenticateAPIKey returns the key whose stored hash matches
	// keyHash and records the use in last_used_at.
	AuthenticateAPIKey(ctx context.Context, keyHash string) (*api.APIKey, *contract.Error)
}

// Store is everything the server needs from the persistence layer.
type Store interface {
	CatalogStore
	APIKeyStore
	Close() error
}
