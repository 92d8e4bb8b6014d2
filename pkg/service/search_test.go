package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datashelf/datashelf/pkg/api"
	"github.com/datashelf/datashelf/pkg/contract"
	"github.com/datashelf/datashelf/pkg/store"
)

type FakeCatalogStore struct {
	total      int64
	page       []api.DatasetSearchResult
	countErr   *contract.Error
	pageErr    *contract.Error
	countCalls int
	pageCalls  int
	lastParams store.SearchParams

	batchInserted int64
	batchErr      *contract.Error
	listPage      *store.PagedList[api.Dataset]
}

func (f *FakeCatalogStore) SearchCount(_ context.Context, params store.SearchParams) (int64, *contract.Error) {
	f.countCalls++
	f.lastParams = params

	if f.countErr != nil {
		return 0, f.countErr
	}

	return f.total, nil
}

func (f *FakeCatalogStore) SearchPage(
	_ context.Context, params store.SearchParams,
) ([]api.DatasetSearchResult, *contract.Error) {
	f.pageCalls++
	f.lastParams = params

	if f.pageErr != nil {
		return nil, f.pageErr
	}

	return f.page, nil
}

func (f *FakeCatalogStore) CreateDataset(_ context.Context, _ *api.CreateDatasetRequest) (*api.Dataset, *contract.Error) {
	return nil, nil
}

func (f *FakeCatalogStore) BatchCreateDatasets(_ context.Context, _ []api.CreateDatasetRequest) (int64, *contract.Error) {
	if f.batchErr != nil {
		return 0, f.batchErr
	}

	return f.batchInserted, nil
}

func (f *FakeCatalogStore) GetDataset(_ context.Context, _ string) (*api.Dataset, *contract.Error) {
	return nil, nil
}

func (f *FakeCatalogStore) UpdateDataset(
	_ context.Context, _ string, _ *api.UpdateDatasetRequest,
) (*api.Dataset, *contract.Error) {
	return nil, nil
}

func (f *FakeCatalogStore) DeleteDataset(_ context.Context, _ string) *contract.Error {
	return nil
}

func (f *FakeCatalogStore) ListDatasets(
	_ context.Context, _ store.ListParams,
) (*store.PagedList[api.Dataset], *contract.Error) {
	return f.listPage, nil
}

func (f *FakeCatalogStore) GetStats(_ context.Context) (*api.StatsResponse, *contract.Error) {
	return nil, nil
}

func newSearchService(catalog store.CatalogStore) (*SearchService, *logrustest.Hook) {
	logger, hook := logrustest.NewNullLogger()

	return NewSearchService(logger, catalog), hook
}

func TestSearchRequiresQuery(t *testing.T) {
	catalog := &FakeCatalogStore{}
	searchService, _ := newSearchService(catalog)

	response, contractError := searchService.Search(context.Background(), store.SearchParams{})

	require.NotNil(t, contractError)
	assert.Nil(t, response)
	assert.Equal(t, contract.ErrorCodeInvalidParameterValue, contractError.Code)
	assert.Equal(t, `Query parameter "q" is required`, contractError.Message)
	assert.Zero(t, catalog.countCalls)
}

func TestSearchShortCircuitsOnZeroTotal(t *testing.T) {
	catalog := &FakeCatalogStore{total: 0}
	searchService, _ := newSearchService(catalog)

	response, contractError := searchService.Search(context.Background(), store.SearchParams{Query: "nothing here"})

	require.Nil(t, contractError)
	assert.Equal(t, int64(0), response.Total)
	assert.Equal(t, "nothing here", response.Query)
	require.NotNil(t, response.Items)
	assert.Empty(t, response.Items)
	assert.Equal(t, 1, catalog.countCalls)
	assert.Zero(t, catalog.pageCalls)
}

func TestSearchReturnsRankedPage(t *testing.T) {
	score := 0.42
	catalog := &FakeCatalogStore{
		total: 7,
		page: []api.DatasetSearchResult{
			{Dataset: api.Dataset{ID: "ds-1", Name: "climate observations"}, RelevanceScore: &score},
		},
	}
	searchService, _ := newSearchService(catalog)

	params := store.SearchParams{Query: "climate", Fuzzy: true, Limit: 20, Offset: 20}
	response, contractError := searchService.Search(context.Background(), params)

	require.Nil(t, contractError)
	assert.Equal(t, int64(7), response.Total)
	assert.Equal(t, "climate", response.Query)
	require.Len(t, response.Items, 1)
	assert.Equal(t, "ds-1", response.Items[0].ID)
	require.NotNil(t, response.Items[0].RelevanceScore)
	assert.InDelta(t, 0.42, *response.Items[0].RelevanceScore, 0.0001)
	assert.Equal(t, 1, catalog.pageCalls)
	assert.Equal(t, params, catalog.lastParams)
}

func TestSearchFailureHidesStorageDetail(t *testing.T) {
	cause := errors.New(`pq: connection refused on "SELECT count(*)"`)
	catalog := &FakeCatalogStore{
		countErr: contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to count matching datasets", cause),
	}
	searchService, hook := newSearchService(catalog)

	response, contractError := searchService.Search(context.Background(), store.SearchParams{Query: "climate"})

	require.NotNil(t, contractError)
	assert.Nil(t, response)
	assert.Equal(t, contract.ErrorCodeInternalError, contractError.Code)
	assert.Equal(t, "Search failed: internal storage error", contractError.Message)
	assert.NotContains(t, contractError.Message, "SELECT")

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "dataset search failed", entry.Message)
	assert.Equal(t, "climate", entry.Data["query"])
}

func TestSearchFailureOnPage(t *testing.T) {
	catalog := &FakeCatalogStore{
		total:   3,
		pageErr: contract.NewError(contract.ErrorCodeInternalError, "failed to query matching datasets"),
	}
	searchService, hook := newSearchService(catalog)

	response, contractError := searchService.Search(context.Background(), store.SearchParams{Query: "climate"})

	require.NotNil(t, contractError)
	assert.Nil(t, response)
	assert.Equal(t, "Search failed: internal storage error", contractError.Message)
	assert.Len(t, hook.Entries, 1)
}
