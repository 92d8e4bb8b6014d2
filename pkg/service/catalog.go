package service

import (
	"context"

	"github.com/datashelf/datashelf/pkg/api"
	"github.com/datashelf/datashelf/pkg/contract"
	"github.com/datashelf/datashelf/pkg/store"
)

// CatalogService covers registration, lookup, partial update, deletion
// and listing of dataset records.
type CatalogService struct {
	store store.CatalogStore
}

func NewCatalogService(catalog store.CatalogStore) *CatalogService {
	return &CatalogService{store: catalog}
}

func (c CatalogService) CreateDataset(
	ctx context.Context, input *api.CreateDatasetRequest,
) (*api.Dataset, *contract.Error) {
	return c.store.CreateDataset(ctx, input)
}

// BatchRegister inserts every dataset in the request, skipping ids that
// already exist instead of failing the whole payload.
func (c CatalogService) BatchRegister(
	ctx context.Context, input *api.BatchRegisterRequest,
) (*api.BatchRegisterResponse, *contract.Error) {
	inserted, contractError := c.store.BatchCreateDatasets(ctx, input.Datasets)
	if contractError != nil {
		return nil, contractError
	}

	total := len(input.Datasets)
	registered := int(inserted)

	return &api.BatchRegisterResponse{
		Registered: registered,
		Skipped:    total - registered,
		Total:      total,
	}, nil
}

func (c CatalogService) GetDataset(ctx context.Context, id string) (*api.Dataset, *contract.Error) {
	return c.store.GetDataset(ctx, id)
}

func (c CatalogService) UpdateDataset(
	ctx context.Context, id string, input *api.UpdateDatasetRequest,
) (*api.Dataset, *contract.Error) {
	return c.store.UpdateDataset(ctx, id, input)
}

func (c CatalogService) DeleteDataset(ctx context.Context, id string) *contract.Error {
	return c.store.DeleteDataset(ctx, id)
}

func (c CatalogService) ListDatasets(
	ctx context.Context, params store.ListParams,
) (*api.ListDatasetsResponse, *contract.Error) {
	page, contractError := c.store.ListDatasets(ctx, params)
	if contractError != nil {
		return nil, contractError
	}

	return &api.ListDatasetsResponse{
		Items:  page.Items,
		Total:  page.Total,
		Limit:  params.Limit,
		Offset: params.Offset,
	}, nil
}
