package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/datashelf/datashelf/pkg/api"
	"github.com/datashelf/datashelf/pkg/contract"
	"github.com/datashelf/datashelf/pkg/pgerror"
	"github.com/datashelf/datashelf/pkg/store"
)

// SearchService runs the two-step search flow against an injected store.
// It holds no state of its own, so any number of searches can run
// concurrently against the same instance.
type SearchService struct {
	logger *logrus.Logger
	store  store.CatalogStore
}

func NewSearchService(logger *logrus.Logger, catalog store.CatalogStore) *SearchService {
	return &SearchService{logger: logger, store: catalog}
}

// Search counts the matching datasets, short-circuits on zero and
// otherwise fetches one ranked page. The response echoes the original
// query string unmodified.
func (s SearchService) Search(ctx context.Context, params store.SearchParams) (*api.SearchResponse, *contract.Error) {
	if params.Query == "" {
		return nil, contract.NewError(
			contract.ErrorCodeInvalidParameterValue,
			`Query parameter "q" is required`,
		)
	}

	total, contractError := s.store.SearchCount(ctx, params)
	if contractError != nil {
		return nil, s.searchFailure(params.Query, contractError)
	}

	items := make([]api.DatasetSearchResult, 0)

	if total > 0 {
		items, contractError = s.store.SearchPage(ctx, params)
		if contractError != nil {
			return nil, s.searchFailure(params.Query, contractError)
		}
	}

	return &api.SearchResponse{
		Items: items,
		Total: total,
		Query: params.Query,
	}, nil
}

// searchFailure logs the full failure for operators and returns the
// client-facing error, which carries only the classified summary.
func (s SearchService) searchFailure(query string, contractError *contract.Error) *contract.Error {
	s.logger.WithError(contractError).WithField("query", query).Error("dataset search failed")

	cause := contractError.Unwrap()
	if cause == nil {
		cause = contractError
	}

	return contract.NewErrorWith(
		contract.ErrorCodeInternalError,
		"Search failed: "+pgerror.Classify(cause).UserMessage(),
		cause,
	)
}
