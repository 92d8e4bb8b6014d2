package sql

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/datashelf/datashelf/pkg/api"
	"github.com/datashelf/datashelf/pkg/contract"
	"github.com/datashelf/datashelf/pkg/store"
	"github.com/datashelf/datashelf/pkg/store/sql/model"
)

// similarityThreshold is the trigram cutoff for fuzzy matching. It equals
// the pg_trgm default so fuzzy recall does not drift when the extension
// setting changes.
const similarityThreshold = 0.3

// scoredDataset is the page-query projection: a full row plus the rank
// the select attached to it.
type scoredDataset struct {
	model.Dataset  `gorm:"embedded"`
	RelevanceScore *float64 `gorm:"column:relevance_score"`
}

func (d scoredDataset) toAPI() api.DatasetSearchResult {
	return api.DatasetSearchResult{
		Dataset:        d.Dataset.ToAPI(),
		RelevanceScore: d.RelevanceScore,
	}
}

// searchQuery scopes a query to the datasets matching params. The text
// predicate always comes first, then the exact filters, then the tag
// overlap, so the count and page queries share one predicate order.
func (s Store) searchQuery(ctx context.Context, params store.SearchParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&model.Dataset{})

	isSqlite := s.db.Dialector.Name() == "sqlite"

	switch {
	case isSqlite:
		query = applySqliteTextMatch(query, params.Query)
	case params.Fuzzy:
		query = query.Where(
			"(search_vector @@ plainto_tsquery('english', ?) OR similarity(name, ?) > ?)",
			params.Query, params.Query, similarityThreshold,
		)
	default:
		query = query.Where("search_vector @@ plainto_tsquery('english', ?)", params.Query)
	}

	if params.SourceType != "" {
		query = query.Where("source_type = ?", params.SourceType)
	}

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	if params.Owner != "" {
		query = query.Where("owner = ?", params.Owner)
	}

	if len(params.Tags) > 0 {
		query = applyTagsOverlap(query, isSqlite, params.Tags)
	}

	return query
}

// applySqliteTextMatch is the dev-backend fallback: per-term LIKE over the
// four indexed fields, AND across terms, no stemming and no ranking.
func applySqliteTextMatch(query *gorm.DB, text string) *gorm.DB {
	for _, term := range strings.Fields(text) {
		pattern := "%" + escapeLike(term) + "%"
		query = query.Where(
			`(name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\' OR owner LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern,
		)
	}

	return query
}

func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// applyTagsOverlap keeps rows whose tag set intersects tags.
// jsonb_exists_any is the function form of the ?| operator, which cannot
// appear in a gorm condition because of the placeholder syntax.
func applyTagsOverlap(query *gorm.DB, isSqlite bool, tags []string) *gorm.DB {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tags)), ",")

	args := make([]interface{}, 0, len(tags))
	for _, tag := range tags {
		args = append(args, tag)
	}

	if isSqlite {
		return query.Where(
			fmt.Sprintf(
				"EXISTS (SELECT 1 FROM json_each(datasets.tags) WHERE json_each.value IN (%s))",
				placeholders,
			),
			args...,
		)
	}

	return query.Where(
		fmt.Sprintf("jsonb_exists_any(tags, ARRAY[%s])", placeholders),
		args...,
	)
}

// searchPageQuery extends the predicate set with the rank select, the
// deterministic ordering and the page window. Rank arguments precede the
// predicate arguments; LIMIT and OFFSET are bound last.
func (s Store) searchPageQuery(ctx context.Context, params store.SearchParams) *gorm.DB {
	query := s.searchQuery(ctx, params)

	switch {
	case s.db.Dialector.Name() == "sqlite":
		query = query.
			Select("datasets.*, NULL AS relevance_score").
			Order("created_at DESC, id")
	case params.Fuzzy:
		query = query.
			Select(
				"datasets.*, GREATEST(similarity(name, ?), "+
					"ts_rank(search_vector, plainto_tsquery('english', ?))) AS relevance_score",
				params.Query, params.Query,
			).
			Order("relevance_score DESC, created_at DESC, id")
	default:
		query = query.
			Select(
				"datasets.*, ts_rank(search_vector, plainto_tsquery('english', ?)) AS relevance_score",
				params.Query,
			).
			Order("relevance_score DESC, created_at DESC, id")
	}

	return query.Limit(params.Limit).Offset(params.Offset)
}

func (s Store) SearchCount(ctx context.Context, params store.SearchParams) (int64, *contract.Error) {
	var total int64
	if err := s.searchQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			"failed to count matching datasets",
			err,
		)
	}

	return total, nil
}

func (s Store) SearchPage(ctx context.Context, params store.SearchParams) ([]api.DatasetSearchResult, *contract.Error) {
	var rows []scoredDataset
	if err := s.searchPageQuery(ctx, params).Find(&rows).Error; err != nil {
		return nil, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			"failed to query matching datasets",
			err,
		)
	}

	results := make([]api.DatasetSearchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toAPI())
	}

	return results, nil
}
