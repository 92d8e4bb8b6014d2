package sql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/datashelf/datashelf/pkg/config"
	"github.com/datashelf/datashelf/pkg/store"
)

// newDryRunStore builds statements without a live server: the pgx pool
// opens lazily and the automatic ping is off, so nothing ever connects.
func newDryRunStore(t *testing.T) Store {
	t.Helper()

	db, err := gorm.Open(
		postgres.Open("host=localhost user=datashelf dbname=datashelf"),
		&gorm.Config{
			DryRun:               true,
			DisableAutomaticPing: true,
			Logger:               logger.Discard,
		},
	)
	require.NoError(t, err)

	return Store{config: config.Default(), db: db}
}

func countSQL(t *testing.T, s Store, params store.SearchParams) (string, []interface{}) {
	t.Helper()

	var total int64
	tx := s.searchQuery(context.Background(), params).Count(&total)
	require.NoError(t, tx.Error)

	return tx.Statement.SQL.String(), tx.Statement.Vars
}

func pageSQL(t *testing.T, s Store, params store.SearchParams) (string, []interface{}) {
	t.Helper()

	var rows []scoredDataset
	tx := s.searchPageQuery(context.Background(), params).Find(&rows)
	require.NoError(t, tx.Error)

	return tx.Statement.SQL.String(), tx.Statement.Vars
}

func TestSearchCountUsesFullTextPredicate(t *testing.T) {
	s := newDryRunStore(t)

	sql, vars := countSQL(t, s, store.SearchParams{Query: "climate data"})

	assert.Contains(t, sql, `SELECT count(*) FROM "datasets"`)
	assert.Contains(t, sql, "search_vector @@ plainto_tsquery('english', $1)")
	assert.NotContains(t, sql, "similarity")
	assert.Equal(t, []interface{}{"climate data"}, vars)
}

func TestSearchCountFuzzyAddsTrigramBranch(t *testing.T) {
	s := newDryRunStore(t)

	sql, vars := countSQL(t, s, store.SearchParams{Query: "climte", Fuzzy: true})

	assert.Contains(
		t, sql,
		"(search_vector @@ plainto_tsquery('english', $1) OR similarity(name, $2) > $3)",
	)
	assert.Equal(t, []interface{}{"climte", "climte", 0.3}, vars)
}

func TestSearchCountAppendsFiltersInOrder(t *testing.T) {
	s := newDryRunStore(t)

	sql, vars := countSQL(t, s, store.SearchParams{
		Query:      "climate",
		SourceType: "web_scrape",
		Status:     "active",
		Owner:      "ml-team",
		Tags:       []string{"nlp", "raw"},
	})

	assert.Contains(t, sql, "search_vector @@ plainto_tsquery('english', $1)")
	assert.Contains(t, sql, "source_type = $2")
	assert.Contains(t, sql, "status = $3")
	assert.Contains(t, sql, "owner = $4")
	assert.Contains(t, sql, "jsonb_exists_any(tags, ARRAY[$5,$6])")
	assert.Equal(t, []interface{}{"climate", "web_scrape", "active", "ml-team", "nlp", "raw"}, vars)
}

func TestSearchPageRanksAndPaginates(t *testing.T) {
	s := newDryRunStore(t)

	sql, vars := pageSQL(t, s, store.SearchParams{Query: "climate", Limit: 20, Offset: 40})

	assert.Contains(
		t, sql,
		"ts_rank(search_vector, plainto_tsquery('english', $1)) AS relevance_score",
	)
	assert.Contains(t, sql, "search_vector @@ plainto_tsquery('english', $2)")
	assert.Contains(t, sql, "ORDER BY relevance_score DESC, created_at DESC, id")
	assert.Contains(t, sql, "LIMIT $3 OFFSET $4")
	assert.Equal(t, []interface{}{"climate", "climate", 20, 40}, vars)
}

func TestSearchPageFuzzyScoresWithGreatest(t *testing.T) {
	s := newDryRunStore(t)

	sql, vars := pageSQL(t, s, store.SearchParams{Query: "climte", Fuzzy: true, Limit: 20})

	assert.Contains(
		t, sql,
		"GREATEST(similarity(name, $1), ts_rank(search_vector, plainto_tsquery('english', $2))) AS relevance_score",
	)
	assert.Contains(t, sql, "ORDER BY relevance_score DESC, created_at DESC, id")
	assert.Equal(t, []interface{}{"climte", "climte", "climte", "climte", 0.3, 20}, vars)
}

func TestSearchPageOmitsZeroOffset(t *testing.T) {
	s := newDryRunStore(t)

	sql, _ := pageSQL(t, s, store.SearchParams{Query: "climate", Limit: 20})

	assert.Contains(t, sql, "LIMIT $3")
	assert.NotContains(t, sql, "OFFSET")
}

func TestEscapeLike(t *testing.T) {
	scenarios := []struct {
		name     string
		term     string
		expected string
	}{
		{name: "plain term", term: "climate", expected: "climate"},
		{name: "percent", term: "top50%", expected: `top50\%`},
		{name: "underscore", term: "snake_case", expected: `snake\_case`},
		{name: "backslash", term: `C:\data`, expected: `C:\\data`},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			assert.Equal(t, scenario.expected, escapeLike(scenario.term))
		})
	}
}
