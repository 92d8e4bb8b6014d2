package server

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/datashelf/datashelf/pkg/store"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// parseSearchParams reads the search query string leniently: malformed
// limit and offset values fall back to their defaults instead of
// erroring, the limit is capped and the offset floored at zero.
func parseSearchParams(ctx *fiber.Ctx) store.SearchParams {
	return store.SearchParams{
		Query:      ctx.Query("q"),
		SourceType: ctx.Query("source_type"),
		Status:     ctx.Query("status"),
		Owner:      ctx.Query("owner"),
		Tags:       splitTags(ctx.Query("tags")),
		Fuzzy:      ctx.Query("fuzzy") == "true",
		Limit:      parseLimit(ctx.Query("limit")),
		Offset:     parseOffset(ctx.Query("offset")),
	}
}

func parseListParams(ctx *fiber.Ctx) store.ListParams {
	return store.ListParams{
		SourceType: ctx.Query("source_type"),
		Status:     ctx.Query("status"),
		Owner:      ctx.Query("owner"),
		Limit:      parseLimit(ctx.Query("limit")),
		Offset:     parseOffset(ctx.Query("offset")),
	}
}

func parseLimit(raw string) int {
	limit := defaultPageLimit

	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return limit
}

func parseOffset(raw string) int {
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}

	return 0
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")

	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}

	if len(tags) == 0 {
		return nil
	}

	return tags
}
