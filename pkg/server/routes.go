package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/datashelf/datashelf/pkg/api"
	"github.com/datashelf/datashelf/pkg/contract"
	"github.com/datashelf/datashelf/pkg/service"
)

// registerCatalogRoutes binds the dataset endpoints. The search route is
// registered before the :id routes so "search" is never captured as an id.
func registerCatalogRoutes(
	catalog *service.CatalogService, search *service.SearchService, parser contract.HTTPRequestParser, app *fiber.App,
) {
	app.Get("/datasets/search", func(ctx *fiber.Ctx) error {
		output, err := search.Search(ctx.UserContext(), parseSearchParams(ctx))
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})

	app.Post("/datasets", func(ctx *fiber.Ctx) error {
		input := &api.CreateDatasetRequest{}
		if err := parser.ParseBody(ctx, input); err != nil {
			return err
		}

		output, err := catalog.CreateDataset(ctx.UserContext(), input)
		if err != nil {
			return err
		}

		return ctx.Status(fiber.StatusCreated).JSON(output)
	})

	app.Post("/datasets/batch", func(ctx *fiber.Ctx) error {
		input := &api.BatchRegisterRequest{}
		if err := parser.ParseBody(ctx, input); err != nil {
			return err
		}

		output, err := catalog.BatchRegister(ctx.UserContext(), input)
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})

	app.Get("/datasets", func(ctx *fiber.Ctx) error {
		output, err := catalog.ListDatasets(ctx.UserContext(), parseListParams(ctx))
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})

	app.Get("/datasets/:id", func(ctx *fiber.Ctx) error {
		output, err := catalog.GetDataset(ctx.UserContext(), ctx.Params("id"))
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})

	app.Patch("/datasets/:id", func(ctx *fiber.Ctx) error {
		input := &api.UpdateDatasetRequest{}
		if err := parser.ParseBody(ctx, input); err != nil {
			return err
		}

		output, err := catalog.UpdateDataset(ctx.UserContext(), ctx.Params("id"), input)
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})

	app.Delete("/datasets/:id", func(ctx *fiber.Ctx) error {
		if err := catalog.DeleteDataset(ctx.UserContext(), ctx.Params("id")); err != nil {
			return err
		}

		return ctx.SendStatus(fiber.StatusNoContent)
	})
}

func registerStatsRoutes(stats *service.StatsService, app *fiber.App) {
	app.Get("/stats", func(ctx *fiber.Ctx) error {
		output, err := stats.GetStats(ctx.UserContext())
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})
}

func registerAPIKeyRoutes(keys *service.APIKeyService, parser contract.HTTPRequestParser, app *fiber.App) {
	app.Post("/api-keys", func(ctx *fiber.Ctx) error {
		input := &api.CreateAPIKeyRequest{}
		if err := parser.ParseBody(ctx, input); err != nil {
			return err
		}

		output, err := keys.CreateAPIKey(ctx.UserContext(), input)
		if err != nil {
			return err
		}

		return ctx.Status(fiber.StatusCreated).JSON(output)
	})

	app.Get("/api-keys", func(ctx *fiber.Ctx) error {
		output, err := keys.ListAPIKeys(ctx.UserContext())
		if err != nil {
			return err
		}

		return ctx.JSON(output)
	})

	app.Delete("/api-keys/:id", func(ctx *fiber.Ctx) error {
		if err := keys.DeleteAPIKey(ctx.UserContext(), ctx.Params("id")); err != nil {
			return err
		}

		return ctx.SendStatus(fiber.StatusNoContent)
	})
}
