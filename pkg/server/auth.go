package server

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/datashelf/datashelf/pkg/contract"
	"github.com/datashelf/datashelf/pkg/service"
	"github.com/datashelf/datashelf/pkg/store"
)

// newAPIKeyAuth guards the API routes. A request authenticates with the
// configured static token or with any issued key, presented as X-API-Key
// or as a bearer token.
func newAPIKeyAuth(token string, keys store.APIKeyStore) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		presented := presentedKey(ctx)
		if presented == "" {
			return contract.NewError(contract.ErrorCodeUnauthenticated, "Missing API key")
		}

		if token != "" && subtle.ConstantTimeCompare([]byte(presented), []byte(token)) == 1 {
			return ctx.Next()
		}

		_, contractError := keys.AuthenticateAPIKey(ctx.UserContext(), service.HashKey(presented))
		if contractError == nil {
			return ctx.Next()
		}

		if contractError.Code != contract.ErrorCodeUnauthenticated {
			return contractError
		}

		return contract.NewError(contract.ErrorCodeUnauthenticated, "Invalid API key")
	}
}

func presentedKey(ctx *fiber.Ctx) string {
	if key := ctx.Get("X-API-Key"); key != "" {
		return key
	}

	authorization := ctx.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authorization, "Bearer ") {
		return strings.TrimPrefix(authorization, "Bearer ")
	}

	return ""
}
