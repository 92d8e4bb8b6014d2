package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/datashelf/datashelf/pkg/api"
	"github.com/datashelf/datashelf/pkg/contract"
	"github.com/datashelf/datashelf/pkg/store"
)

const (
	tokenPrefix    = "dsk_"
	tokenRandBytes = 32
	keyPrefixLen   = 8
)

// APIKeyService issues and revokes API keys. A key's secret is returned
// exactly once, at creation; only its hash is persisted.
type APIKeyService struct {
	store store.APIKeyStore
}

func NewAPIKeyService(keys store.APIKeyStore) *APIKeyService {
	return &APIKeyService{store: keys}
}

func (a APIKeyService) CreateAPIKey(
	ctx context.Context, input *api.CreateAPIKeyRequest,
) (*api.CreateAPIKeyResponse, *contract.Error) {
	token, err := generateToken()
	if err != nil {
		return nil, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			"failed to generate API key",
			err,
		)
	}

	key, contractError := a.store.CreateAPIKey(ctx, input.Name, HashKey(token), token[:keyPrefixLen])
	if contractError != nil {
		return nil, contractError
	}

	return &api.CreateAPIKeyResponse{APIKey: *key, Token: token}, nil
}

func (a APIKeyService) ListAPIKeys(ctx context.Context) (*api.ListAPIKeysResponse, *contract.Error) {
	keys, contractError := a.store.ListAPIKeys(ctx)
	if contractError != nil {
		return nil, contractError
	}

	return &api.ListAPIKeysResponse{Items: keys}, nil
}

func (a APIKeyService) DeleteAPIKey(ctx context.Context, id string) *contract.Error {
	return a.store.DeleteAPIKey(ctx, id)
}

func generateToken() (string, error) {
	raw := make([]byte, tokenRandBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return tokenPrefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

// HashKey is the stored form of an API key secret, a hex sha256 digest.
// Hashing is deterministic so a presented secret can be looked up by its
// digest without keeping plaintext around.
func HashKey(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}
