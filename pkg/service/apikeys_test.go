package service

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datashelf/datashelf/pkg/api"
	"github.com/datashelf/datashelf/pkg/contract"
)

type FakeAPIKeyStore struct {
	name      string
	keyHash   string
	prefix    string
	createErr *contract.Error
}

func (f *FakeAPIKeyStore) CreateAPIKey(_ context.Context, name, keyHash, prefix string) (*api.APIKey, *contract.Error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	f.name = name
	f.keyHash = keyHash
	f.prefix = prefix

	key := api.APIKey{ID: "key-1", Name: name, Prefix: prefix}

	return &key, nil
}

func (f *FakeAPIKeyStore) ListAPIKeys(_ context.Context) ([]api.APIKey, *contract.Error) {
	return nil, nil
}

func (f *FakeAPIKeyStore) DeleteAPIKey(_ context.Context, _ string) *contract.Error {
	return nil
}

func (f *FakeAPIKeyStore) AuthenticateAPIKey(_ context.Context, _ string) (*api.APIKey, *contract.Error) {
	return nil, nil
}

func TestCreateAPIKeyTokenShape(t *testing.T) {
	keys := &FakeAPIKeyStore{}
	keyService := NewAPIKeyService(keys)

	response, contractError := keyService.CreateAPIKey(
		context.Background(), &api.CreateAPIKeyRequest{Name: "ingest-worker"},
	)

	require.Nil(t, contractError)
	assert.Equal(t, "ingest-worker", keys.name)

	assert.True(t, strings.HasPrefix(response.Token, "dsk_"))
	assert.Equal(t, response.Token[:8], keys.prefix)
	assert.Equal(t, keys.prefix, response.APIKey.Prefix)
	assert.Equal(t, HashKey(response.Token), keys.keyHash)
	assert.NotContains(t, response.Token[4:], "=")
}

func TestCreateAPIKeyStoreFailure(t *testing.T) {
	keys := &FakeAPIKeyStore{
		createErr: contract.NewError(contract.ErrorCodeInternalError, "failed to create API key"),
	}

	response, contractError := NewAPIKeyService(keys).CreateAPIKey(
		context.Background(), &api.CreateAPIKeyRequest{Name: "ingest-worker"},
	)

	require.NotNil(t, contractError)
	assert.Nil(t, response)
}

func TestGeneratedTokensAreUnique(t *testing.T) {
	first, err := generateToken()
	require.NoError(t, err)
	second, err := generateToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashKey(t *testing.T) {
	digest := HashKey("dsk_example")

	assert.Regexp(t, regexp.MustCompile("^[0-9a-f]{64}$"), digest)
	assert.Equal(t, digest, HashKey("dsk_example"))
	assert.NotEqual(t, digest, HashKey("dsk_other"))
}
