package api

import "time"

type CreateAPIKeyRequest struct {
	Name string `json:"name" validate:"required,notBlank"`
}

// APIKey is the listable view of an issued key. The secret itself is
// only ever returned once, inside CreateAPIKeyResponse.
type APIKey struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

type CreateAPIKeyResponse struct {
	APIKey
	Token string `json:"token"`
}

type ListAPIKeysResponse struct {
	Items []APIKey `json:"items"`
}
