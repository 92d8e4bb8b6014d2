package api

import "time"

// Dataset is the wire representation of one catalog record.
type Dataset struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Version          *string                `json:"version"`
	Description      *string                `json:"description"`
	Owner            *string                `json:"owner"`
	Tags             []string               `json:"tags"`
	SourceType       string                 `json:"source_type"`
	Status           string                 `json:"status"`
	CollectedAt      *time.Time             `json:"collected_at"`
	CollectedBy      string                 `json:"collected_by"`
	CollectionParams map[string]interface{} `json:"collection_params"`
	StorageBackend   string                 `json:"storage_backend"`
	StoragePath      string                 `json:"storage_path"`
	Host             *string                `json:"host"`
	ItemCount        int64                  `json:"item_count"`
	TotalSizeBytes   int64                  `json:"total_size_bytes"`
	Checksum         *string                `json:"checksum"`
	SchemaVersion    string                 `json:"schema_version"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// DatasetSearchResult is a dataset plus the score the ranker attached to it.
// The score is null on backends that cannot rank.
type DatasetSearchResult struct {
	Dataset
	RelevanceScore *float64 `json:"relevance_score"`
}

type SearchResponse struct {
	Items []DatasetSearchResult `json:"items"`
	Total int64                 `json:"total"`
	Query string                `json:"query"`
}

type CreateDatasetRequest struct {
	ID               string                 `json:"id" validate:"omitempty,max=128"`
	Name             string                 `json:"name" validate:"required,notBlank"`
	Version          *string                `json:"version"`
	Description      *string                `json:"description"`
	Owner            *string                `json:"owner"`
	Tags             []string               `json:"tags"`
	SourceType       string                 `json:"source_type" validate:"required,notBlank"`
	Status           string                 `json:"status" validate:"omitempty,datasetStatus"`
	CollectedAt      *time.Time             `json:"collected_at"`
	CollectedBy      string                 `json:"collected_by"`
	CollectionParams map[string]interface{} `json:"collection_params"`
	StorageBackend   string                 `json:"storage_backend" validate:"required,notBlank"`
	StoragePath      string                 `json:"storage_path" validate:"required,notBlank"`
	Host             *string                `json:"host"`
	ItemCount        int64                  `json:"item_count" validate:"gte=0"`
	TotalSizeBytes   int64                  `json:"total_size_bytes" validate:"gte=0"`
	Checksum         *string                `json:"checksum"`
	SchemaVersion    string                 `json:"schema_version"`
}

// UpdateDatasetRequest carries a partial update. Nil fields are left
// untouched; id, source_type and the audit timestamps are not updatable.
type UpdateDatasetRequest struct {
	Name             *string                 `json:"name" validate:"omitempty,notBlank"`
	Version          *string                 `json:"version"`
	Description      *string                 `json:"description"`
	Owner            *string                 `json:"owner"`
	Tags             *[]string               `json:"tags"`
	Status           *string                 `json:"status" validate:"omitempty,datasetStatus"`
	CollectedAt      *time.Time              `json:"collected_at"`
	CollectedBy      *string                 `json:"collected_by"`
	CollectionParams *map[string]interface{} `json:"collection_params"`
	StorageBackend   *string                 `json:"storage_backend" validate:"omitempty,notBlank"`
	StoragePath      *string                 `json:"storage_path" validate:"omitempty,notBlank"`
	Host             *string                 `json:"host"`
	ItemCount        *int64                  `json:"item_count" validate:"omitempty,gte=0"`
	TotalSizeBytes   *int64                  `json:"total_size_bytes" validate:"omitempty,gte=0"`
	Checksum         *string                 `json:"checksum"`
	SchemaVersion    *string                 `json:"schema_version" validate:"omitempty,notBlank"`
}

type ListDatasetsResponse struct {
	Items  []Dataset `json:"items"`
	Total  int64     `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

type BatchRegisterRequest struct {
	Datasets []CreateDatasetRequest `json:"datasets" validate:"required,min=1,max=500,dive"`
}

// BatchRegisterResponse reports how a bulk registration went: duplicates
// are skipped, everything else is inserted.
type BatchRegisterResponse struct {
	Registered int `json:"registered"`
	Skipped    int `json:"skipped"`
	Total      int `json:"total"`
}
