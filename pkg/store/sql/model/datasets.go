package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/datashelf/datashelf/pkg/api"
)

const (
	StatusActive   = "active"
	StatusArchived = "archived"
	StatusDeleted  = "deleted"

	DefaultCollectedBy   = "unknown"
	DefaultSchemaVersion = "1.0"
)

// Dataset mapped from table <datasets>. The derived search vector column
// is trigger-maintained on postgres and deliberately absent here so
// application code can never write it.
type Dataset struct {
	ID               string     `gorm:"column:id;primaryKey"`
	Name             string     `gorm:"column:name;not null"`
	Version          *string    `gorm:"column:version"`
	Description      *string    `gorm:"column:description"`
	Owner            *string    `gorm:"column:owner"`
	Tags             Tags       `gorm:"column:tags;not null;default:'[]'"`
	SourceType       string     `gorm:"column:source_type;not null"`
	Status           string     `gorm:"column:status;not null;default:'active'"`
	CollectedAt      *time.Time `gorm:"column:collected_at"`
	CollectedBy      string     `gorm:"column:collected_by;not null;default:'unknown'"`
	CollectionParams JSONMap    `gorm:"column:collection_params"`
	StorageBackend   string     `gorm:"column:storage_backend;not null"`
	StoragePath      string     `gorm:"column:storage_path;not null"`
	Host             *string    `gorm:"column:host"`
	ItemCount        int64      `gorm:"column:item_count;not null;default:0"`
	TotalSizeBytes   int64      `gorm:"column:total_size_bytes;not null;default:0"`
	Checksum         *string    `gorm:"column:checksum"`
	SchemaVersion    string     `gorm:"column:schema_version;not null;default:'1.0'"`
	CreatedAt        time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;not null"`
}

func (d Dataset) ToAPI() api.Dataset {
	return api.Dataset{
		ID:               d.ID,
		Name:             d.Name,
		Version:          d.Version,
		Description:      d.Description,
		Owner:            d.Owner,
		Tags:             d.Tags,
		SourceType:       d.SourceType,
		Status:           d.Status,
		CollectedAt:      d.CollectedAt,
		CollectedBy:      d.CollectedBy,
		CollectionParams: d.CollectionParams,
		StorageBackend:   d.StorageBackend,
		StoragePath:      d.StoragePath,
		Host:             d.Host,
		ItemCount:        d.ItemCount,
		TotalSizeBytes:   d.TotalSizeBytes,
		Checksum:         d.Checksum,
		SchemaVersion:    d.SchemaVersion,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// NewDatasetFromCreate applies the registration defaults: a generated id
// when the caller supplied none, active status, unknown collector and the
// initial schema version. Audit timestamps are filled in on insert.
func NewDatasetFromCreate(input *api.CreateDatasetRequest) Dataset {
	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	status := input.Status
	if status == "" {
		status = StatusActive
	}

	collectedBy := input.CollectedBy
	if collectedBy == "" {
		collectedBy = DefaultCollectedBy
	}

	schemaVersion := input.SchemaVersion
	if schemaVersion == "" {
		schemaVersion = DefaultSchemaVersion
	}

	tags := Tags(input.Tags)
	if tags == nil {
		tags = Tags{}
	}

	return Dataset{
		ID:               id,
		Name:             input.Name,
		Version:          input.Version,
		Description:      input.Description,
		Owner:            input.Owner,
		Tags:             tags,
		SourceType:       input.SourceType,
		Status:           status,
		CollectedAt:      input.CollectedAt,
		CollectedBy:      collectedBy,
		CollectionParams: JSONMap(input.CollectionParams),
		StorageBackend:   input.StorageBackend,
		StoragePath:      input.StoragePath,
		Host:             input.Host,
		ItemCount:        input.ItemCount,
		TotalSizeBytes:   input.TotalSizeBytes,
		Checksum:         input.Checksum,
		SchemaVersion:    schemaVersion,
	}
}
