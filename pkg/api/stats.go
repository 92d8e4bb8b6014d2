package api

type StatsResponse struct {
	TotalDatasets    int64            `json:"total_datasets"`
	TotalItems       int64            `json:"total_items"`
	TotalSizeBytes   int64            `json:"total_size_bytes"`
	BySourceType     map[string]int64 `json:"by_source_type"`
	ByStatus         map[string]int64 `json:"by_status"`
	ByStorageBackend map[string]int64 `json:"by_storage_backend"`
}
