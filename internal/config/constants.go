package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./annotator.db"

	// DefaultImportBatchSize bounds the number of rows per bulk insert during imports
	DefaultImportBatchSize = 500

	// DefaultMaxUploadBytes caps the size of a dataset upload request (32 MiB)
	DefaultMaxUploadBytes = 32 << 20
)
