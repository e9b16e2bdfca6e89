package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./bhaktivani.db"

	// DefaultBoltPath is the default path for the bolt key-value store
	DefaultBoltPath = "./bhaktivani-kv.db"
)

// DefaultRefreshSchedule re-downloads stored languages every Sunday at 03:00.
const DefaultRefreshSchedule = "0 3 * * 0"
