package constant

import "os"

// <NodeDir>/                    (e.g., /home/oracle/.poracle)
// └── config/
//	└── poracle_config.json
// └── databases/
//	└── price_updates.db

const (
	NodeDir = ".poracle"

	ConfigSubdir   = "config"
	ConfigFileName = "poracle_config.json"

	DatabasesSubdir     = "databases"
	HistoryDatabaseName = "price_updates.db"

	// EnvPrefix is the prefix of every environment override read through viper.
	EnvPrefix = "PORACLE"
)

var DefaultNodeHome = os.ExpandEnv("$HOME/") + NodeDir

// Set via -ldflags at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)
