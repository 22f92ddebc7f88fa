package config

import "flag"

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d database DSN (PostgreSQL)
//	-f local SQLite database file path
//	-u user id the CLI operates on
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var databaseDSN string
	var localPath string
	var userID int64
	var jsonConfigPath string

	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&localPath, "f", "", "Local database file path")
	flag.Int64Var(&userID, "u", 0, "User ID")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			UserID: userID,
		},
		Storage: Storage{
			DB: DB{
				DSN:  databaseDSN,
				Path: localPath,
			},
		},
		JSONFilePath: jsonConfigPath,
	}
}
