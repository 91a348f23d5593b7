package conf

import (
	"gopkg.in/ini.v1"
)

// Cfg carries the knobs of the storage layer. Values come from an ini file in the
// mysqld style, any key left out falls back to its default.
type Cfg struct {
	DBFile   string `ini:"db_file"`
	WalFile  string `ini:"wal_file"`
	PoolSize int    `ini:"pool_size"`
	LogLevel string `ini:"log_level"`
}

func Default() Cfg {
	return Cfg{
		DBFile:   "perch.db",
		WalFile:  "perch.db.log",
		PoolSize: 64,
		LogLevel: "info",
	}
}

// Load reads the ini file at path over the defaults.
func Load(path string) (Cfg, error) {
	cfg := Default()

	f, err := ini.Load(path)
	if err != nil {
		return cfg, err
	}

	if err := f.Section("").MapTo(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
