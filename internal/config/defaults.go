package config

const (
	defaultDataDir           = "~/.local/share/filmlog"
	defaultExportDir         = "~/filmlog-exports"
	defaultUserName          = "admin"
	defaultLowStockThreshold = 2
	defaultDropboxFolder     = "/filmlog"
	defaultDropboxTimeout    = 30
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			ExportDir: defaultExportDir,
		},
		User: User{
			Name: defaultUserName,
		},
		Stock: Stock{
			LowStockThreshold: defaultLowStockThreshold,
		},
		Dropbox: Dropbox{
			RemoteFolder:   defaultDropboxFolder,
			RequestTimeout: defaultDropboxTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
