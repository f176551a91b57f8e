package config

const (
	defaultConfigPath       = "~/.config/cutlist/config.toml"
	defaultDataDir          = "~/.local/share/cutlist"
	defaultLogDir           = "~/.local/share/cutlist/logs"
	defaultAPIBind          = "127.0.0.1:7488"
	defaultMediaExtension   = ".ts"
	defaultTitleStrategy    = "Naive"
	defaultTitlePlaceholder = "Nom du fichier converti"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Media: Media{
			Extension: defaultMediaExtension,
		},
		Title: Title{
			DefaultStrategy:  defaultTitleStrategy,
			Placeholder:      defaultTitlePlaceholder,
			StripApostrophes: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
