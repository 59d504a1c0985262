package config

const (
	defaultLogDir           = "~/.local/share/lxcsetup/logs"
	defaultArtifactBaseURL  = "https://raw.githubusercontent.com/fabriziosalmi/proxmox-lxc-autoscale/main"
	defaultFetchTimeout     = 60
	defaultSelectorTimeout  = 5
	defaultVariant          = "autoscale"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultJournalEnabled   = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Artifacts: Artifacts{
			BaseURL:      defaultArtifactBaseURL,
			FetchTimeout: defaultFetchTimeout,
		},
		Selector: Selector{
			Timeout:        defaultSelectorTimeout,
			DefaultVariant: defaultVariant,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Journal: Journal{
			Enabled: defaultJournalEnabled,
		},
	}
}
