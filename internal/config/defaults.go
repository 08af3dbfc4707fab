package config

const (
	defaultWorkDir    = "~/.local/share/discmux/work"
	defaultLogDir     = "~/.local/share/discmux/logs"
	defaultDevice     = "/dev/cdrom"
	defaultCdparanoia = "cdparanoia"
	defaultFlac       = "flac"
	defaultMkvmerge   = "mkvmerge"
	defaultEject      = "eject"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Tools: Tools{
			Cdparanoia: defaultCdparanoia,
			Flac:       defaultFlac,
			Mkvmerge:   defaultMkvmerge,
			Eject:      defaultEject,
		},
		Rip: Rip{
			Device: defaultDevice,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
