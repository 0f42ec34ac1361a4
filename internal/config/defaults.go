package config

const (
	defaultDataDir         = "./data"
	defaultVenvDir         = "MAP"
	defaultLogDir          = "~/.local/share/waypoint/logs"
	defaultPythonBinary    = "python3"
	defaultProcessorScript = "map_creator.py"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"

	// PolicyContinue logs a failed processor invocation and keeps processing
	// the remaining entries.
	PolicyContinue = "continue"
	// PolicyHalt stops the batch at the first processor failure.
	PolicyHalt = "halt"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			VenvDir: defaultVenvDir,
			LogDir:  defaultLogDir,
		},
		Python: Python{
			Binary: defaultPythonBinary,
			Script: defaultProcessorScript,
		},
		Dispatch: Dispatch{
			OnItemFailure: PolicyContinue,
			SkipHidden:    true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
