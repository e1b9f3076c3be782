package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile     = flag.String("log", "", "Write logs to this file")
	flagClassifyEps = flag.Float64("classify-eps", 0, "Coarse face/plane classification epsilon")
	flagClipEps     = flag.Float64("clip-eps", 0, "Fine polygon clipping epsilon")
	flagRound       = flag.Int("round", -1, "Decimals kept on constructed vertices")
	flagMetrics     = flag.Bool("metrics", false, "Print kernel counters after the command")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments left after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagClassifyEps > 0 {
		cfg.Kernel.ClassifyEpsilon = *flagClassifyEps
	}
	if *flagClipEps > 0 {
		cfg.Kernel.ClipEpsilon = *flagClipEps
	}
	if *flagRound >= 0 {
		cfg.Kernel.RoundDecimals = *flagRound
	}
	if *flagMetrics {
		cfg.Metrics.Report = true
	}
}
