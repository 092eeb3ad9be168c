package upkeep

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the raw key=value pairs from /etc/upkeep.conf plus UPKEEP_*
// environment overrides.
type Config struct {
	Values map[string]string
}

// loadConfig reads the configuration file and applies defaults. A missing
// file is not an error; every key has a usable default.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{Values: make(map[string]string)}

	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}
			key := strings.TrimSpace(parts[0])
			val := strings.TrimSpace(parts[1])
			val = strings.Trim(val, `"'`)
			cfg.Values[key] = val
		}
		if err := scanner.Err(); err != nil {
			return cfg, err
		}
	}

	mergeEnvOverrides(cfg)
	return cfg, nil
}

// mergeEnvOverrides lets UPKEEP_* environment variables take precedence over
// the configuration file.
func mergeEnvOverrides(cfg *Config) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "UPKEEP_") {
			parts := strings.SplitN(env, "=", 2)
			if len(parts) == 2 {
				cfg.Values[parts[0]] = parts[1]
			}
		}
	}
}

// initConfig applies configuration values to the package globals.
func initConfig(cfg *Config) {
	if cfg.Values["UPKEEP_DEBUG"] == "1" {
		Debug = true
	}
}

// transcriptPath returns the log file location: UPKEEP_LOG when set,
// otherwise upkeep.log beside the executable.
func transcriptPath(cfg *Config) string {
	if p := cfg.Values["UPKEEP_LOG"]; p != "" {
		return p
	}
	exe, err := os.Executable()
	if err != nil {
		return "upkeep.log"
	}
	return filepath.Join(filepath.Dir(exe), "upkeep.log")
}

// archiveDir is where rotated transcripts are kept, next to the live log.
func archiveDir(logPath string) string {
	return filepath.Join(filepath.Dir(logPath), "logs")
}
