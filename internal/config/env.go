package config

import (
	"os"
	"regexp"
	"runtime"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// windowsAliases lets one config file name the same variables on every OS.
var windowsAliases = map[string]string{
	"HOME":     "USERPROFILE",
	"HOSTNAME": "COMPUTERNAME",
	"USER":     "USERNAME",
}

func lookupEnv(key string) string {
	if runtime.GOOS == "windows" {
		if alias, ok := windowsAliases[key]; ok {
			key = alias
		}
	}
	return os.Getenv(key)
}

// expandEnvVars replaces every $(VAR) in s; unset variables become "".
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		return lookupEnv(envPattern.FindStringSubmatch(m)[1])
	})
}

// expandPaths applies placeholder expansion to the path-valued keys only,
// so values like cron specs are taken literally.
func expandPaths(cfg *Config) {
	for _, p := range []*string{
		&cfg.Root,
		&cfg.Source.Path,
		&cfg.Logging.File,
		&cfg.Metrics.Textfile,
	} {
		*p = expandEnvVars(*p)
	}
}
