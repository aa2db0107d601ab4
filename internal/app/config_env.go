package app

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, envKey string) {
		if *dst == "" {
			*dst = os.Getenv(envKey)
		}
	}
	setString(&cfg.Cookies, "IDIOM_COOKIES")
	setString(&cfg.CookiesFile, "IDIOM_COOKIES_FILE")
	setString(&cfg.SearchEndpoint, "SEARCH_ENDPOINT")
	setString(&cfg.MeaningEndpoint, "MEANING_ENDPOINT")
	setString(&cfg.CacheDir, "CACHE_DIR")

	if len(cfg.Sites) == 0 {
		if v := strings.TrimSpace(os.Getenv("IDIOM_SITES")); v != "" {
			sites, err := ParseSites(v)
			if err != nil {
				log.Warn().Err(err).Msg("ignoring IDIOM_SITES")
			} else {
				cfg.Sites = sites
			}
		}
	}

	if cfg.CacheMaxAge == 0 {
		if s := os.Getenv("CACHE_MAX_AGE"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.CacheMaxAge = d
			}
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
}
