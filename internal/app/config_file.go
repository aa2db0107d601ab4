package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/idiomsearch/internal/orchestrator"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Output      string              `yaml:"output" json:"output"`
	Cookies     string              `yaml:"cookies" json:"cookies"`
	CookiesFile string              `yaml:"cookiesFile" json:"cookiesFile"`
	Sites       []orchestrator.Site `yaml:"sites" json:"sites"`
	Verbose     bool                `yaml:"verbose" json:"verbose"`

	Search struct {
		Endpoint string `yaml:"endpoint" json:"endpoint"`
		File     string `yaml:"file" json:"file"`
	} `yaml:"search" json:"search"`

	Meaning struct {
		Endpoint string `yaml:"endpoint" json:"endpoint"`
	} `yaml:"meaning" json:"meaning"`

	Pace struct {
		Min time.Duration `yaml:"min" json:"min"`
		Max time.Duration `yaml:"max" json:"max"`
	} `yaml:"pace" json:"pace"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc onto fields of cfg that are still
// unset or at their flag default, so explicit flags and env keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.Cookies == "" && fc.Cookies != "" {
		cfg.Cookies = fc.Cookies
	}
	if cfg.CookiesFile == "" && fc.CookiesFile != "" {
		cfg.CookiesFile = fc.CookiesFile
	}
	if len(cfg.Sites) == 0 && len(fc.Sites) > 0 {
		cfg.Sites = append([]orchestrator.Site{}, fc.Sites...)
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}

	if cfg.SearchEndpoint == "" && fc.Search.Endpoint != "" {
		cfg.SearchEndpoint = fc.Search.Endpoint
	}
	if cfg.SearchFile == "" && fc.Search.File != "" {
		cfg.SearchFile = fc.Search.File
	}
	if cfg.MeaningEndpoint == "" && fc.Meaning.Endpoint != "" {
		cfg.MeaningEndpoint = fc.Meaning.Endpoint
	}

	if (cfg.PaceMin == 0 || cfg.PaceMin == DefaultPaceMin) && fc.Pace.Min > 0 {
		cfg.PaceMin = fc.Pace.Min
	}
	if (cfg.PaceMax == 0 || cfg.PaceMax == DefaultPaceMax) && fc.Pace.Max > 0 {
		cfg.PaceMax = fc.Pace.Max
	}

	if cfg.CacheDir == "" && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
}

// ValidateConfig checks the settings a session cannot run without.
func ValidateConfig(cfg Config) error {
	seen := map[string]struct{}{}
	for _, s := range cfg.sitesOrDefault() {
		if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.Domain) == "" {
			return fmt.Errorf("config: site %q/%q needs both name and domain", s.Name, s.Domain)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("config: duplicate site name %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	if cfg.PaceMin < 0 || cfg.PaceMax < 0 {
		return errors.New("config: negative pacing is not allowed")
	}
	if cfg.PaceMax < cfg.PaceMin {
		return errors.New("config: pace.max must not be below pace.min")
	}
	if cfg.CacheMaxAge < 0 {
		return errors.New("config: negative cache.maxAge is not allowed")
	}
	return nil
}
