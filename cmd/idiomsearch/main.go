package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/idiomsearch/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		keyword         string
		outputPath      string
		cookies         string
		cookiesFile     string
		sites           string
		configPath      string
		envFiles        string
		searchEndpoint  string
		searchFile      string
		meaningEndpoint string
		paceMin         time.Duration
		paceMax         time.Duration
		cacheDir        string
		cacheMaxAge     time.Duration
		cacheClear      bool
		cacheStrict     bool
		verbose         bool
		showVersion     bool
	)

	flag.StringVar(&keyword, "keyword", "", "Idiom or phrase to search once; empty starts the interactive prompt")
	flag.StringVar(&outputPath, "output", "", "Also write the latest report to this file")
	flag.StringVar(&cookies, "cookies", "", "Cookie header for the dictionary site, e.g. 'a=1; b=2'")
	flag.StringVar(&cookiesFile, "cookies.file", "", "File containing the dictionary cookie header")
	flag.StringVar(&sites, "sites", "", "Comma-separated name=domain list of sites to search (default: 人民网, 光明网, 新华网)")
	flag.StringVar(&configPath, "config", "", "YAML or JSON config file")
	flag.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load before reading the environment")
	flag.StringVar(&searchEndpoint, "search.endpoint", "", "Override the search results endpoint")
	flag.StringVar(&searchFile, "search.file", "", "Parse a saved results page instead of querying the search engine")
	flag.StringVar(&meaningEndpoint, "meaning.endpoint", "", "Override the dictionary search endpoint (keyword is appended)")
	flag.DurationVar(&paceMin, "pace.min", app.DefaultPaceMin, "Minimum pause between site searches")
	flag.DurationVar(&paceMax, "pace.max", app.DefaultPaceMax, "Maximum pause between site searches")
	flag.StringVar(&cacheDir, "cache.dir", "", "Cache directory for search result pages; empty disables caching")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.BoolVar(&cacheStrict, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("idiomsearch %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}
	if keyword == "" && flag.NArg() > 0 {
		keyword = strings.Join(flag.Args(), " ")
	}

	if err := app.LoadEnvFiles(splitList(envFiles)...); err != nil {
		log.Warn().Err(err).Msg("dotenv load failed")
	}

	cfg := app.Config{
		Keyword:          keyword,
		OutputPath:       outputPath,
		Cookies:          cookies,
		CookiesFile:      cookiesFile,
		SearchEndpoint:   searchEndpoint,
		SearchFile:       searchFile,
		MeaningEndpoint:  meaningEndpoint,
		PaceMin:          paceMin,
		PaceMax:          paceMax,
		CacheDir:         cacheDir,
		CacheMaxAge:      cacheMaxAge,
		CacheClear:       cacheClear,
		CacheStrictPerms: cacheStrict,
		Verbose:          verbose,
	}
	if strings.TrimSpace(sites) != "" {
		list, err := app.ParseSites(sites)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -sites")
		}
		cfg.Sites = list
	}

	// Precedence: flags, then environment, then config file.
	app.ApplyEnvToConfig(&cfg)
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("config", configPath).Msg("load config")
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("interrupted")
			os.Exit(130)
		}
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg app.Config, in io.Reader, out io.Writer) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx, in, out)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
