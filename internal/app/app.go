package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/idiomsearch/internal/cache"
	"github.com/hyperifyio/idiomsearch/internal/fetch"
	"github.com/hyperifyio/idiomsearch/internal/meaning"
	"github.com/hyperifyio/idiomsearch/internal/orchestrator"
	"github.com/hyperifyio/idiomsearch/internal/report"
	"github.com/hyperifyio/idiomsearch/internal/search"
	"github.com/hyperifyio/idiomsearch/internal/session"
)

// Prompts and notices printed by the interactive loop.
const (
	PromptKeyword  = "请输入要搜索的成语/词语（输入'quit'退出）: "
	NoticeEmpty    = "请输入有效的关键词"
	NoticeSearch   = "开始搜索关键词: %s（请稍候）"
	NoticeGoodbye  = "再见"
	NoticeNoResult = "没有找到包含该关键词的结果"
)

// ErrEmptyKeyword is returned by Search for a blank keyword.
var ErrEmptyKeyword = errors.New("empty keyword")

// MeaningSource looks up an idiom's meaning; *meaning.Fetcher satisfies it.
type MeaningSource interface {
	Fetch(ctx context.Context, keyword string) *meaning.Meaning
}

// Outcome is everything one search session produced.
type Outcome struct {
	Keyword string
	Meaning *meaning.Meaning
	Results orchestrator.ResultSet
}

// Report renders the outcome as the plain-text report.
func (o Outcome) Report() string {
	return report.Format(o.Meaning, o.Keyword, o.Results)
}

type App struct {
	cfg       Config
	meaning   MeaningSource
	orch      *orchestrator.Orchestrator
	httpCache *cache.HTTPCache
	client    *http.Client
}

// New wires the session, HTTP clients, search provider, meaning fetcher and
// site orchestrator from cfg.
func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	a := &App{cfg: cfg}

	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			n, err := cache.PurgeHTTPCacheByAge(cfg.CacheDir, cfg.CacheMaxAge)
			if err != nil {
				log.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("purged stale cache entries")
			}
		}
		a.httpCache = &cache.HTTPCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}

	sess := loadSession(cfg)
	if sess.Anonymous() {
		log.Warn().Msg("no dictionary cookies configured; meanings will likely be unavailable")
	}

	httpClient := newPoliteHTTPClient()
	a.client = httpClient
	// Search pages may be cached; dictionary pages carry cookies and never are.
	searchClient := &fetch.Client{
		HTTPClient:        httpClient,
		UserAgent:         session.DefaultUserAgent,
		PerRequestTimeout: search.DefaultTimeout,
		Cache:             a.httpCache,
		BypassCache:       cfg.CacheClear,
		RedirectMaxHops:   5,
	}
	meaningClient := &fetch.Client{
		HTTPClient:        httpClient,
		UserAgent:         session.DefaultUserAgent,
		PerRequestTimeout: meaning.DefaultTimeout,
		RedirectMaxHops:   5,
	}

	var provider search.Provider
	if cfg.SearchFile != "" {
		provider = &search.FileProvider{Path: cfg.SearchFile}
	} else {
		// The results page is fetched anonymously; only the header set is shared.
		provider = &search.Baidu{
			Client:   searchClient,
			Session:  session.New(""),
			Endpoint: cfg.SearchEndpoint,
		}
	}
	a.meaning = &meaning.Fetcher{
		Client:   meaningClient,
		Session:  sess,
		Endpoint: cfg.MeaningEndpoint,
	}
	a.orch = &orchestrator.Orchestrator{
		Provider: provider,
		Pacer:    orchestrator.NewRandomPacer(cfg.PaceMin, cfg.PaceMax),
	}
	log.Debug().
		Str("provider", provider.Name()).
		Int("sites", len(cfg.sitesOrDefault())).
		Bool("cache", a.httpCache != nil).
		Msg("app ready")
	return a, nil
}

// Close releases idle connections held by the shared HTTP client.
func (a *App) Close() {
	if a.client != nil {
		a.client.CloseIdleConnections()
	}
}

// Search runs one session: the meaning lookup, then the scoped search of
// every configured site. Individual failures degrade to empty sections;
// only a blank keyword is an error.
func (a *App) Search(ctx context.Context, keyword string) (Outcome, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return Outcome{}, ErrEmptyKeyword
	}
	start := time.Now()
	out := Outcome{Keyword: keyword}
	out.Meaning = a.meaning.Fetch(ctx, keyword)
	out.Results = a.orch.Run(ctx, keyword, a.cfg.sitesOrDefault())
	log.Info().
		Str("keyword", keyword).
		Bool("meaning", out.Meaning != nil).
		Int("results", out.Results.Total()).
		Dur("elapsed", time.Since(start)).
		Msg("search finished")
	return out, nil
}

// Run executes a single session when a keyword is configured, otherwise it
// reads keywords line by line from in until "quit", "q" or EOF. Reports are
// written to out and, when OutputPath is set, the latest report also goes
// to that file. A cancelled ctx ends Run with ctx.Err() even while it is
// waiting for input, and a session cut short by cancellation prints and
// writes nothing.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if kw := strings.TrimSpace(a.cfg.Keyword); kw != "" {
		return a.runOnce(ctx, kw, out)
	}
	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines := readLines(readCtx, in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, PromptKeyword)
		var line inputLine
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case l, open := <-lines:
			if !open {
				fmt.Fprintln(out)
				return nil
			}
			line = l
		}
		if line.err != nil {
			return line.err
		}
		kw := strings.TrimSpace(line.text)
		switch strings.ToLower(kw) {
		case "quit", "q":
			fmt.Fprintln(out, NoticeGoodbye)
			return nil
		case "":
			fmt.Fprintln(out, NoticeEmpty)
			continue
		}
		if err := a.runOnce(ctx, kw, out); err != nil {
			return err
		}
	}
}

func (a *App) runOnce(ctx context.Context, keyword string, out io.Writer) error {
	fmt.Fprintf(out, NoticeSearch+"\n", keyword)
	res, err := a.Search(ctx, keyword)
	if err != nil {
		return err
	}
	// Sites skipped by cancellation are recorded empty; that is not a report.
	if err := ctx.Err(); err != nil {
		return err
	}
	text := res.Report()
	if res.Meaning == nil {
		fmt.Fprintln(out, report.NoMeaning)
	}
	fmt.Fprintln(out, text)
	if res.Results.Total() == 0 {
		fmt.Fprintln(out, NoticeNoResult)
	}
	if a.cfg.OutputPath != "" {
		if err := os.WriteFile(a.cfg.OutputPath, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPath).Msg("wrote report")
	}
	return nil
}

type inputLine struct {
	text string
	err  error
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. The channel closes at EOF; a scan error is delivered as the
// last line. The goroutine stays parked in Read until in yields or closes.
func readLines(ctx context.Context, in io.Reader) <-chan inputLine {
	ch := make(chan inputLine)
	go func() {
		defer close(ch)
		if in == nil {
			return
		}
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case ch <- inputLine{text: sc.Text()}:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			select {
			case ch <- inputLine{err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return ch
}

// loadSession prefers the inline cookie string over the cookie file. A
// file that cannot be read leaves the session anonymous.
func loadSession(cfg Config) *session.Session {
	if strings.TrimSpace(cfg.Cookies) != "" {
		return session.New(cfg.Cookies)
	}
	if cfg.CookiesFile != "" {
		s, err := session.FromFile(cfg.CookiesFile)
		if err != nil {
			log.Warn().Err(err).Str("file", cfg.CookiesFile).Msg("cookie file unreadable; continuing anonymously")
			return session.New("")
		}
		return s
	}
	return session.New("")
}
