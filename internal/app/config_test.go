package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/idiomsearch/internal/orchestrator"
)

func TestParseSites(t *testing.T) {
	got, err := ParseSites(" 人民网=people.com.cn ,, 新华网 = xinhuanet.com")
	require.NoError(t, err)
	assert.Equal(t, []orchestrator.Site{
		{Name: "人民网", Domain: "people.com.cn"},
		{Name: "新华网", Domain: "xinhuanet.com"},
	}, got)

	_, err = ParseSites("people.com.cn")
	assert.Error(t, err)
}

func TestLoadConfigFile_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "idiom.yaml", `
output: out.txt
cookiesFile: cookies.txt
sites:
  - name: 人民网
    domain: people.com.cn
search:
  endpoint: http://search.local/s
meaning:
  endpoint: http://dict.local/?k=
pace:
  min: 1s
  max: 3s
cache:
  dir: .cache
  maxAge: 24h
verbose: true
`)
	fc, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.Len(t, fc.Sites, 1)
	assert.Equal(t, "people.com.cn", fc.Sites[0].Domain)
	assert.Equal(t, time.Second, fc.Pace.Min)
	assert.Equal(t, 3*time.Second, fc.Pace.Max)
	assert.Equal(t, 24*time.Hour, fc.Cache.MaxAge)
	assert.Equal(t, ".cache", fc.Cache.Dir)
	assert.Equal(t, "http://dict.local/?k=", fc.Meaning.Endpoint)
	assert.True(t, fc.Verbose)
}

func TestLoadConfigFile_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "idiom.json", `{"sites":[{"name":"光明网","domain":"gmw.cn"}],"search":{"file":"page.html"}}`)
	fc, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.Len(t, fc.Sites, 1)
	assert.Equal(t, "光明网", fc.Sites[0].Name)
	assert.Equal(t, "page.html", fc.Search.File)
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "sites: [unterminated\n")
	_, err := LoadConfigFile(path)
	assert.Error(t, err)
}

func TestApplyFileConfig_FillsOnlyUnset(t *testing.T) {
	var fc FileConfig
	fc.Output = "file.txt"
	fc.Cookies = "sid=file"
	fc.Sites = []orchestrator.Site{{Name: "光明网", Domain: "gmw.cn"}}
	fc.Pace.Min = time.Second
	fc.Pace.Max = 5 * time.Second
	fc.Cache.Dir = ".cache"

	cfg := Config{
		OutputPath: "flag.txt",
		PaceMin:    DefaultPaceMin,
		PaceMax:    6 * time.Second,
	}
	ApplyFileConfig(&cfg, fc)

	assert.Equal(t, "flag.txt", cfg.OutputPath, "explicit output kept")
	assert.Equal(t, "sid=file", cfg.Cookies)
	assert.Equal(t, ".cache", cfg.CacheDir)
	assert.Len(t, cfg.Sites, 1)
	assert.Equal(t, time.Second, cfg.PaceMin, "default pace.min yields to file")
	assert.Equal(t, 6*time.Second, cfg.PaceMax, "explicit pace.max kept")
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"defaults", Config{}, ""},
		{"missing domain", Config{Sites: []orchestrator.Site{{Name: "a"}}}, "needs both"},
		{"duplicate", Config{Sites: []orchestrator.Site{{Name: "a", Domain: "x"}, {Name: "a", Domain: "y"}}}, "duplicate"},
		{"negative pace", Config{PaceMin: -time.Second}, "negative"},
		{"inverted pace", Config{PaceMin: 3 * time.Second, PaceMax: time.Second}, "pace.max"},
		{"negative max age", Config{CacheMaxAge: -time.Hour}, "maxAge"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfig(tc.cfg)
			if tc.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.want)
		})
	}
}
