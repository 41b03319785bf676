package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"flash-actu/pkg/sources"
)

// Config gathers every knob of the pipeline. It is built once in main and
// passed in explicitly; nothing reads the environment after Load.
type Config struct {
	// News sources, fetched in priority order.
	Sources []sources.Source

	// Output directory for audio, transcript and feed document.
	OutDir string

	// Public base URL used in enclosure links.
	BaseURL string

	// Generation service.
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	// Speech synthesis.
	VoiceLang string

	// Script shaping.
	MaxWords         int
	MaxPerSource     int
	SummaryMaxLen    int
	FallbackMaxItems int
	EnrichSummaries  bool

	// Feed document.
	FeedRetention   int
	FeedTitle       string
	FeedDescription string

	// Collaborator timeouts.
	SourceTimeout     time.Duration
	GenerateTimeout   time.Duration
	SynthesizeTimeout time.Duration

	// Daemon mode schedule.
	CronSpec string

	// Optional episode archive: "mongo", "postgres" or empty.
	ArchiveBackend  string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	PostgresDSN     string
}

// defaultSources are the public French news feeds polled when
// FLASH_SOURCES is not set.
var defaultSources = []sources.Source{
	{Name: "francetvinfo", URL: "https://www.francetvinfo.fr/titres.rss"},
	{Name: "france24", URL: "https://www.france24.com/fr/rss"},
	{Name: "lemonde", URL: "https://www.lemonde.fr/rss/une.xml"},
}

// Load builds the configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Sources: parseSources(os.Getenv("FLASH_SOURCES")),
		OutDir:  getEnv("FLASH_OUT_DIR", "sorties"),
		BaseURL: baseURL(),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		VoiceLang: getEnv("FLASH_VOICE_LANG", "fr"),

		MaxWords:         getEnvInt("FLASH_MAX_WORDS", 320),
		MaxPerSource:     getEnvInt("FLASH_MAX_PER_SOURCE", 5),
		SummaryMaxLen:    getEnvInt("FLASH_SUMMARY_MAX_LEN", 240),
		FallbackMaxItems: getEnvInt("FLASH_FALLBACK_MAX_ITEMS", 6),
		EnrichSummaries:  getEnvBool("FLASH_ENRICH_SUMMARIES", false),

		FeedRetention:   getEnvInt("FLASH_FEED_RETENTION", 50),
		FeedTitle:       getEnv("FLASH_FEED_TITLE", "Flash Actu Perso"),
		FeedDescription: getEnv("FLASH_FEED_DESCRIPTION", "Résumé quotidien ~2 minutes"),

		SourceTimeout:     getEnvDuration("FLASH_SOURCE_TIMEOUT", 10*time.Second),
		GenerateTimeout:   getEnvDuration("FLASH_GENERATE_TIMEOUT", 60*time.Second),
		SynthesizeTimeout: getEnvDuration("FLASH_SYNTHESIZE_TIMEOUT", 30*time.Second),

		CronSpec: getEnv("FLASH_CRON_SPEC", "0 7 * * *"),

		ArchiveBackend:  getEnv("FLASH_ARCHIVE_BACKEND", ""),
		MongoURI:        getEnv("FLASH_MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("FLASH_MONGO_DB", "flashactu"),
		MongoCollection: getEnv("FLASH_MONGO_COLLECTION", "episodes"),
		PostgresDSN:     os.Getenv("FLASH_POSTGRES_DSN"),
	}
}

// parseSources reads a comma-separated URL list; source names are derived
// from the host part.
func parseSources(raw string) []sources.Source {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		out := make([]sources.Source, len(defaultSources))
		copy(out, defaultSources)
		return out
	}

	var out []sources.Source
	for _, u := range strings.Split(raw, ",") {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		out = append(out, sources.Source{Name: sourceName(u), URL: u})
	}
	return out
}

// sourceName derives a short label from a feed URL.
func sourceName(u string) string {
	name := u
	if i := strings.Index(name, "://"); i >= 0 {
		name = name[i+3:]
	}
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name = name[:i]
	}
	return strings.TrimPrefix(name, "www.")
}

// baseURL derives the public base URL for enclosure links. With a GitHub
// Pages deployment the owner/repository pair is enough; otherwise
// FLASH_BASE_URL wins, and "." keeps links relative.
func baseURL() string {
	if v := os.Getenv("FLASH_BASE_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}

	owner := strings.TrimSpace(os.Getenv("GITHUB_REPOSITORY_OWNER"))
	repoEnv := os.Getenv("GITHUB_REPOSITORY")
	repo := ""
	if repoEnv != "" {
		parts := strings.Split(repoEnv, "/")
		repo = strings.TrimSpace(parts[len(parts)-1])
	}
	if owner != "" && repo != "" {
		return "https://" + owner + ".github.io/" + repo
	}
	return "."
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
