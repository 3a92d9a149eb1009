package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"

	IdentityMeta  = "meta"
	IdentityXattr = "xattr"
)

type Config struct {
	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Host
	ProjectRoot      string        // root of the resource tree favorites point into
	Identity         string        // "meta" | "xattr"
	IdentityCacheTTL time.Duration // how long a resolved guid -> path stays cached

	// Persistence
	DataDir string // host data dir; the document lives at <DataDir>/Editor/FavoriteAssetsData.json
	Store   string // "file" | "redis" | "memory"

	// Server
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	AllowedCIDRS    []string      // optional, restrict API access to specific IPs/CIDRs
	TrustProxy      bool          // true => trust X-Forwarded-For headers

	// Background maintenance
	CleanupInterval time.Duration // periodic CleanupInvalid (0 disables the ticker)
	Watch           bool          // watch ProjectRoot and clean up on removals

	// Redis (only when Store == "redis")
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisNamespace      string        // document key suffix, one per project
	RedisOpTimeout      time.Duration // timeout for a single load/save
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	RedisWarnThreshold  int           // warn after this many attempts
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:  getenv("FAVS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("FAVS_PRETTY_LOG", true),

		ProjectRoot:      getenv("FAVS_PROJECT_ROOT", "."),
		Identity:         getenv("FAVS_IDENTITY", IdentityMeta),
		IdentityCacheTTL: mustDuration("FAVS_IDENTITY_CACHE_TTL", 10*time.Minute),

		DataDir: getenv("FAVS_DATA_DIR", defaultDataDir()),
		Store:   getenv("FAVS_STORE", StoreFile),

		ListenPort:      getenv("FAVS_LISTEN_PORT", "127.0.0.1:8080"),
		ShutdownTimeout: mustDuration("FAVS_SHUTDOWN_TIMEOUT", 5*time.Second),
		AllowedCIDRS:    parseAllowedIPs(getenv("FAVS_ALLOWED_CIDRS", "")),
		TrustProxy:      mustBool("FAVS_TRUST_PROXY", false),

		CleanupInterval: mustDuration("FAVS_CLEANUP_INTERVAL", 5*time.Minute),
		Watch:           mustBool("FAVS_WATCH", true),

		RedisAddr:           getenv("FAVS_REDIS_ADDR", ""),
		RedisUser:           getenv("FAVS_REDIS_USERNAME", ""),
		RedisPassword:       getenv("FAVS_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("FAVS_REDIS_DB", 0),
		RedisNamespace:      getenv("FAVS_REDIS_NAMESPACE", "default"),
		RedisOpTimeout:      mustDuration("FAVS_REDIS_OP_TIMEOUT", 3*time.Second),
		RedisDT:             mustDuration("FAVS_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("FAVS_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("FAVS_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("FAVS_REDIS_POOL_SIZE", 4),
		RedisConnectTimeout: mustDuration("FAVS_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("FAVS_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("FAVS_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("FAVS_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("FAVS_REDIS_WARN_THRESHOLD", 3),
	}

	cfg.Validate()

	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// Validate panics on settings the process cannot start with.
func (c *Config) Validate() {
	switch c.Store {
	case StoreFile, StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			panic("❌ FATAL: FAVS_REDIS_ADDR is required when FAVS_STORE=redis")
		}
	default:
		panic(fmt.Sprintf("❌ FATAL: unknown FAVS_STORE %q (want file, redis or memory)", c.Store))
	}

	switch c.Identity {
	case IdentityMeta, IdentityXattr:
	default:
		panic(fmt.Sprintf("❌ FATAL: unknown FAVS_IDENTITY %q (want meta or xattr)", c.Identity))
	}

	if c.ProjectRoot == "" {
		panic("❌ FATAL: FAVS_PROJECT_ROOT must not be empty")
	}
}

// DataFile is the location of the persisted favorites document.
func (c *Config) DataFile() string {
	return filepath.Join(c.DataDir, "Editor", "FavoriteAssetsData.json")
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "favorites")
	}
	return ".favorites"
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
