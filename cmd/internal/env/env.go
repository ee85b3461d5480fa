package env

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type Env struct {
	AddrClient string
	Addr       string
	PublicURL  string

	DBHost  string
	DBPort  string
	DBName  string
	DBUser  string
	DBPass  string
	SSLMode string

	MigrationsPath string
	Seed           bool

	SecretKey     string
	AdminUsername string
	AdminPassword string

	UploadDir      string
	MaxUploadBytes int64

	DefaultPageSize int
	MaxPageSize     int

	LogLevel  string
	LogFormat string
	LogFile   string
}

var (
	cfg  *Env
	once sync.Once
)

// Start loads the configuration once per process. Values come from the
// environment, optionally layered over the file named by CONFIG_FILE.
func Start() *Env {
	once.Do(func() {
		cfg = Load(viper.New())
	})
	return cfg
}

// Load reads every setting from v after registering defaults and env binding.
func Load(v *viper.Viper) *Env {
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("config file not loaded, using environment only", "file", file, "error", err)
		}
	}

	e := &Env{
		AddrClient:      v.GetString("ADDR_CLIENT"),
		Addr:            v.GetString("ADDR"),
		PublicURL:       strings.TrimRight(v.GetString("PUBLIC_URL"), "/"),
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBName:          v.GetString("DB_NAME"),
		DBUser:          v.GetString("DB_USER"),
		DBPass:          v.GetString("DB_PASS"),
		SSLMode:         v.GetString("SSL_MODE"),
		MigrationsPath:  v.GetString("MIGRATIONS_PATH"),
		Seed:            v.GetBool("SEED"),
		SecretKey:       v.GetString("SECRET_KEY"),
		AdminUsername:   v.GetString("ADMIN_USERNAME"),
		AdminPassword:   v.GetString("ADMIN_PASSWORD"),
		UploadDir:       v.GetString("UPLOAD_DIR"),
		MaxUploadBytes:  v.GetInt64("MAX_UPLOAD_BYTES"),
		DefaultPageSize: v.GetInt("DEFAULT_PAGE_SIZE"),
		MaxPageSize:     v.GetInt("MAX_PAGE_SIZE"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		LogFile:         v.GetString("LOG_FILE"),
	}

	if e.MaxPageSize < 1 {
		e.MaxPageSize = 50
	}
	if e.DefaultPageSize < 1 || e.DefaultPageSize > e.MaxPageSize {
		e.DefaultPageSize = min(6, e.MaxPageSize)
	}
	return e
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ADDR_CLIENT", "http://localhost:3000")
	v.SetDefault("ADDR", "localhost:8060")
	v.SetDefault("PUBLIC_URL", "http://localhost:8060")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "store")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASS", "postgres")
	v.SetDefault("SSL_MODE", "disable")
	v.SetDefault("MIGRATIONS_PATH", "cmd/internal/db/migration.sql")
	v.SetDefault("SEED", false)
	v.SetDefault("SECRET_KEY", "mysecretkey")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", 5<<20)
	v.SetDefault("DEFAULT_PAGE_SIZE", 6)
	v.SetDefault("MAX_PAGE_SIZE", 50)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", "")
}
