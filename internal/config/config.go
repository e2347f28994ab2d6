package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	EnvProduction = "production"

	StorageLocal = "local"
	StorageMinio = "minio"

	minJWTSecretLen = 32
)

// Config holds every setting the service reads at startup.
type Config struct {
	Port string `koanf:"port"`

	DatabaseURL string `koanf:"database_url"`

	JWTSecret  string        `koanf:"jwt_secret"`
	SessionTTL time.Duration `koanf:"session_ttl"`
	// unset means "secure outside development"
	CookieSecure *bool `koanf:"cookie_secure"`

	// bootstrap admin account
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`

	FrontendOrigin string `koanf:"frontend_origin"`

	GoEnv     string `koanf:"go_env"`
	LogLevel  string `koanf:"log_level"`
	LogPretty bool   `koanf:"log_pretty"`

	BcryptCost int `koanf:"bcrypt_cost"`

	// requests per minute per client IP on /api/auth/register and /api/auth/login
	AuthRateLimit int `koanf:"auth_rate_limit"`

	StorageBackend string `koanf:"storage_backend"`
	UploadDir      string `koanf:"upload_dir"`
	MaxUploadBytes int64  `koanf:"max_upload_bytes"`

	Minio MinioConfig `koanf:",squash"`
}

type MinioConfig struct {
	Endpoint  string `koanf:"minio_endpoint"`
	AccessKey string `koanf:"minio_access_key"`
	SecretKey string `koanf:"minio_secret_key"`
	Bucket    string `koanf:"minio_bucket"`
	UseSSL    bool   `koanf:"minio_use_ssl"`
}

func defaults() Config {
	return Config{
		SessionTTL:     7 * 24 * time.Hour,
		GoEnv:          "development",
		LogLevel:       "info",
		BcryptCost:     12,
		AuthRateLimit:  10,
		StorageBackend: StorageLocal,
		UploadDir:      "./uploads",
		MaxUploadBytes: 5 << 20,
	}
}

// Load reads .env (optional), an optional YAML file named by CONFIG_FILE and
// the process environment, in increasing order of precedence.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "load .env failed")
	}

	k := koanf.New(".")

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, errors.Wrapf(err, "read config file %s failed", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(key), value
		},
	}), nil); err != nil {
		return Config{}, errors.Wrap(err, "load env variables failed")
	}

	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (Config, error) {
	cfg := defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config failed")
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate fails fast on anything missing; secrets and the DSN have no fallback.
func (c Config) validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"PORT", c.Port},
		{"DATABASE_URL", c.DatabaseURL},
		{"JWT_SECRET", c.JWTSecret},
		{"ADMIN_EMAIL", c.AdminEmail},
		{"ADMIN_PASSWORD", c.AdminPassword},
		{"FRONTEND_ORIGIN", c.FrontendOrigin},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.Errorf("%s is required", r.key)
		}
	}

	if len(c.JWTSecret) < minJWTSecretLen {
		return errors.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLen)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.AuthRateLimit <= 0 {
		return errors.New("AUTH_RATE_LIMIT must be positive")
	}

	switch c.StorageBackend {
	case StorageLocal:
		if strings.TrimSpace(c.UploadDir) == "" {
			return errors.New("UPLOAD_DIR is required for local storage")
		}
	case StorageMinio:
		if c.Minio.Endpoint == "" || c.Minio.AccessKey == "" || c.Minio.SecretKey == "" || c.Minio.Bucket == "" {
			return errors.New("MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY and MINIO_BUCKET are required for minio storage")
		}
	default:
		return errors.Errorf("unknown STORAGE_BACKEND: %s", c.StorageBackend)
	}

	return nil
}

func (c Config) IsProduction() bool {
	return c.GoEnv == EnvProduction
}

// SecureCookies reports whether session cookies carry the Secure attribute.
func (c Config) SecureCookies() bool {
	if c.CookieSecure != nil {
		return *c.CookieSecure
	}
	return c.IsProduction()
}
