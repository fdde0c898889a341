package config

import (
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DBConfig Database configuration
type DBConfig struct {
	Type     string `yaml:"type"` // postgres, sqlite or bolt
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// SysConfig System configuration
type SysConfig struct {
	Appid      string `yaml:"appid"`
	Location   string `yaml:"location"`
	Workdir    string `yaml:"workdir"`
	Debug      bool   `yaml:"debug"`
	PublicHost string `yaml:"public_host"` // absolute base used for relative image paths
	Currency   string `yaml:"currency"`
	Language   string `yaml:"language"`
}

// WebConfig Web server configuration
type WebConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Secret string `yaml:"secret"`
}

// StorageConfig Blob storage for uploaded images
type StorageConfig struct {
	Blob           string `yaml:"blob"` // local or supabase
	SupabaseURL    string `yaml:"supabase_url"`
	SupabaseKey    string `yaml:"supabase_key"`
	SupabaseBucket string `yaml:"supabase_bucket"`
}

// SmtpConfig Outbound email
type SmtpConfig struct {
	Host       string   `yaml:"host"`
	Port       int      `yaml:"port"`
	User       string   `yaml:"user"`
	Passwd     string   `yaml:"passwd"`
	Sender     string   `yaml:"sender"`
	SenderName string   `yaml:"sender_name"`
	Recipients []string `yaml:"recipients"`
}

// AdminConfig The single admin credential. Password may be a bcrypt hash.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// DigestConfig Daily sales digest email
type DigestConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
}

// LogConfig Log configuration
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system"`
	Web      WebConfig     `yaml:"web"`
	Database DBConfig      `yaml:"database"`
	Storage  StorageConfig `yaml:"storage"`
	Smtp     SmtpConfig    `yaml:"smtp"`
	Admin    AdminConfig   `yaml:"admin"`
	Digest   DigestConfig  `yaml:"digest"`
	Logger   LogConfig     `yaml:"logger"`
}

func (c *AppConfig) GetUploadsDir() string {
	return path.Join(c.System.Workdir, "public", "uploads")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

// GetSessionDir holds the server-side storefront sessions
func (c *AppConfig) GetSessionDir() string {
	return path.Join(c.System.Workdir, "data", "sessions")
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.GetUploadsDir(), 0o755)
	_ = os.MkdirAll(c.GetDataDir(), 0o755)
	_ = os.MkdirAll(c.GetSessionDir(), 0o700)
	_ = os.MkdirAll(c.GetLogDir(), 0o755)
}

// SessionMaxAge is the storefront session lifetime in seconds
const SessionMaxAge = 86400 * 30

// DefaultAppConfig is used when no config file exists
var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:      "Storefront",
		Location:   "Asia/Kolkata",
		Workdir:    "/var/storefront",
		Debug:      true,
		PublicHost: "http://localhost:9002",
		Currency:   "₹",
		Language:   "en-IN",
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   9002,
		Secret: "9b6de5cc-0731-4bf1-storefront-d0e1c2b3a4f5",
	},
	Database: DBConfig{
		Type:     "sqlite",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "storefront.db",
		User:     "postgres",
		Passwd:   "postgres",
		MaxConn:  50,
		IdleConn: 5,
		Debug:    false,
	},
	Storage: StorageConfig{
		Blob:           "local",
		SupabaseBucket: "uploads",
	},
	Smtp: SmtpConfig{
		Port:       587,
		SenderName: "PS Essentials",
	},
	Admin: AdminConfig{
		Username: "admin",
		Password: "storefront",
	},
	Digest: DigestConfig{
		Enabled: false,
		Cron:    "0 0 8 * * *",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/storefront/storefront.log",
	},
}

// LoadConfig reads the yaml file (when present) over the defaults and then
// applies STOREFRONT_* environment overrides.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := *DefaultAppConfig
	cfg.Smtp.Recipients = append([]string(nil), DefaultAppConfig.Smtp.Recipients...)

	if cfile == "" {
		cfile = "storefront.yml"
	}
	if data, err := os.ReadFile(cfile); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", cfile)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "read config %s", cfile)
	}

	applyEnv(&cfg)
	cfg.initDirs()
	return &cfg, nil
}

func setEnvValue(name string, f func(v string)) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		f(v)
	}
}

func applyEnv(cfg *AppConfig) {
	setEnvValue("STOREFRONT_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("STOREFRONT_SYSTEM_LOCATION", func(v string) { cfg.System.Location = v })
	setEnvValue("STOREFRONT_SYSTEM_DEBUG", func(v string) { cfg.System.Debug = cast.ToBool(v) })
	setEnvValue("STOREFRONT_PUBLIC_HOST", func(v string) { cfg.System.PublicHost = v })

	setEnvValue("STOREFRONT_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("STOREFRONT_WEB_PORT", func(v string) { cfg.Web.Port = cast.ToInt(v) })
	setEnvValue("STOREFRONT_WEB_SECRET", func(v string) { cfg.Web.Secret = v })

	setEnvValue("STOREFRONT_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("STOREFRONT_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("STOREFRONT_DB_PORT", func(v string) { cfg.Database.Port = cast.ToInt(v) })
	setEnvValue("STOREFRONT_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("STOREFRONT_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("STOREFRONT_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("STOREFRONT_DB_DEBUG", func(v string) { cfg.Database.Debug = cast.ToBool(v) })

	setEnvValue("STOREFRONT_BLOB", func(v string) { cfg.Storage.Blob = v })
	setEnvValue("STOREFRONT_SUPABASE_URL", func(v string) { cfg.Storage.SupabaseURL = v })
	setEnvValue("STOREFRONT_SUPABASE_KEY", func(v string) { cfg.Storage.SupabaseKey = v })
	setEnvValue("STOREFRONT_SUPABASE_BUCKET", func(v string) { cfg.Storage.SupabaseBucket = v })

	setEnvValue("STOREFRONT_SMTP_HOST", func(v string) { cfg.Smtp.Host = v })
	setEnvValue("STOREFRONT_SMTP_PORT", func(v string) { cfg.Smtp.Port = cast.ToInt(v) })
	setEnvValue("STOREFRONT_SMTP_USER", func(v string) { cfg.Smtp.User = v })
	setEnvValue("STOREFRONT_SMTP_PWD", func(v string) { cfg.Smtp.Passwd = v })
	setEnvValue("STOREFRONT_SMTP_SENDER", func(v string) { cfg.Smtp.Sender = v })
	setEnvValue("STOREFRONT_SMTP_RECIPIENTS", func(v string) {
		cfg.Smtp.Recipients = cfg.Smtp.Recipients[:0]
		for _, r := range strings.Split(v, ",") {
			if r = strings.TrimSpace(r); r != "" {
				cfg.Smtp.Recipients = append(cfg.Smtp.Recipients, r)
			}
		}
	})

	setEnvValue("STOREFRONT_ADMIN_USERNAME", func(v string) { cfg.Admin.Username = v })
	setEnvValue("STOREFRONT_ADMIN_PASSWORD", func(v string) { cfg.Admin.Password = v })
	setEnvValue("STOREFRONT_DIGEST_ENABLED", func(v string) { cfg.Digest.Enabled = cast.ToBool(v) })

	setEnvValue("STOREFRONT_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvValue("STOREFRONT_LOGGER_FILE_ENABLE", func(v string) { cfg.Logger.FileEnable = cast.ToBool(v) })
	setEnvValue("STOREFRONT_LOGGER_FILENAME", func(v string) { cfg.Logger.Filename = v })
}
