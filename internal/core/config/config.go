package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	Debug bool
	HTTP  HTTP
	Admin AdminHTTP
}

type LogFile struct {
	Enable     bool
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Cookie struct {
	Secure   bool
	SameSite string // "lax" | "strict" | "none"
}

type CORS struct {
	Origins []string
}

type RateLimit struct {
	PerMinute int
	Burst     int
}

type DB struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Redis struct {
	Enable   bool   `mapstructure:"enable"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Config struct {
	App       App
	Log       Log
	JWT       JWT
	Cookie    Cookie
	CORS      CORS
	RateLimit RateLimit
	DB        DB
	Redis     Redis `mapstructure:"redis"`
}

func (c *Config) IsProduction() bool { return c.App.Env == EnvProduction }

// Load reads the YAML config at path (CONFIG_PATH or the local default
// when empty) with APP_-prefixed env overrides. Defaults depend on the
// environment profile: production locks the cookie and CORS down and
// tightens the rate budget.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	env := strings.ToLower(v.GetString("app.env"))
	if env == "" {
		env = EnvDevelopment
	}
	if env != EnvDevelopment && env != EnvProduction {
		return nil, fmt.Errorf("invalid environment %q", env)
	}
	setDefaults(v, env)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.App.Env = env
	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}
	return &c, nil
}

func setDefaults(v *viper.Viper, env string) {
	v.SetDefault("app.name", "Duso API")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 10)
	v.SetDefault("app.http.writetimeoutsec", 20)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)

	v.SetDefault("jwt.issuer", "duso-api")
	// 8 days, the mobile-session default
	v.SetDefault("jwt.accesstokenttlmin", 60*24*8)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxopenconns", 100)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.enable", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")

	v.SetDefault("ratelimit.burst", 0)

	if env == EnvProduction {
		v.SetDefault("app.debug", false)
		v.SetDefault("log.level", "info")
		v.SetDefault("log.json", true)
		v.SetDefault("cookie.secure", true)
		v.SetDefault("cookie.samesite", "strict")
		v.SetDefault("cors.origins", []string{})
		v.SetDefault("ratelimit.perminute", 60)
		v.SetDefault("db.maxopenconns", 100)
	} else {
		v.SetDefault("app.debug", true)
		v.SetDefault("log.level", "debug")
		v.SetDefault("log.json", false)
		v.SetDefault("cookie.secure", false)
		v.SetDefault("cookie.samesite", "lax")
		v.SetDefault("cors.origins", []string{"*"})
		v.SetDefault("ratelimit.perminute", 100)
		v.SetDefault("db.maxopenconns", 50)
	}
}
