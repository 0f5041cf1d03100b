package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// database engines
const (
	EngineNone     = ""
	EngineMongoDB  = "mongodb"
	EnginePostgres = "postgres"
	EngineMemory   = "memory"
)

// DemoAdminKey is accepted as admin key in debug mode when none is configured.
const DemoAdminKey = "123456"

type (
	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		StaticDir       string
		ShutdownTimeout time.Duration
		SessionMaxAge   time.Duration
		SecureCookies   bool
	}

	DatabaseConfig struct {
		Engine        string
		URI           string
		Name          string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	CacheConfig struct {
		ListingsTTL time.Duration
	}

	SMTPConfig struct {
		Host     string
		Port     int
		User     string
		Password string
		From     string
	}

	MailConfig struct {
		ContactRecipient string
		DefaultFromEmail string
		SendgridApiKey   string
		SMTP             SMTPConfig
	}

	Config struct {
		AppName         string
		Env             string
		Build           string
		Debug           bool
		TestMode        bool
		FrontendBaseURL string
		SecretKey       string
		AdminKey        string
		RollbarToken    string
		Server          ServerConfig
		Database        DatabaseConfig
		Cache           CacheConfig
		Mail            MailConfig
	}
)

// NewConfig loads the configuration from defaults, `config/.env.<env>` and the environment (prefix SIG).
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "Sig Imobiliare Cluj")
	v.SetDefault("build", "dev")
	v.SetDefault("debug", env == "DEV" || env == "TEST")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("secretKey", "r9#tq2k!v8z$x1@sig-imobiliare&7m^p0w*l4n")
	v.SetDefault("adminKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.staticDir", "")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.sessionMaxAge", 7*24*time.Hour)
	v.SetDefault("server.secureCookies", env == "PROD")

	v.SetDefault("database.engine", EngineNone)
	v.SetDefault("database.uri", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "sig")
	v.SetDefault("database.password", "sig")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "postgres")
	v.SetDefault("database.disableTLS", env == "DEV" || env == "TEST")

	v.SetDefault("cache.listingsTTL", 60*time.Second)

	v.SetDefault("mail.contactRecipient", "")
	v.SetDefault("mail.defaultFromEmail", "Sig Imobiliare Cluj <no-reply@localhost>")
	v.SetDefault("mail.sendgridApiKey", "")
	v.SetDefault("mail.smtp.host", "")
	v.SetDefault("mail.smtp.port", 465)
	v.SetDefault("mail.smtp.user", "")
	v.SetDefault("mail.smtp.password", "")
	v.SetDefault("mail.smtp.from", "")

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix("SIG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		AppName:         v.GetString("appName"),
		Env:             env,
		Build:           v.GetString("build"),
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		SecretKey:       v.GetString("secretKey"),
		AdminKey:        v.GetString("adminKey"),
		RollbarToken:    v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			StaticDir:       v.GetString("server.staticDir"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			SessionMaxAge:   v.GetDuration("server.sessionMaxAge"),
			SecureCookies:   v.GetBool("server.secureCookies"),
		},
		Database: DatabaseConfig{
			Engine:        strings.ToLower(v.GetString("database.engine")),
			URI:           v.GetString("database.uri"),
			Name:          v.GetString("database.name"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Cache: CacheConfig{
			ListingsTTL: v.GetDuration("cache.listingsTTL"),
		},
		Mail: MailConfig{
			ContactRecipient: v.GetString("mail.contactRecipient"),
			DefaultFromEmail: v.GetString("mail.defaultFromEmail"),
			SendgridApiKey:   v.GetString("mail.sendgridApiKey"),
			SMTP: SMTPConfig{
				Host:     v.GetString("mail.smtp.host"),
				Port:     v.GetInt("mail.smtp.port"),
				User:     v.GetString("mail.smtp.user"),
				Password: v.GetString("mail.smtp.password"),
				From:     v.GetString("mail.smtp.from"),
			},
		},
	}
}

// NewTestConfig returns the configuration used by tests: in-memory storage, no outgoing mail.
func NewTestConfig() *Config {
	return &Config{
		AppName:         "Sig Imobiliare Cluj",
		Env:             "TEST",
		Build:           "test",
		Debug:           true,
		TestMode:        true,
		FrontendBaseURL: "http://localhost:3000",
		SecretKey:       "test-secret-key",
		AdminKey:        "admin-key",
		Server: ServerConfig{
			Host:            "localhost",
			Address:         ":0",
			ShutdownTimeout: time.Second,
			SessionMaxAge:   7 * 24 * time.Hour,
		},
		Database: DatabaseConfig{Engine: EngineMemory},
		Cache:    CacheConfig{ListingsTTL: 60 * time.Second},
		Mail: MailConfig{
			ContactRecipient: "office@sig-imobiliare.test",
			DefaultFromEmail: "Sig Imobiliare Cluj <no-reply@localhost>",
		},
	}
}

// EffectiveEngine resolves the database engine; a bare URI implies MongoDB.
func (c DatabaseConfig) EffectiveEngine() string {
	if c.Engine != EngineNone {
		return c.Engine
	}
	if strings.HasPrefix(c.URI, "mongodb://") || strings.HasPrefix(c.URI, "mongodb+srv://") {
		return EngineMongoDB
	}
	if strings.HasPrefix(c.URI, "postgres://") || strings.HasPrefix(c.URI, "postgresql://") {
		return EnginePostgres
	}
	return EngineNone
}

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

// EffectiveAdminKey returns the admin key to check against; empty means admin login is disabled.
func (c *Config) EffectiveAdminKey() string {
	if c.AdminKey == "" && c.Debug {
		return DemoAdminKey
	}
	return c.AdminKey
}

// SMTPConfigured reports whether all the credentials needed to send through SMTP are set.
func (c MailConfig) SMTPConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.User != "" && c.SMTP.Password != ""
}

// FromAddress returns the sender used on outgoing mail.
func (c *Config) FromAddress() mail.Address {
	if c.Mail.SMTP.From != "" {
		if addr, err := mail.ParseAddress(c.Mail.SMTP.From); err == nil {
			return *addr
		}
	}
	if c.Mail.SMTP.User != "" && IsEmailLike(c.Mail.SMTP.User) {
		return mail.Address{Name: c.AppName, Address: c.Mail.SMTP.User}
	}
	if addr, err := mail.ParseAddress(c.Mail.DefaultFromEmail); err == nil {
		return *addr
	}
	return mail.Address{Name: c.AppName, Address: "no-reply@localhost"}
}
