package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	LogLevel    string
	AppURL      string
	HTTPTimeout time.Duration
	JWTSecret   string

	DB      DBConfig
	Neynar  NeynarConfig
	Pinata  PinataConfig
	Gen     GeneratorConfig
	Storage StorageConfig
	AWS     AWSConfig
	SMS     SMSConfig
	Email   EmailConfig
}

type DBConfig struct {
	Driver string // "postgres" | "sqlite"
	URL    string
}

type NeynarConfig struct {
	APIKey     string
	SignerUUID string
	BaseURL    string
}

type PinataConfig struct {
	JWT        string
	BaseURL    string
	GatewayURL string
}

type GeneratorConfig struct {
	Provider    string // "openai" | "gemini"
	OpenAIKey   string
	OpenAIModel string
	OpenAIURL   string
	GeminiKey   string
	GeminiModel string
}

type StorageConfig struct {
	Backend  string // "pinata" | "s3"
	S3Bucket string
	S3Region string
	CDNURL   string
}

type AWSConfig struct {
	Region string
}

type SMSConfig struct {
	Enabled  bool
	SenderID string
}

type EmailConfig struct {
	Provider     string // "" disables the channel, "ses" | "smtp"
	From         string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can inject values.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	timeout, err := time.ParseDuration(get("HTTP_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("HTTP_TIMEOUT: %w", err)
	}
	smtpPort, err := strconv.Atoi(get("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("SMTP_PORT: %w", err)
	}
	smsEnabled, err := strconv.ParseBool(get("SMS_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("SMS_ENABLED: %w", err)
	}

	awsRegion := get("AWS_REGION", "us-east-1")
	c := &Config{
		Port:        get("PORT", "8080"),
		LogLevel:    get("LOG_LEVEL", "info"),
		AppURL:      strings.TrimRight(get("APP_URL", "https://rightssphere.app"), "/"),
		HTTPTimeout: timeout,
		JWTSecret:   get("JWT_SECRET", ""),
		DB: DBConfig{
			Driver: strings.ToLower(get("DB_DRIVER", "postgres")),
			URL:    get("DATABASE_URL", ""),
		},
		Neynar: NeynarConfig{
			APIKey:     get("NEYNAR_API_KEY", ""),
			SignerUUID: get("FARCASTER_SIGNER_UUID", ""),
			BaseURL:    get("NEYNAR_API_URL", "https://api.neynar.com/v2"),
		},
		Pinata: PinataConfig{
			JWT:        get("PINATA_JWT", ""),
			BaseURL:    get("PINATA_API_URL", "https://api.pinata.cloud"),
			GatewayURL: get("PINATA_GATEWAY_URL", "https://gateway.pinata.cloud/ipfs"),
		},
		Gen: GeneratorConfig{
			Provider:    strings.ToLower(get("GENERATOR_PROVIDER", "openai")),
			OpenAIKey:   get("OPENAI_API_KEY", ""),
			OpenAIModel: get("OPENAI_MODEL", "gpt-4"),
			OpenAIURL:   get("OPENAI_API_URL", "https://api.openai.com/v1"),
			GeminiKey:   get("GEMINI_API_KEY", ""),
			GeminiModel: get("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Storage: StorageConfig{
			Backend:  strings.ToLower(get("STORAGE_BACKEND", "pinata")),
			S3Bucket: get("S3_BUCKET", ""),
			S3Region: get("S3_REGION", awsRegion),
			CDNURL:   strings.TrimRight(get("CLOUDFRONT_URL", ""), "/"),
		},
		AWS: AWSConfig{Region: awsRegion},
		SMS: SMSConfig{
			Enabled:  smsEnabled,
			SenderID: get("SMS_SENDER_ID", "RightsSph"),
		},
		Email: EmailConfig{
			Provider:     strings.ToLower(get("EMAIL_PROVIDER", "")),
			From:         get("EMAIL_FROM", get("SES_EMAIL", "")),
			SMTPHost:     get("SMTP_HOST", ""),
			SMTPPort:     smtpPort,
			SMTPUsername: get("SMTP_USERNAME", ""),
			SMTPPassword: get("SMTP_PASSWORD", ""),
		},
	}

	if c.DB.URL == "" && getenv("DB_HOST") != "" {
		c.DB.URL = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			getenv("DB_HOST"),
			getenv("DB_USER"),
			getenv("DB_PASSWORD"),
			getenv("DB_NAME"),
			get("DB_PORT", "5432"),
			get("DB_SSLMODE", "require"),
		)
	}
	if c.DB.Driver == "sqlite" && c.DB.URL == "" {
		c.DB.URL = "rightssphere.db"
	}

	return c, c.validate()
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER: unsupported driver %q", c.DB.Driver)
	}
	switch c.Gen.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("GENERATOR_PROVIDER: unsupported provider %q", c.Gen.Provider)
	}
	switch c.Storage.Backend {
	case "pinata", "s3":
	default:
		return fmt.Errorf("STORAGE_BACKEND: unsupported backend %q", c.Storage.Backend)
	}
	switch c.Email.Provider {
	case "", "ses", "smtp":
	default:
		return fmt.Errorf("EMAIL_PROVIDER: unsupported provider %q", c.Email.Provider)
	}
	return nil
}
