package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

// Environment variables with defaults
type ServerEnvironment struct {

	// http server settings
	Environment           string        `env:"ENVIRONMENT,default=dev"`
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=8080"`
	LogLevel              string        `env:"LOG_LEVEL,default=debug"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	RateLimitRPS          int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst        int32         `env:"RATE_LIMIT_BURST,default=200"`
	MaxRequestBytes       int64         `env:"MAX_REQUEST_BYTES,default=1048576"`

	// database settings
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS,default=4"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS,default=0"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME,default=60m"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME,default=30m"`
	DBConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT,default=5s"`
	DatabasePingTimeout time.Duration `env:"DATABASE_PING_TIMEOUT,default=10s"`

	// blob storage
	AWSRegion       string `env:"AWS_REGION,default=eu-west-2"`
	TemplateBucket  string `env:"BUCKET_TEMPLATES"`
	PassBucket      string `env:"BUCKET_PASSES"`
	TemplatePrefix  string `env:"TEMPLATE_PREFIX,default=template/"`
	TemplateZipKey  string `env:"TEMPLATE_ZIP_KEY,default=template.zip"`
	LocalBlobDir    string `env:"LOCAL_BLOB_DIR"`
	LocalSecretsDir string `env:"LOCAL_SECRETS_DIR"`

	// mail pipeline
	MailQueueURL        string        `env:"MAIL_QUEUE_URL"`
	MailFromAddress     string        `env:"FROM_EMAIL"`
	MailLinkTTL         time.Duration `env:"MAIL_LINK_TTL,default=1h"`
	MailPollWaitSeconds int32         `env:"MAIL_POLL_WAIT_SECONDS,default=20"`

	// push dispatch
	APNSHost            string        `env:"APNS_HOST,default=https://api.push.apple.com"`
	APNSKeyID           string        `env:"APNS_KEY_ID"`
	APNSTeamID          string        `env:"APNS_TEAM_ID"`
	APNSKeySecretName   string        `env:"APNS_KEY_SECRET_NAME,default=/passkit/apnsKey"`
	PushEnabled         bool          `env:"PUSH_ENABLED,default=false"`
	PushConcurrency     int           `env:"PUSH_CONCURRENCY,default=8"`
	PushDispatchTimeout time.Duration `env:"PUSH_DISPATCH_TIMEOUT,default=10s"`

	// pass signing
	SigningCertSecretName string `env:"SIGNING_CERT_SECRET_NAME,default=/passkit/cert"`
	SigningPassSecretName string `env:"SIGNING_PASS_SECRET_NAME,default=/passkit/certPass"`
	WWDRCertSecretName    string `env:"WWDR_CERT_SECRET_NAME,default=/passkit/wwdr"`

	// Required pass distribution configuration
	PassTypeIdentifier string `env:"PASS_TYPE_IDENTIFIER,required=true"`
	WebServiceURL      string `env:"WEB_SERVICE_URL,required=true"`
	DatabaseURL        string `env:"DATABASE_URL,required=true"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

// NewServerConfig loads environment variables and returns a ServerEnvironment struct that contains the values
func NewServerConfig() (*ServerEnvironment, error) {
	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig checks for required env variables
func validateConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}

	// Validate database pool configuration
	if cfg.DBMaxConnections < 1 {
		return fmt.Errorf("DB_MAX_CONNECTIONS must be at least 1")
	}
	if cfg.DBMinConnections < 0 {
		return fmt.Errorf("DB_MIN_CONNECTIONS must be 0 or greater")
	}
	if cfg.DBMinConnections > cfg.DBMaxConnections {
		return fmt.Errorf("DB_MIN_CONNECTIONS (%d) cannot be greater than DB_MAX_CONNECTIONS (%d)",
			cfg.DBMinConnections, cfg.DBMaxConnections)
	}

	if cfg.PushConcurrency < 1 {
		return fmt.Errorf("PUSH_CONCURRENCY must be at least 1")
	}

	// Either the S3 buckets or a local blob directory must be configured.
	if cfg.PassBucket == "" && cfg.LocalBlobDir == "" {
		return fmt.Errorf("either BUCKET_PASSES or LOCAL_BLOB_DIR must be set")
	}
	if cfg.TemplateBucket == "" && cfg.LocalBlobDir == "" {
		return fmt.Errorf("either BUCKET_TEMPLATES or LOCAL_BLOB_DIR must be set")
	}

	if cfg.PushEnabled && (cfg.APNSKeyID == "" || cfg.APNSTeamID == "") {
		return fmt.Errorf("APNS_KEY_ID and APNS_TEAM_ID are required when PUSH_ENABLED=true")
	}

	return nil
}
