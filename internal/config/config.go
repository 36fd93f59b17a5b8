package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Notify    NotifyConfig    `mapstructure:"notify"    validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// Timezone is the IANA zone used for task timestamps (created_at,
	// updated_at and change-history records).
	Timezone string `mapstructure:"timezone" validate:"required"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// TokenLifetimeMinutes bounds how long issued tokens stay valid.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// NotifyConfig contains outbound notification settings.
type NotifyConfig struct {
	SlackWebhookURL   string `mapstructure:"slack_webhook_url"   validate:"required,url"`
	MailerSendAPIKey  string `mapstructure:"mailersend_api_key"  validate:"required"`
	MailerSendBaseURL string `mapstructure:"mailersend_base_url" validate:"required,url"`
	EmailFromName     string `mapstructure:"email_from_name"     validate:"required"`
	EmailFrom         string `mapstructure:"email_from"          validate:"required,email"`
	EmailReplyTo      string `mapstructure:"email_reply_to"      validate:"required,email"`
}

// SchedulerConfig contains reminder scheduling settings.
type SchedulerConfig struct {
	// ReminderLeadMinutes is how long before a task's due date the
	// overdue reminder fires.
	ReminderLeadMinutes int `mapstructure:"reminder_lead_minutes" validate:"required,gt=0"`
}

// KafkaConfig contains settings for the audit-event publisher.
// The publisher is optional; when Enabled is false change history goes
// to the structured log only.
type KafkaConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Brokers    []string `mapstructure:"brokers"     validate:"required_if=Enabled true"`
	AuditTopic string   `mapstructure:"audit_topic" validate:"required_if=Enabled true"`
}
