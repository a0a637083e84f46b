package shared

type ServerConfig struct {
	Vita     VitaConfig     `mapstructure:"vita" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Google   GoogleConfig   `mapstructure:"google"`
	Twilio   TwilioConfig   `mapstructure:"twilio"`
	Smtp     SmtpConfig     `mapstructure:"smtp"`
	Log      LogConfig      `mapstructure:"log"`
}

type VitaConfig struct {
	PrivateKeyPem string         `mapstructure:"privateKeyPem"`
	Cron          CronConfig     `mapstructure:"cron" validate:"required"`
	Listener      ListenerConfig `mapstructure:"listener" validate:"required"`
	Session       SessionConfig  `mapstructure:"session"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite mysql postgres"`
	// DSN is required for every driver except sqlite
	DSN    string `mapstructure:"dsn"`
}

type SqliteConfig struct {
	PassPhrase string `mapstructure:"passPhrase"`
}

type SessionConfig struct {
	// Backend is either "db" (default) or "redis"
	Backend       string `mapstructure:"backend" validate:"omitempty,oneof=db redis"`
	TTLInMinutes  int    `mapstructure:"ttlInMinutes" validate:"omitempty,min=1"`
	SecureCookies bool   `mapstructure:"secureCookies"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GoogleConfig struct {
	ApplicationCredentials string        `mapstructure:"applicationCredentials"`
	Storage                StorageConfig `mapstructure:"storage"`
}

type CronConfig struct {
	TimeZone string `mapstructure:"timeZone" validate:"required"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required"`
}

type StorageConfig struct {
	Bucket                    string `mapstructure:"bucket" validate:"required_with=EnableSqliteBackupAndSync"`
	Prefix                    string `mapstructure:"prefix" validate:"required_with=EnableSqliteBackupAndSync"`
	SqliteBackupSchedule      string `mapstructure:"sqliteBackupSchedule" validate:"required_with=EnableSqliteBackupAndSync"`
	EnableSqliteBackupAndSync bool   `mapstructure:"enableSqliteBackupAndSync"`
}

type TwilioConfig struct {
	AccountSid          string `mapstructure:"accountSid"`
	AuthToken           string `mapstructure:"authToken"`
	MessagingServiceSid string `mapstructure:"messagingServiceSid"`
}

type SmtpConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromName    string `mapstructure:"fromName"`
	FromAddress string `mapstructure:"fromAddress" validate:"omitempty,email"`
}

type LogConfig struct {
	// File, when set, also writes JSON logs to a rotating file
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups"`
}
