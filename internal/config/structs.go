package config

import (
	"time"

	"github.com/apota/mydms-sub010/internal/logger"
)

// Supported gorm engines.
const (
	DBEngineSQLite   = "sqlite"
	DBEnginePostgres = "postgres"
	DBEngineMySQL    = "mysql"
)

// Settings storage backends.
const (
	SettingsBackendSQL      = "sql"
	SettingsBackendDynamoDB = "dynamodb"
)

// Defaults applied by validate when the config leaves them empty.
const (
	DefaultJWTIssuer           = "dms-login-service"
	DefaultJWTAudience         = "dms-clients"
	DefaultAccessTokenExpiry   = 60 * time.Minute
	DefaultRefreshTokenExpiry  = 7 * 24 * time.Hour
	DefaultReportRefreshSpec   = "0 */5 * * * *"
	DefaultDataMartRefreshSpec = "0 0 2 * * *"
	DefaultExportRetention     = 7 * 24 * time.Hour
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver

	// Services maps a service name (settings, crm, gateway, ...) to its listener.
	Services map[string]Service

	Auth      Auth
	Redis     Redis
	Session   Session
	DynamoDB  DynamoDB
	Settings  Settings
	Gateway   Gateway
	Reporting Reporting
}

// DB holds the database configuration settings.
type DB struct {
	GormEngine string // sqlite, postgres or mysql
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string

	// SQLite file path, ":memory:" for tests.
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// RetryCount and RetryMaxDelay bound the connection attempts at start-up.
	RetryCount    int
	RetryMaxDelay time.Duration

	// LogSQL routes every statement to the trace logger.
	LogSQL bool
}

// Webserver implement webserver settings shared by every service.
type Webserver struct {
	CleanPath      bool   // use clean path middleware to allow multi slash requests
	DisableRecover bool   // disable recover middleware
	Domain         string // domain name for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
	BodyLimit      int    // max request body size in bytes
}

// Service holds the listener of one DMS service.
type Service struct {
	Port int
	Host string
}

// Auth implements authentication settings.
type Auth struct {
	JWT  JWT
	LDAP LDAP
	OIDC OIDC
	MFA  MFA

	// DefaultRole is assigned to self registered users.
	DefaultRole string
}

// JWT bearer token settings.
type JWT struct {
	Enabled            bool
	Key                string
	Issuer             string
	Audience           string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// LDAP directory settings.
type LDAP struct {
	Enabled            bool
	URL                string
	BindDN             string
	BindPassword       string
	BaseDN             string
	UserFilter         string
	GroupBaseDN        string
	GroupFilter        string
	GroupMemberAttr    string
	AdminGroup         string
	UseTLS             bool
	StartTLS           bool
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// OIDC single sign on settings.
type OIDC struct {
	Enabled      bool
	ProviderURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// MFA settings.
type MFA struct {
	Issuer     string
	SetupTTL   time.Duration
	SkewPeriod uint
}

// Redis connection settings, an empty Addr disables redis.
type Redis struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// Session settings for the server side session store.
type Session struct {
	Storage    string // memory, postgres or mysql
	Table      string
	ExpiryTime time.Duration
}

// DynamoDB settings.
type DynamoDB struct {
	Region   string
	Endpoint string // local endpoint, e.g. http://localhost:4566
	Table    string
}

// Settings module settings.
type Settings struct {
	Backend string // sql or dynamodb
}

// Gateway settings.
type Gateway struct {
	// Services maps a logical service name to its base url.
	Services map[string]string

	Timeout   time.Duration
	RateLimit RateLimit

	// PublicPaths do not require a bearer token.
	PublicPaths []string
}

// RateLimit per client ip.
type RateLimit struct {
	Enabled    bool
	Max        int
	Expiration time.Duration
	UseRedis   bool
}

// Reporting scheduler settings.
type Reporting struct {
	SchedulerEnabled    bool
	ReportRefreshSpec   string
	DataMartRefreshSpec string
	UseRedisLock        bool
	// ExportFormat of scheduled runs without their own format, csv or json.
	ExportFormat string
	// ExportRetention is how long scheduled exports are kept in the export storage.
	ExportRetention time.Duration
}
