package configuration

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"mediastore/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Jwt         Jwt         `json:"jwt"`
	Cookie      Cookie      `json:"cookie"`
	Frontend    Frontend    `json:"frontend"`
	Tenant      Tenant      `json:"tenant"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	R2          R2          `json:"r2"`
	OAuth       OAuth       `json:"oauth"`
	Captcha     Captcha     `json:"captcha"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	Events      Events      `json:"events"`
	Cleanup     Cleanup     `json:"cleanup"`
	Cors        Cors        `json:"cors"`
	RateLimit   RateLimit   `json:"rateLimit"`
}

type App struct {
	Port        int    `json:"port"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

type Jwt struct {
	Secret            string `json:"secret"`
	AccessTTLSeconds  int    `json:"accessTtlSeconds"`
	RefreshTTLSeconds int    `json:"refreshTtlSeconds"`
}

func (j Jwt) AccessTTL() time.Duration  { return time.Duration(j.AccessTTLSeconds) * time.Second }
func (j Jwt) RefreshTTL() time.Duration { return time.Duration(j.RefreshTTLSeconds) * time.Second }

// Cookie configures the refresh-session cookie.
type Cookie struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Secure bool   `json:"secure"`
}

type Frontend struct {
	BaseURI string `json:"baseUri"`
}

type Tenant struct {
	Default    string            `json:"default"`
	RootDomain string            `json:"rootDomain"`
	Domains    map[string]string `json:"domains"`
}

type Database struct {
	Psql  Db `json:"psql"`
	MySql Db `json:"mysql"`
	Mongo Db `json:"mongo"`
	Mssql Db `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	URI      string `json:"uri"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// R2 holds Cloudflare R2 (S3 compatible) credentials.
type R2 struct {
	AccountID       string `json:"accountId"`
	Endpoint        string `json:"endpoint"`
	Region          string `json:"region"`
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	Bucket          string `json:"bucket"`
}

func (r R2) Enabled() bool { return r.Bucket != "" && r.AccessKeyID != "" }

type OAuth struct {
	X      OAuthClient `json:"x"`
	Google OAuthClient `json:"google"`
}

type OAuthClient struct {
	ClientID     string   `json:"clientId"`
	ClientSecret string   `json:"clientSecret"`
	RedirectURI  string   `json:"redirectURI"`
	Scopes       []string `json:"scopes"`
}

func (o OAuthClient) Enabled() bool { return o.ClientID != "" && o.ClientSecret != "" }

type Captcha struct {
	Secret    string `json:"secret"`
	VerifyURL string `json:"verifyUrl"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
}

// Events selects where asset-uploaded notifications go: "pubsub", "servicebus" or "" for none.
type Events struct {
	Backend string `json:"backend"`
	Topic   string `json:"topic"`
}

type Cleanup struct {
	Secret          string `json:"secret"`
	IntervalMinutes int    `json:"intervalMinutes"`
	LockTTLSeconds  int    `json:"lockTtlSeconds"`
}

func (c Cleanup) Interval() time.Duration { return time.Duration(c.IntervalMinutes) * time.Minute }
func (c Cleanup) LockTTL() time.Duration  { return time.Duration(c.LockTTLSeconds) * time.Second }

// RateLimit is a per-client-IP token bucket for the unauthenticated write endpoints.
type RateLimit struct {
	PerSecond float64 `json:"perSecond"`
	Burst     int     `json:"burst"`
}

type Cors struct {
	AllowedOrigins []string `json:"allowedOrigins"`
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initSecurity(&C)
	initIntegrations(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().WithField("name", name).Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	C.Database.Mongo.URI = getConfigValue(C.Database.Mongo.URI, "MONGO_URI", "")
	C.Database.Mongo.Host = getConfigValue(C.Database.Mongo.Host, "MONGO_HOST", "localhost")
	C.Database.Mongo.Port = getConfigValue(C.Database.Mongo.Port, "MONGO_PORT", "27017")
	C.Database.Mongo.Name = getConfigValue(C.Database.Mongo.Name, "MONGO_DB_NAME", "mediastore")

	C.Database.Psql.Name = getConfigValue(C.Database.Psql.Name, "DB_NAME", "")
	C.Database.Psql.Host = getConfigValue(C.Database.Psql.Host, "DB_HOST", "")
	C.Database.Psql.Port = getConfigValue(C.Database.Psql.Port, "DB_PORT", "5432")
	C.Database.Psql.User = getConfigValue(C.Database.Psql.User, "DB_USER", "")
	C.Database.Psql.Password = getConfigValue(C.Database.Psql.Password, "DB_PASSWORD", "")

	// Azure SQL in production
	C.Database.Mssql.Name = getConfigValue(C.Database.Mssql.Name, "MSSQL_DB_NAME", "")
	C.Database.Mssql.Host = getConfigValue(C.Database.Mssql.Host, "MSSQL_HOST", "localhost")
	C.Database.Mssql.Port = getConfigValue(C.Database.Mssql.Port, "MSSQL_PORT", "1433")
	C.Database.Mssql.User = getConfigValue(C.Database.Mssql.User, "MSSQL_USER", "")
	C.Database.Mssql.Password = getConfigValue(C.Database.Mssql.Password, "MSSQL_PASSWORD", "")

	C.Database.MySql.Name = getConfigValue(C.Database.MySql.Name, "MYSQL_DB_NAME", "")
	C.Database.MySql.Host = getConfigValue(C.Database.MySql.Host, "MYSQL_HOST", "")
	C.Database.MySql.Port = getConfigValue(C.Database.MySql.Port, "MYSQL_PORT", "3306")
	C.Database.MySql.User = getConfigValue(C.Database.MySql.User, "MYSQL_USER", "")
	C.Database.MySql.Password = getConfigValue(C.Database.MySql.Password, "MYSQL_PASSWORD", "")

	C.RedisClient.Host = getConfigValue(C.RedisClient.Host, "REDIS_HOST", "")
	C.RedisClient.Port = getConfigValue(C.RedisClient.Port, "REDIS_PORT", "6379")
	C.RedisClient.Password = getConfigValue(C.RedisClient.Password, "REDIS_PASSWORD", "")
}

func initApp(C *Config) {
	// APP_PORT -> PORT -> config -> 8080
	if v := getEnv("APP_PORT", os.Getenv("PORT")); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 8080
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			C.App.TLSEnabled = b
		}
	}
	C.App.TLSCertFile = getConfigValue(C.App.TLSCertFile, "TLS_CERT_FILE", "")
	C.App.TLSKeyFile = getConfigValue(C.App.TLSKeyFile, "TLS_KEY_FILE", "")

	C.Frontend.BaseURI = strings.TrimRight(getConfigValue(C.Frontend.BaseURI, "FRONTEND_BASE_URI", "http://localhost:3000"), "/")

	C.Tenant.Default = getConfigValue(C.Tenant.Default, "TENANT_DEFAULT", "earnlumens")
	C.Tenant.RootDomain = getConfigValue(C.Tenant.RootDomain, "TENANT_ROOT_DOMAIN", "earnlumens.org")

	if C.RateLimit.PerSecond <= 0 {
		C.RateLimit.PerSecond = 2
	}
	if C.RateLimit.Burst <= 0 {
		C.RateLimit.Burst = 10
	}

	if len(C.Cors.AllowedOrigins) == 0 {
		C.Cors.AllowedOrigins = []string{C.Frontend.BaseURI}
	}
}

func initSecurity(C *Config) {
	// JWT_SECRET wins over the config file.
	if v := os.Getenv("JWT_SECRET"); v != "" {
		C.Jwt.Secret = v
	}
	if C.Jwt.AccessTTLSeconds <= 0 {
		C.Jwt.AccessTTLSeconds = 15 * 60
	}
	if C.Jwt.RefreshTTLSeconds <= 0 {
		C.Jwt.RefreshTTLSeconds = 14 * 24 * 60 * 60
	}

	C.Cookie.Name = getConfigValue(C.Cookie.Name, "COOKIE_NAME", "refresh_token")
	C.Cookie.Domain = getConfigValue(C.Cookie.Domain, "COOKIE_DOMAIN", "")
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			C.Cookie.Secure = b
		}
	}

	C.Cleanup.Secret = getConfigValue(C.Cleanup.Secret, "CLEANUP_SECRET", "")
	if C.Cleanup.LockTTLSeconds <= 0 {
		C.Cleanup.LockTTLSeconds = 10 * 60
	}

	C.Captcha.Secret = getConfigValue(C.Captcha.Secret, "HCAPTCHA_SECRET", "")
	C.Captcha.VerifyURL = getConfigValue(C.Captcha.VerifyURL, "HCAPTCHA_VERIFY_URL", "https://hcaptcha.com/siteverify")
}

func initIntegrations(C *Config) {
	C.R2.AccountID = getConfigValue(C.R2.AccountID, "R2_ACCOUNT_ID", "")
	C.R2.Endpoint = getConfigValue(C.R2.Endpoint, "R2_ENDPOINT", "")
	C.R2.Region = getConfigValue(C.R2.Region, "R2_REGION", "auto")
	C.R2.AccessKeyID = getConfigValue(C.R2.AccessKeyID, "R2_ACCESS_KEY_ID", "")
	C.R2.SecretAccessKey = getConfigValue(C.R2.SecretAccessKey, "R2_SECRET_ACCESS_KEY", "")
	C.R2.Bucket = getConfigValue(C.R2.Bucket, "R2_BUCKET", "")

	C.OAuth.X.ClientID = getConfigValue(C.OAuth.X.ClientID, "X_CLIENT_ID", "")
	C.OAuth.X.ClientSecret = getConfigValue(C.OAuth.X.ClientSecret, "X_CLIENT_SECRET", "")
	C.OAuth.X.RedirectURI = getConfigValue(C.OAuth.X.RedirectURI, "X_REDIRECT_URI", "")
	C.OAuth.Google.ClientID = getConfigValue(C.OAuth.Google.ClientID, "GOOGLE_CLIENT_ID", "")
	C.OAuth.Google.ClientSecret = getConfigValue(C.OAuth.Google.ClientSecret, "GOOGLE_CLIENT_SECRET", "")
	C.OAuth.Google.RedirectURI = getConfigValue(C.OAuth.Google.RedirectURI, "GOOGLE_REDIRECT_URI", "")

	C.Pubsub.ProjectID = getConfigValue(C.Pubsub.ProjectID, "PUBSUB_PROJECT_ID", "")
	C.ServiceBus.Namespace = getConfigValue(C.ServiceBus.Namespace, "SERVICEBUS_NAMESPACE", "")
	C.Events.Backend = strings.ToLower(getConfigValue(C.Events.Backend, "EVENTS_BACKEND", ""))
	C.Events.Topic = getConfigValue(C.Events.Topic, "EVENTS_TOPIC", "asset-uploaded")

	if v := os.Getenv("CLEANUP_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			C.Cleanup.IntervalMinutes = n
		}
	}
}

// MinSecretBytes is the smallest accepted HS256 key (256 bits).
const MinSecretBytes = 32

// Validate reports every missing or unsafe setting the service cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Jwt.Secret) < MinSecretBytes {
		errs = append(errs, fmt.Errorf("jwt.secret must be at least %d bytes", MinSecretBytes))
	}
	if c.Cookie.Name == "" {
		errs = append(errs, errors.New("cookie.name is required"))
	}
	if c.Cleanup.Secret == "" {
		errs = append(errs, errors.New("cleanup.secret is required"))
	}
	if c.R2.Bucket != "" && c.R2.AccountID == "" && c.R2.Endpoint == "" {
		errs = append(errs, errors.New("r2.accountId or r2.endpoint is required when r2.bucket is set"))
	}
	switch c.Events.Backend {
	case "", "pubsub", "servicebus":
	default:
		errs = append(errs, fmt.Errorf("events.backend %q is not supported", c.Events.Backend))
	}
	return errors.Join(errs...)
}

func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" {
		return configValue
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
