package structs

import "time"

type Config struct {
	Server     *ServerConfig
	Cors       *CorsConfig
	Database   *DatabaseConfig
	Cache      *CacheConfig
	Auth       *AuthConfig
	Email      *EmailConfig
	RateLimit  *RateLimitConfig
	Store      *StoreConfig
	Maps       *MapsConfig
	Encryption *EncryptionConfig
}

type ServerConfig struct {
	AppName        string        // Bread Station
	Environment    string        // development, production
	Port           string        // :8082
	PublicURL      string        // storefront base URL, used for sitemap entries
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
	MaxUploadBytes int64         // CSV import upload limit
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AutoMigrate  bool
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	CatalogTTL      time.Duration
	GeocodeTTL      time.Duration
	CartTTL         time.Duration // 0 keeps carts until cleared
}

type AuthConfig struct {
	JWTSecret   string   // identity provider signing secret (HS256)
	AdminEmails []string // allow-list for the admin API
}

type EmailConfig struct {
	ApiKey        string
	From          string
	OrderNotifyTo []string // empty disables order notification emails
}

type RateLimitConfig struct {
	Enabled         bool
	GeneralLimit    int
	GeneralWindow   time.Duration
	ExpensiveLimit  int
	ExpensiveWindow time.Duration
	AdminLimit      int
	AdminWindow     time.Duration
}

type StoreConfig struct {
	WhatsAppPhone     string  // international format without "+", e.g. 972502670040
	OriginLat         float64 // shop location, distances are measured from here
	OriginLng         float64
	LocalRadiusKm     float64
	ServiceRadiusKm   float64
	RemoteDeliveryFee float64
	VATRate           float64 // 0.18
	LeadTime          time.Duration
	Currency          string
}

type MapsConfig struct {
	ApiKey   string
	Language string
	Region   string
}

type EncryptionConfig struct {
	Key string // 32 bytes, AES-256; empty stores carts in plain JSON
}
