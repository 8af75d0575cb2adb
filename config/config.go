package config

import (
	"breadstation_server/structs"
	"errors"
	"strings"
	"sync"
	"time"
)

// DefaultJWTSecret only exists so development works without configuration
const DefaultJWTSecret = "default_jwt_secret"

var ErrInsecureJWTSecret = errors.New("AUTH_JWT_SECRET must be set to a non-default value in production")

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = &structs.Config{
			Server: &structs.ServerConfig{
				AppName:        getEnvAsString("APP_NAME", "BreadStation_no_env"),
				Environment:    getEnvAsString("APP_ENV", "development"),
				Port:           getEnvAsString("APP_PORT", ":8082"),
				PublicURL:      getEnvAsString("PUBLIC_URL", "https://www.breadstationakko.co.il"),
				ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
				WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 60*time.Second),
				IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
				MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
				MaxUploadBytes: int64(getEnvAsInt("SERVER_MAX_UPLOAD_BYTES", 5<<20)),
			},
			Cors: &structs.CorsConfig{
				AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
				AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
				AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
				ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
				AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
				MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
			},
			Database: &structs.DatabaseConfig{
				Host:         getEnvAsString("DB_HOST", "localhost"),
				Port:         getEnvAsInt("DB_PORT", 5432),
				User:         getEnvAsString("DB_USER", "postgres"),
				Password:     getEnvAsString("DB_PASSWORD", "password"),
				Name:         getEnvAsString("DB_NAME", "breadstation_db"),
				SSLMode:      getEnvAsString("DB_SSL_MODE", "disable"),
				MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
				MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
				MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
				MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
				ReadTimeout:  getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
				WriteTimeout: getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
				AutoMigrate:  getEnvAsBool("DB_AUTO_MIGRATE", true),
			},
			Cache: &structs.CacheConfig{
				Address:         getEnvAsString("REDIS_ADDRESS", "localhost:6379"),
				Username:        getEnvAsString("REDIS_USERNAME", ""),
				Password:        getEnvAsString("REDIS_PASSWORD", ""),
				DB:              getEnvAsInt("REDIS_DB", 0),
				PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
				MinIdleConns:    getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
				MaxIdleConns:    getEnvAsInt("REDIS_MAX_IDLE_CONNS", 5),
				PoolTimeout:     getEnvAsTimeDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
				IdleTimeout:     getEnvAsTimeDuration("REDIS_IDLE_TIMEOUT", 5*time.Minute),
				DialTimeout:     getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
				ReadTimeout:     getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
				WriteTimeout:    getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
				MaxRetries:      getEnvAsInt("REDIS_MAX_RETRIES", 3),
				MinRetryBackoff: getEnvAsTimeDuration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
				MaxRetryBackoff: getEnvAsTimeDuration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
				CatalogTTL:      getEnvAsTimeDuration("CACHE_CATALOG_TTL", 5*time.Minute),
				GeocodeTTL:      getEnvAsTimeDuration("CACHE_GEOCODE_TTL", 30*24*time.Hour),
				CartTTL:         getEnvAsTimeDuration("CACHE_CART_TTL", 0),
			},
			Auth: &structs.AuthConfig{
				JWTSecret:   getEnvAsString("AUTH_JWT_SECRET", DefaultJWTSecret),
				AdminEmails: getEnvAsSlice("ADMIN_EMAILS", []string{}),
			},
			Email: &structs.EmailConfig{
				ApiKey:        getEnvAsString("RESEND_API_KEY", ""),
				From:          getEnvAsString("EMAIL_FROM", "Bread Station <orders@breadstationakko.co.il>"),
				OrderNotifyTo: getEnvAsSlice("ORDER_NOTIFY_EMAIL", []string{}),
			},
			RateLimit: &structs.RateLimitConfig{
				Enabled:         getEnvAsBool("RATE_LIMIT_ENABLED", true),
				GeneralLimit:    getEnvAsInt("RATE_LIMIT_GENERAL", 120),
				GeneralWindow:   getEnvAsTimeDuration("RATE_LIMIT_GENERAL_WINDOW", time.Minute),
				ExpensiveLimit:  getEnvAsInt("RATE_LIMIT_EXPENSIVE", 20),
				ExpensiveWindow: getEnvAsTimeDuration("RATE_LIMIT_EXPENSIVE_WINDOW", time.Minute),
				AdminLimit:      getEnvAsInt("RATE_LIMIT_ADMIN", 300),
				AdminWindow:     getEnvAsTimeDuration("RATE_LIMIT_ADMIN_WINDOW", time.Minute),
			},
			Store: &structs.StoreConfig{
				WhatsAppPhone:     getEnvAsString("WHATSAPP_PHONE", "972502670040"),
				OriginLat:         getEnvAsFloat("STORE_ORIGIN_LAT", 32.9276),
				OriginLng:         getEnvAsFloat("STORE_ORIGIN_LNG", 35.0838),
				LocalRadiusKm:     getEnvAsFloat("DELIVERY_LOCAL_RADIUS_KM", 15),
				ServiceRadiusKm:   getEnvAsFloat("DELIVERY_SERVICE_RADIUS_KM", 50),
				RemoteDeliveryFee: getEnvAsFloat("DELIVERY_REMOTE_FEE", 50),
				VATRate:           getEnvAsFloat("VAT_RATE", 0.18),
				LeadTime:          getEnvAsTimeDuration("ORDER_LEAD_TIME", 48*time.Hour),
				Currency:          getEnvAsString("CURRENCY_SYMBOL", "₪"),
			},
			Maps: &structs.MapsConfig{
				ApiKey:   getEnvAsString("GOOGLE_MAPS_API_KEY", ""),
				Language: getEnvAsString("GOOGLE_MAPS_LANGUAGE", "iw"),
				Region:   getEnvAsString("GOOGLE_MAPS_REGION", "il"),
			},
			Encryption: &structs.EncryptionConfig{
				Key: getEnvAsString("ENCRYPTION_KEY", ""),
			},
		}
	})
	return configInstance
}

// ValidateSecrets refuses production configs that still verify admin tokens
// with an empty or well-known secret
func ValidateSecrets(cfg *structs.Config) error {
	if cfg.Server.Environment != "production" {
		return nil
	}
	secret := strings.TrimSpace(cfg.Auth.JWTSecret)
	if secret == "" || secret == DefaultJWTSecret {
		return ErrInsecureJWTSecret
	}
	return nil
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
