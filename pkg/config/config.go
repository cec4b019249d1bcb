package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App            AppConfig
	Server         ServerConfig
	Database       DatabaseConfig
	JWT            JWTConfig
	Redis          RedisConfig
	Recommendation RecommendationConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type RecommendationConfig struct {
	// redis | memory
	Cache string
	// file | postgres
	ModelStore            string
	ModelPath             string
	CacheTTL              time.Duration
	NeighborCount         int
	InterestBoostMinLevel int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	neighbors, err := getEnvInt("NEIGHBOR_COUNT", 10)
	if err != nil {
		return nil, err
	}
	boostLevel, err := getEnvInt("INTEREST_BOOST_MIN_LEVEL", 5)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "MyBookShelf Recommendations"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Name:        getEnv("DB_NAME", "mybookshelf"),
			SSLMode:     getEnv("DB_SSL_MODE", "disable"),
			AutoMigrate: autoMigrate,
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Recommendation: RecommendationConfig{
			Cache:                 getEnv("RECOMMENDATION_CACHE", "redis"),
			ModelStore:            getEnv("MODEL_STORE", "file"),
			ModelPath:             getEnv("MODEL_PATH", "ml_models/recommendation_model.gob.gz"),
			CacheTTL:              cacheTTL,
			NeighborCount:         neighbors,
			InterestBoostMinLevel: boostLevel,
		},
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	switch cfg.Recommendation.Cache {
	case "redis", "memory":
	default:
		return nil, fmt.Errorf("unknown RECOMMENDATION_CACHE %q", cfg.Recommendation.Cache)
	}

	switch cfg.Recommendation.ModelStore {
	case "file", "postgres":
	default:
		return nil, fmt.Errorf("unknown MODEL_STORE %q", cfg.Recommendation.ModelStore)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
