// Initializing common application configuration
package config

import (
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	App     AppConfig     `mapstructure:"app"`
	Storage StorageConfig `mapstructure:"storage"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
}

type ServerConfig struct {
	AppVersion  string        `mapstructure:"app_version"`
	Host        string        `mapstructure:"host"`
	Port        string        `mapstructure:"port"`
	Timeout     time.Duration `mapstructure:"timeout"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	Env         string        `mapstructure:"environment"`
	Mode        string        `mapstructure:"mode"`
}

type AppConfig struct {
	FontsDir          string        `mapstructure:"fonts_dir"`
	CatalogPath       string        `mapstructure:"catalog_path"`
	MaxUploadMB       int64         `mapstructure:"max_upload_mb"`
	PreviewDebounceMs int           `mapstructure:"preview_debounce_ms"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
}

type StorageConfig struct {
	BasePath string `mapstructure:"base_path"`
}

type UploadConfig struct {
	SignEndpoint  string `mapstructure:"sign_endpoint"`
	UploadURL     string `mapstructure:"upload_url"`
	APIKey        string `mapstructure:"api_key"`
	Secret        string `mapstructure:"secret"`
	CloudName     string `mapstructure:"cloud_name"`
	OrderEndpoint string `mapstructure:"order_endpoint"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	err := viperInstance.ReadInConfig()

	if err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		log.Fatalf("unable to decode config into struct, %v", err)
		return nil, err
	}
	return &c, nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
