package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	DB     DBConfig     `mapstructure:"db"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
	Wallet WalletConfig `mapstructure:"wallet"`
	Signer SignerConfig `mapstructure:"signer"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
	GrpcPort string `mapstructure:"grpc_port"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	MQType   string `mapstructure:"mq_type"` // redis / kafka / none
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type WalletConfig struct {
	KeystorePath string `mapstructure:"keystore_path"`
	Password     string `mapstructure:"password"` // 一般用环境变量 WALLET_PASSWORD
	AccountIndex uint32 `mapstructure:"account_index"`
	// StoreBackend spent-utxo 缓存存储: memory / redis / postgres
	StoreBackend string `mapstructure:"store_backend"`
}

type SignerConfig struct {
	// MaxFeeRate 最小货币单位 / vbyte
	MaxFeeRate int64  `mapstructure:"max_fee_rate"`
	PruneSpec  string `mapstructure:"prune_spec"`
}

var Global Config

var (
	storeBackends = map[string]bool{"memory": true, "redis": true, "postgres": true}
	mqTypes       = map[string]bool{"redis": true, "kafka": true, "none": true, "": true}
)

// Init 读取配置到 Global，失败直接退出
func Init() {
	cfg, err := Load(".", "./config")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	Global = *cfg
	log.Printf("config loaded, env=%s store=%s mq=%s", cfg.App.Env, cfg.Wallet.StoreBackend, cfg.Redis.MQType)
}

// Load 按顺序在 paths 中查找 config.yaml；找不到文件时只用默认值和环境变量
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	// wallet.password -> WALLET_PASSWORD
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Printf("config file not found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if !storeBackends[c.Wallet.StoreBackend] {
		return fmt.Errorf("wallet.store_backend: unknown backend %q", c.Wallet.StoreBackend)
	}
	if !mqTypes[c.Redis.MQType] {
		return fmt.Errorf("redis.mq_type: unknown type %q", c.Redis.MQType)
	}
	if c.Signer.MaxFeeRate <= 0 {
		return fmt.Errorf("signer.max_fee_rate must be positive, got %d", c.Signer.MaxFeeRate)
	}
	if c.App.HttpPort == "" {
		return errors.New("app.http_port is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]interface{}{
		"app.env":       "development",
		"app.http_port": "8080",
		"app.grpc_port": "9090",

		"db.host":     "localhost",
		"db.port":     "5432",
		"db.user":     "wallet_user",
		"db.password": "wallet_password",
		"db.name":     "wallet_db",

		"redis.addr":     "localhost:6379",
		"redis.password": "",
		"redis.db":       0,
		"redis.mq_type":  "redis",

		"kafka.brokers": []string{"localhost:9092"},
		"kafka.topic":   "wallet_events_signed_tx",

		"wallet.keystore_path": "wallet.json",
		"wallet.password":      "",
		"wallet.account_index": 0,
		"wallet.store_backend": "memory",

		"signer.max_fee_rate": 100000000,
		"signer.prune_spec":   "@every 1m",
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}
