package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Postgres DBConfig
	Redis    RedisConfig
	S3       S3Config
	Logger   Logger
	Worker   WorkerConfig
	Media    MediaConfig
}

type ServerConfig struct {
	AppVersion string
	Port       string
	Mode       string
}

type WorkerConfig struct {
	// WorkerCount stays deliberately small: ffmpeg saturates cores on its
	// own, so more workers only degrade throughput.
	WorkerCount      int
	QueueSize        int
	MaxCPUUsage      float64
	InvokeTimeoutMin int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	PgDriver string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
}

type S3Config struct {
	Enabled      bool
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	OutputBucket string
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

// MediaConfig holds the filesystem roots and external tool binaries.
// UploadsDir and VariantsDir must live under MediaRoot; AssetsDir is the
// read-only root for overlay/watermark source files.
type MediaConfig struct {
	MediaRoot        string
	AssetsDir        string
	UploadsDir       string
	VariantsDir      string
	FontDir          string
	FfmpegBin        string
	FfprobeBin       string
	MaxOverlayInputs int
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Worker.WorkerCount <= 0 {
		c.Worker.WorkerCount = 2
	}
	if c.Worker.QueueSize <= 0 {
		c.Worker.QueueSize = 64
	}
	if c.Media.FfmpegBin == "" {
		c.Media.FfmpegBin = "ffmpeg"
	}
	if c.Media.FfprobeBin == "" {
		c.Media.FfprobeBin = "ffprobe"
	}
	if c.Media.MaxOverlayInputs <= 0 {
		c.Media.MaxOverlayInputs = 8
	}
}
