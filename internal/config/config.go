package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`

	DBDriver   string `yaml:"db_driver" env:"DB_DRIVER" env-default:"mysql"`
	DBUser     string `yaml:"db_user" env:"DB_USER"`
	DBPassword string `yaml:"db_password" env:"DB_PASSWORD"`
	DBHost     string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort     int    `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBName     string `yaml:"db_name" env:"DB_NAME" env-default:"printshop"`
	ParseTime  bool   `yaml:"parse_time" env-default:"true"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"./printshop.db"`

	// собранный фронтенд; пустая строка или отсутствующая папка - только API
	FrontendDir string `yaml:"frontend_dir" env:"FRONTEND_DIR" env-default:"./frontend-dist"`

	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`

	MasterData `yaml:"master_data"`
	Conversion `yaml:"conversion"`
	Capacity   `yaml:"capacity"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout"  env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout"  env-default:"60s"`
}

type MasterData struct {
	// 0 - снимок перечитывается только по запросу
	ReloadInterval time.Duration `yaml:"reload_interval" env-default:"0s"`
}

type Conversion struct {
	Workers  int           `yaml:"workers" env-default:"4"`
	ClaimTTL time.Duration `yaml:"claim_ttl" env-default:"5m"`
}

type Capacity struct {
	DefaultDailyMinutes float64 `yaml:"default_daily_minutes" env-default:"480"`
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
