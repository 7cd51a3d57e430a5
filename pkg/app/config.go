package app

import (
	"crypto/rand"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	// Embedded zone database so America/Sao_Paulo resolves on minimal hosts.
	_ "time/tzdata"
)

// Config is read from VENDAS_* environment variables; command-line flags win.
type Config struct {
	Port          int    `envconfig:"PORT" default:"8765"`
	SettingsPath  string `envconfig:"SETTINGS_PATH" default:"vendas.db"`
	SessionSecret string `envconfig:"SESSION_SECRET"`
	SheetsOpaque  bool   `envconfig:"SHEETS_OPAQUE" default:"true"`
	Location      string `envconfig:"LOCATION" default:"America/Sao_Paulo"`
	LogMode       string `envconfig:"LOG_MODE" default:"development"`
	LogFile       string `envconfig:"LOG_FILE"`
}

const envPrefix = "vendas"

func configFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "read environment")
	}
	return cfg, nil
}

// loadConfig reads the environment and applies any flags given on the command line.
func loadConfig(c *cli.Context) (Config, error) {
	cfg, err := configFromEnv()
	if err != nil {
		return Config{}, err
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("settings-path") {
		cfg.SettingsPath = c.String("settings-path")
	}
	if c.IsSet("log-mode") {
		cfg.LogMode = c.String("log-mode")
	}
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, errors.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

// location resolves the configured zone, falling back to the host zone.
func (c Config) location() *time.Location {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		zap.S().Errorf("timezone %q not found, using %s", c.Location, time.Local)
		return time.Local
	}
	return loc
}

// sessionSecret returns the configured secret, or a random one that lasts until restart.
func (c Config) sessionSecret() ([]byte, error) {
	if c.SessionSecret != "" {
		return []byte(c.SessionSecret), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, errors.Wrap(err, "generate session secret")
	}
	zap.S().Warn("VENDAS_SESSION_SECRET is not set; open forms will be lost on restart")
	return secret, nil
}

// newLogger builds the zap logger. With a log file set, JSON goes to a rotating
// file and console output to stdout.
func newLogger(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.LogMode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	if cfg.LogFile == "" {
		logger, err := zapConfig.Build(zap.AddCaller())
		if err != nil {
			return nil, errors.Wrap(err, "build logger")
		}
		return logger, nil
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     30,
		Compress:   false,
	}
	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotating),
			zapConfig.Level,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			zapConfig.Level,
		),
	)
	return zap.New(core, zap.AddCaller()), nil
}
