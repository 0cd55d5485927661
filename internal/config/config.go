package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"

	"daystrip/internal/datewindow"
)

const (
	AppName               = "daystrip"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tasks.db"
)

type Keymap struct {
	Left      string `toml:"left" validate:"required"`
	Right     string `toml:"right" validate:"required"`
	PageLeft  string `toml:"page_left" validate:"required"`
	PageRight string `toml:"page_right" validate:"required"`
	Today     string `toml:"today" validate:"required"`
	Seek      string `toml:"seek" validate:"required"`
	Confirm   string `toml:"confirm" validate:"required"`
	Cancel    string `toml:"cancel" validate:"required"`
	Quit      string `toml:"quit" validate:"required"`
	Help      string `toml:"help" validate:"required"`
}

type Strip struct {
	BackDays         int  `toml:"back_days" validate:"gte=0"`
	ForwardDays      int  `toml:"forward_days" validate:"gte=0"`
	Margin           int  `toml:"margin" validate:"gte=0,ltfield=Batch"`
	Batch            int  `toml:"batch" validate:"gt=0"`
	ItemWidth        int  `toml:"item_width" validate:"gte=5"`
	DeferCorrections bool `toml:"defer_corrections"`
	SettleDelayMS    int  `toml:"settle_delay_ms" validate:"gte=0"`
}

type Config struct {
	DBPath  string `toml:"db_path" validate:"required"`
	LogFile string `toml:"log_file"`
	Strip   Strip  `toml:"strip"`
	Keys    Keymap `toml:"keys"`
}

func (s Strip) Params() datewindow.Params {
	return datewindow.Params{
		BackDays:    s.BackDays,
		ForwardDays: s.ForwardDays,
		Margin:      s.Margin,
		Batch:       s.Batch,
	}
}

// ResolveConfigPath returns $XDG_CONFIG_HOME/daystrip/config.toml (or the
// platform equivalent), falling back to the working directory.
func ResolveConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	if cfg.DBPath, err = homedir.Expand(cfg.DBPath); err != nil {
		return cfg, err
	}
	if cfg.LogFile, err = homedir.Expand(cfg.LogFile); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	return validate.Struct(c)
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	p := datewindow.DefaultParams()
	return Config{
		DBPath: filepath.Join(dir, DefaultDBName),
		Strip: Strip{
			BackDays:      p.BackDays,
			ForwardDays:   p.ForwardDays,
			Margin:        p.Margin,
			Batch:         p.Batch,
			ItemWidth:     7,
			SettleDelayMS: 150,
		},
		Keys: Keymap{
			Left:      "h",
			Right:     "l",
			PageLeft:  "H",
			PageRight: "L",
			Today:     "t",
			Seek:      "g",
			Confirm:   "enter",
			Cancel:    "esc",
			Quit:      "q",
			Help:      "?",
		},
	}
}
