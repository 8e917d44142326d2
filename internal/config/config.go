package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from flags, env and config files.
type Config struct {
	Server struct {
		Addr string
	}
	API struct {
		BaseURL string
		Timeout time.Duration
	}
	Store struct {
		Driver string
		Path   string
	}
	Redis struct {
		Addr      string
		Password  string
		DB        int
		KeyPrefix string
	}
	Session struct {
		OfflinePolicy string
	}
	Log struct {
		Level string
	}
}

// Load reads configuration from command line args, environment variables and
// an optional config file. Flags win over env, env over the file.
func Load(args []string) (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("INVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "127.0.0.1:3000")
	v.SetDefault("api.baseurl", "http://localhost:8000")
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "data/credentials.db")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.keyprefix", "inventory:")
	v.SetDefault("session.offlinepolicy", "optimistic")
	v.SetDefault("log.level", "info")

	flags := pflag.NewFlagSet("inventory-console", pflag.ContinueOnError)
	flags.String("addr", "", "listen address of the web console")
	flags.String("api", "", "base URL of the inventory API")
	flags.String("store", "", "credential store driver (sqlite or redis)")
	flags.String("offline-policy", "", "session handling when the API is unreachable (optimistic or strict)")
	flags.String("config", "", "path to a config file")
	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}
	for key, name := range map[string]string{
		"server.addr":           "addr",
		"api.baseurl":           "api",
		"store.driver":          "store",
		"session.offlinepolicy": "offline-policy",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		_ = v.ReadInConfig() // optional file
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	switch cfg.Store.Driver {
	case "sqlite", "redis":
	default:
		return Config{}, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return cfg, nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
