// Package config 加载 saltyorm 命令行工具的配置
//
// 优先级从高到低: 环境变量, .env.local, .env, 配置文件 .saltyorm.yaml, 默认值
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/startdusk/saltyorm/orm"
)

const (
	envPrefix  = "SALTYORM"
	configName = ".saltyorm"
)

const (
	keyProvider           = "provider"
	keyDSN                = "dsn"
	keyTesting            = "testing"
	keyLogQueries         = "log_queries"
	keyLogArgs            = "log_args"
	keySlowQueryThreshold = "slow_query_threshold"
	keyColumnCacheSize    = "column_cache_size"
)

var keys = []string{
	keyProvider,
	keyDSN,
	keyTesting,
	keyLogQueries,
	keyLogArgs,
	keySlowQueryThreshold,
	keyColumnCacheSize,
}

type Config struct {
	// Provider sqlite3 或者 mysql
	Provider string
	DSN      string
	// Testing 不查询表结构
	Testing bool

	LogQueries bool
	// LogArgs 日志里打印SQL参数, 可能会泄露敏感数据
	LogArgs bool
	// SlowQueryThreshold 为 0 不记录慢查询
	SlowQueryThreshold time.Duration
	// ColumnCacheSize 为 0 不缓存表字段
	ColumnCacheSize int
}

// Load 读取配置, dirs 是查找配置文件和 .env 的目录, 默认是当前目录和用户目录
// .env 只在第一个目录中查找
func Load(fs afero.Fs, dirs ...string) (*Config, error) {
	if len(dirs) == 0 {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		dirs = []string{".", home, filepath.Join(home, ".config", "saltyorm")}
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault(keyProvider, orm.ProviderSQLite)
	v.SetDefault(keyDSN, "saltyorm.db")
	v.SetDefault(keyTesting, false)
	v.SetDefault(keyLogQueries, false)
	v.SetDefault(keyLogArgs, false)
	v.SetDefault(keySlowQueryThreshold, 100*time.Millisecond)
	v.SetDefault(keyColumnCacheSize, 128)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: 读取配置文件失败: %w", err)
		}
	}

	if err := loadEnvFiles(fs, v, dirs[0]); err != nil {
		return nil, err
	}

	cfg := &Config{
		Provider:           strings.ToLower(v.GetString(keyProvider)),
		DSN:                v.GetString(keyDSN),
		Testing:            v.GetBool(keyTesting),
		LogQueries:         v.GetBool(keyLogQueries),
		LogArgs:            v.GetBool(keyLogArgs),
		SlowQueryThreshold: v.GetDuration(keySlowQueryThreshold),
		ColumnCacheSize:    v.GetInt(keyColumnCacheSize),
	}
	return cfg, cfg.Validate()
}

// loadEnvFiles .env.local 覆盖 .env, 真正的环境变量优先级最高
// 不修改进程的环境变量
func loadEnvFiles(fs afero.Fs, v *viper.Viper, dir string) error {
	vals := make(map[string]string, len(keys))
	for _, name := range []string{".env", ".env.local"} {
		f, err := fs.Open(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		parsed, err := godotenv.Parse(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("config: 解析 %s 失败: %w", name, err)
		}
		for k, val := range parsed {
			vals[k] = val
		}
	}

	for _, key := range keys {
		env := envPrefix + "_" + strings.ToUpper(key)
		if _, ok := os.LookupEnv(env); ok {
			continue
		}
		if val, ok := vals[env]; ok {
			v.Set(key, val)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := orm.DialectOf(c.Provider); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("config: %w: dsn 为空", orm.ErrInvalidArgument)
	}
	if c.ColumnCacheSize < 0 {
		return fmt.Errorf("config: %w: column_cache_size %d", orm.ErrInvalidArgument, c.ColumnCacheSize)
	}
	return nil
}
