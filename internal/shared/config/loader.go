package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type Options struct {
	// EnvPrefix 非空时启用环境变量覆盖，例如 EMPIRE_ENGINE_AI_COUNT 覆盖 engine.ai_count。
	EnvPrefix string
	// OnChange 非空时监听文件变更，回调里自行 Unmarshal 到新对象。
	OnChange func(v *viper.Viper, e fsnotify.Event)
}

// Load 读取配置文件并解码到 out，返回最终使用的文件路径。
func Load(cfgName string, out any, opts Options) (string, error) {
	path, err := Resolve(cfgName)
	if err != nil {
		return "", err
	}

	v := viper.New()
	v.SetConfigFile(path)
	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(out); err != nil {
		return "", fmt.Errorf("viper unmarshal config data: cast exception, err=%w", err)
	}

	if opts.OnChange != nil {
		v.OnConfigChange(func(e fsnotify.Event) {
			opts.OnChange(v, e)
		})
		v.WatchConfig()
	}
	return path, nil
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
