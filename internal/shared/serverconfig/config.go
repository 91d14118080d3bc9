package serverconfig

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"EmpireBuilder/internal/shared/config"
)

const EnvPrefix = "EMPIRE"

var (
	mu    sync.RWMutex
	conf  Config
	hooks []func(Config)
)

// Load 读取配置；cfgName 为空时向上查找 configs/conf.yml。
// 文件变更后重新解码并通知 OnChange 注册的回调，解码失败保留旧配置。
func Load(cfgName string) (Config, error) {
	var c Config
	_, err := config.Load(cfgName, &c, config.Options{
		EnvPrefix: EnvPrefix,
		OnChange:  reload,
	})
	if err != nil {
		return Config{}, err
	}
	c.ApplyDefaults()
	mu.Lock()
	conf = c
	mu.Unlock()
	return c, nil
}

// Current 返回最近一次成功加载的配置副本。
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return conf
}

// OnChange 注册热更新回调。
func OnChange(fn func(Config)) {
	if fn == nil {
		return
	}
	mu.Lock()
	hooks = append(hooks, fn)
	mu.Unlock()
}

func reload(v *viper.Viper, _ fsnotify.Event) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return
	}
	c.ApplyDefaults()

	mu.Lock()
	conf = c
	fns := append([]func(Config){}, hooks...)
	mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
