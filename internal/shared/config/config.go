package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const DefaultConfigRelPath = "configs/conf.yml"

// Resolve 定位配置文件：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if !filepath.IsAbs(cfgName) {
			cfgName = filepath.Join(curDir, cfgName)
		}
		if !fileExist(cfgName) {
			return "", fmt.Errorf("config file not exist, configPath=%v", cfgName)
		}
		return cfgName, nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, DefaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config file not exist, searched %s from: %s", DefaultConfigRelPath, startDir)
		}
		dir = parent
	}
}
