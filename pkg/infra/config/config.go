// 指示: miu200521358
// Package config はマージ設定ファイルの読み込みを提供する。
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/miu200521358/mu_pmxmerge/pkg/domain/model"
	"github.com/miu200521358/mu_pmxmerge/pkg/usecase/minteractor"
)

// Config はマージ設定を表す。
type Config struct {
	Append       []string `json:"append"`
	Update       []string `json:"update"`
	LogLevel     string   `json:"log_level"`
	Verbose      bool     `json:"verbose"`
	TextEncoding string   `json:"text_encoding"`
}

// DefaultConfig は既定の設定を返す。
func DefaultConfig() Config {
	return Config{
		Append:   minteractor.DefaultAppendKeys(),
		Update:   minteractor.DefaultUpdateKeys(),
		LogLevel: "info",
	}
}

// Load は設定ファイルを読み込む。パスが空なら既定値を返す。
// ファイルに無い項目は既定値のまま残る。
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("設定ファイルの解析に失敗しました: %s: %w", path, err)
	}
	if _, err := cfg.MergeOptions(); err != nil {
		return Config{}, fmt.Errorf("設定ファイルのポリシーが不正です: %s: %w", path, err)
	}
	if _, _, err := cfg.SaveTextEncoding(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MergeOptions はポリシーキーからマージオプションを組み立てる。
func (c Config) MergeOptions() (minteractor.MergeOptions, error) {
	return minteractor.ParseMergeOptions(c.Append, c.Update)
}

// SaveTextEncoding は保存時のテキストエンコード指定を解決する。
// 未指定の場合は ok=false を返し、ベースのエンコードを引き継ぐ。
func (c Config) SaveTextEncoding() (model.TextEncoding, bool, error) {
	switch strings.ToLower(strings.TrimSpace(c.TextEncoding)) {
	case "":
		return model.TextEncodingUtf16, false, nil
	case "utf16", "utf-16", "utf-16le":
		return model.TextEncodingUtf16, true, nil
	case "utf8", "utf-8":
		return model.TextEncodingUtf8, true, nil
	}
	return model.TextEncodingUtf16, false, fmt.Errorf("テキストエンコード指定が不正です: %s", c.TextEncoding)
}
