// Package config は whiskey コマンドの設定ファイル（YAML）を読み込むパッケージ。
// 設定ファイルがなくても動くように、全ての項目に既定値を持つ。
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName は既定の設定ファイル名。
const FileName = ".whiskey.yaml"

// 出力形式と色付けの設定値。
const (
	FormatText = "text"
	FormatJSON = "json"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config はコマンド全体の設定。
type Config struct {
	Prompt       string `yaml:"prompt"`
	Continuation string `yaml:"continuation"`
	HistoryFile  string `yaml:"history_file"`
	Color        string `yaml:"color"`
	TraceParser  bool   `yaml:"trace_parser"`
	Log          Log    `yaml:"log"`
}

// Log はログ出力の設定。
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default は既定値の設定を返す。
func Default() *Config {
	return &Config{
		Prompt:       ">> ",
		Continuation: ".. ",
		HistoryFile:  "~/.whiskey_history",
		Color:        ColorAuto,
		Log: Log{
			Level:  "info",
			Format: FormatText,
		},
	}
}

// Load は path の設定ファイルを読み込む。
// ファイルに書かれていない項目は既定値のまま残る。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadOptional は path があれば読み込み、なければ既定値を返す。
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse は YAML の内容を既定値の上に重ねて設定を作る。
// path はエラーメッセージにだけ使う。未知のキーはエラーにする。
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate は設定値が取りうる値の範囲にあるかを検査する。
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format must be %q or %q, got %q", FormatText, FormatJSON, c.Log.Format))
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("color must be one of %q, %q, %q, got %q", ColorAuto, ColorAlways, ColorNever, c.Color))
	}
	return errors.Join(errs...)
}

// LogLevel は log.level を slog.Level に変換する。
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// HistoryPath は history_file の先頭の "~" をホームディレクトリに展開したパスを返す。
// 空文字なら履歴を保存しない。
func (c *Config) HistoryPath() string {
	path := c.HistoryFile
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
