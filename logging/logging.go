// Package logging は whiskey コマンドが使う *slog.Logger を組み立てるパッケージ。
// テキスト形式では tint で色付けし、出力先が端末でなければ色を付けない。
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"whiskey/config"
)

// New は設定に従ってロガーを生成する。
func New(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	if cfg.Log.Format == config.FormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !UseColor(w, cfg.Color),
	})), nil
}

// UseColor は出力先 w に色を付けるかどうかを返す。
// "auto" のときは w が端末である場合だけ色を付ける。
func UseColor(w io.Writer, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return IsTerminal(w)
}

// IsTerminal は w が端末（または Cygwin の端末）に繋がっているかを返す。
func IsTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

