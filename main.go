// whiskey は whiskey 言語のインタプリタ。
// ファイルを実行するか、-e でソースを直接評価するか、引数がなければREPLを起動する。
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"whiskey/config"
	"whiskey/evaluator"
	"whiskey/logging"
	"whiskey/repl"
)

// CLI の設定。設定ファイルの値はフラグで上書きできる。
type cliFlags struct {
	ConfigFile  string
	Expression  string
	Verbose     bool
	NoColor     bool
	TraceParser bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	flags := &cliFlags{}
	fs := flag.NewFlagSet("whiskey", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&flags.ConfigFile, "config", "", "Path to the YAML configuration file (default: ./"+config.FileName+" if present)")
	fs.StringVar(&flags.Expression, "e", "", "Evaluate the given source and print the result")
	fs.BoolVar(&flags.Verbose, "v", false, "Enable debug logging")
	fs.BoolVar(&flags.NoColor, "no-color", false, "Disable coloured output")
	fs.BoolVar(&flags.TraceParser, "trace-parser", false, "Log parser BEGIN/END traces at debug level")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `whiskey - a small dynamically typed scripting language

Usage: whiskey [options] [file ...]

Examples:
  # Start the REPL
  whiskey

  # Evaluate a snippet
  whiskey -e 'var x = 1; x = x + 2; x'

  # Run scripts with debug logging
  whiskey -v script.wsk

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return flags, fs.Args(), nil
}

func loadConfig(flags *cliFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flags.ConfigFile != "" {
		cfg, err = config.Load(flags.ConfigFile)
	} else {
		cfg, err = config.LoadOptional(config.FileName)
	}
	if err != nil {
		return nil, err
	}

	if flags.Verbose {
		cfg.Log.Level = "debug"
	}
	if flags.NoColor {
		cfg.Color = config.ColorNever
	}
	if flags.TraceParser {
		cfg.TraceParser = true
	}
	return cfg, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, files, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := logging.New(stderr, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ip := evaluator.New(
		evaluator.WithLogger(logger),
		evaluator.WithOutput(stdout),
		evaluator.WithParserTrace(cfg.TraceParser),
	)
	defer ip.Close()
	logger.Debug("interpreter started", "session", ip.ID().String())

	red := color.New(color.FgRed)
	if logging.UseColor(stderr, cfg.Color) {
		red.EnableColor()
	} else {
		red.DisableColor()
	}

	switch {
	case flags.Expression != "":
		result := ip.EvalString(flags.Expression)
		if result.Failed() {
			red.Fprintln(stderr, result.Exception.Inspect())
			return 1
		}
		fmt.Fprintln(stdout, result.Value.Inspect())
		return 0

	case len(files) > 0:
		for _, file := range files {
			source, err := os.ReadFile(file)
			if err != nil {
				red.Fprintf(stderr, "Error: %v\n", err)
				return 1
			}
			logger.Debug("running file", "file", file)
			if result := ip.EvalString(string(source)); result.Failed() {
				red.Fprintf(stderr, "%s: %s\n", file, result.Exception.Inspect())
				return 1
			}
		}
		return 0
	}

	opts := repl.Options{
		Prompt:       cfg.Prompt,
		Continuation: cfg.Continuation,
		HistoryPath:  cfg.HistoryPath(),
		Color:        logging.UseColor(stdout, cfg.Color),
		Interpreter:  ip,
	}
	if stdin == os.Stdin && logging.IsTerminal(os.Stdin) && logging.IsTerminal(stdout) {
		err = repl.StartInteractive(opts)
	} else {
		err = repl.Start(stdin, stdout, opts)
	}
	if err != nil {
		red.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
