package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/matkrin/shtokd/internal/config"
	"github.com/matkrin/shtokd/internal/logger"
	"github.com/matkrin/shtokd/internal/lsp"
	"github.com/matkrin/shtokd/internal/server"
	"github.com/spf13/pflag"
)

const (
	name    = "shtokd"
	version = "0.1.0"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML configuration file")
	logLevel := pflag.String("log-level", "", "log level: debug, info, warn or error")
	logFile := pflag.String("log-file", "", "write logs to this file instead of stderr")
	showVersion := pflag.BoolP("version", "v", false, "print the version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Println(name, version)
		return
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
	if pflag.CommandLine.Changed("log-level") {
		cfg.Logging.Level = *logLevel
	}
	if pflag.CommandLine.Changed("log-file") {
		cfg.Logging.File = *logFile
	}

	closer, err := logger.Init(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR: Cannot open log file:", err)
		os.Exit(1)
	}
	defer closer.Close()
	slog.Info("Logging initialized", "level", cfg.Logging.Level, "positionEncoding", cfg.PositionEncoding)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	scanner.Split(lsp.Split)

	state := server.NewState(*cfg)
	writer := os.Stdout
	server := server.NewServer(name, version, state, writer)

	for scanner.Scan() {
		msg := scanner.Bytes()
		method, contents, err := lsp.DecodeMessage(msg)
		if err != nil {
			slog.Error("ERROR decoding message", "err", err)
			continue
		}
		// The scanner reuses its buffer, and the server reads contents
		// after HandleMessage returns.
		server.HandleMessage(method, append([]byte(nil), contents...))
	}
	if err := scanner.Err(); err != nil {
		slog.Error("ERROR reading stdin", "err", err)
	}
	server.Stop()
}
