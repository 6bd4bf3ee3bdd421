package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/smell-of-curry/ambf-world/ambfworld"
	"github.com/smell-of-curry/ambf-world/ambfworld/command"
	"github.com/smell-of-curry/ambf-world/ambfworld/report"
)

// version is set at build time.
var version = "dev"

// main ...
func main() {
	conf, err := ambfworld.ReadConfig(ambfworld.ConfigPath)
	if err != nil {
		panic(err)
	}

	level, err := ambfworld.ParseLogLevel(conf.AMBFWorld.LogLevel)
	if err != nil {
		slog.Warn("falling back to info logging", "error", err)
	}
	slog.SetLogLoggerLevel(level)
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err = report.Init(conf.AMBFWorld.SentryDsn, conf.AMBFWorld.Environment, version); err != nil {
		log.Error("failed to set up error reporting", "error", err)
	}

	err = command.NewRoot(log, conf).Execute()
	report.Close()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
