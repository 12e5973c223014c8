// Command devmodel-boot boots the driver model against a firmware tree.
//
// It loads the tree, runs the initcall levels with the sample drivers
// linked in, scans a simulated MDIO bus for PHYs and prints the resulting
// device bindings. With --interactive it then opens a shell for binding,
// unbinding and raising interrupts.
//
// Usage:
//
//	devmodel-boot [flags]
//
// Flags:
//
//	--config string      YAML configuration file
//	--tree string        Firmware tree (.yaml, .hcl or directory)
//	--event-log string   Trace file for driver model events (CBOR)
//	--log-level string   Log level: debug, info, warn, error (default "info")
//	--probe-on-add       Match devices against drivers when registered (default true)
//	--mdio-bus string    Name of the simulated MDIO bus (default "sim-mdio")
//	--interactive        Open a shell after boot
//
// Examples:
//
//	# Boot a YAML board description
//	devmodel-boot --tree board.yaml
//
//	# Boot from a config file and record the trace
//	devmodel-boot --config boot.yaml --event-log boot.dmlog
//
//	# Boot and explore
//	devmodel-boot --tree board.hcl --interactive
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/devmodel/devmodel-go/cmd/devmodel-boot/interactive"
	"github.com/devmodel/devmodel-go/pkg/bus"
	"github.com/devmodel/devmodel-go/pkg/initcall"
	"github.com/devmodel/devmodel-go/pkg/irq"
	"github.com/devmodel/devmodel-go/pkg/log"
	"github.com/devmodel/devmodel-go/pkg/of"
	"github.com/devmodel/devmodel-go/pkg/phy"
	"github.com/devmodel/devmodel-go/pkg/platform"
	_ "github.com/devmodel/devmodel-go/pkg/samples"
)

func main() {
	fs := pflag.NewFlagSet("devmodel-boot", pflag.ExitOnError)
	configFile := fs.String("config", "", "YAML configuration file")

	var flags Config
	fs.StringVar(&flags.Tree, "tree", "", "Firmware tree (.yaml, .hcl or directory)")
	fs.StringVar(&flags.EventLog, "event-log", "", "Trace file for driver model events (CBOR)")
	fs.StringVar(&flags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&flags.ProbeOnDeviceAdd, "probe-on-add", true, "Match devices against drivers when registered")
	fs.StringVar(&flags.MDIO.BusID, "mdio-bus", "sim-mdio", "Name of the simulated MDIO bus")
	fs.BoolVar(&flags.Interactive, "interactive", false, "Open a shell after boot")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	cfg := DefaultConfig()
	if *configFile != "" {
		if err := LoadConfigFile(*configFile, &cfg); err != nil {
			fatalf("%v", err)
		}
	}
	ApplyFlags(fs, flags, &cfg)
	if err := cfg.Validate(); err != nil {
		fatalf("invalid configuration: %v", err)
	}

	if err := run(cfg); err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func run(cfg Config) error {
	level, _ := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Trace sinks: the optional file plus debug-level slog output.
	sinks := []log.Logger{log.NewSlogAdapter(logger)}
	if cfg.EventLog != "" {
		fl, err := log.NewFileLogger(cfg.EventLog)
		if err != nil {
			return fmt.Errorf("failed to create event log: %w", err)
		}
		defer func() {
			if n := fl.Dropped(); n > 0 {
				logger.Warn("trace events dropped", "count", n)
			}
			fl.Close()
		}()
		sinks = append(sinks, fl)
		logger.Info("event logging enabled", "path", cfg.EventLog)
	}
	session := log.NewSession(log.NewMultiLogger(sinks...))
	logger.Info("driver model boot", "boot_id", session.BootID())

	var digest string
	if cfg.Tree != "" {
		tree, err := of.Load(cfg.Tree)
		if err != nil {
			return fmt.Errorf("load tree: %w", err)
		}
		digest, err = tree.Digest()
		if err != nil {
			return fmt.Errorf("digest tree: %w", err)
		}
		of.SetDefault(tree)
		logger.Info("firmware tree loaded", "source", tree.Source(), "nodes", tree.Len(), "digest", digest)
	} else {
		logger.Warn("no firmware tree given, platform bus stays empty")
	}

	busCfg := func(name string) bus.Config {
		return bus.Config{Name: name, ProbeOnDeviceAdd: cfg.ProbeOnDeviceAdd, Logger: logger, Trace: session}
	}
	if err := platform.ConfigureDefault(busCfg(platform.BusName)); err != nil {
		return err
	}
	if err := phy.ConfigureDefault(busCfg(phy.BusName)); err != nil {
		return err
	}
	irq.Default().SetTrace(session)

	table := initcall.Default()
	sim, err := newSimMDIO(cfg.MDIO)
	if err != nil {
		return fmt.Errorf("mdio: %w", err)
	}
	if err := registerMDIOScan(table, phy.Default(), sim, cfg.MDIO, logger); err != nil {
		return err
	}

	seq := initcall.NewSequencer(table, initcall.Options{Logger: logger, Trace: session, TreeDigest: digest})
	if err := seq.Run(); err != nil {
		return fmt.Errorf("boot aborted: %w", err)
	}
	defer table.ExitModules()

	printBindings(os.Stdout, platform.Default(), phy.Default())

	if !cfg.Interactive {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shell, err := interactive.New(interactive.Env{
		Platform:  platform.Default(),
		PHY:       phy.Default(),
		MDIO:      sim,
		IRQ:       irq.Default(),
		Initcalls: table,
		Sequencer: seq,
		Tree:      of.Default(),
	})
	if err != nil {
		return err
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	shell.Run(ctx, cancel)
	return nil
}
