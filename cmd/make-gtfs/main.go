package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	makegtfs "github.com/theoremus-urban-solutions/protofeed-to-gtfs"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/config"
	"github.com/theoremus-urban-solutions/protofeed-to-gtfs/protofeed"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	buffer := flag.Float64("buffer", -1, "stop search buffer in meters (overrides config)")
	ndigits := flag.Int("ndigits", -1, "decimal places for output floats (overrides config)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags] SOURCE_DIR TARGET\n\n"+
				"Build a GTFS feed from the protofeed in SOURCE_DIR and write it to\n"+
				"TARGET (a directory, or a .zip archive if TARGET ends in .zip).\n\n",
			os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	source, target := flag.Arg(0), flag.Arg(1)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := makegtfs.NewLogger(os.Stderr, level)

	if err := run(source, target, *configPath, *buffer, *ndigits, log); err != nil {
		log.Error("build failed", "error", err)
		os.Exit(1)
	}
}

func run(source, target, configPath string, buffer float64, ndigits int, log *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if buffer >= 0 {
		cfg.Buffer = buffer
	}
	if ndigits >= 0 {
		cfg.NDigits = ndigits
	}

	pf, err := protofeed.Read(source)
	if err != nil {
		return fmt.Errorf("reading protofeed from %s: %w", source, err)
	}
	log.Info("read protofeed",
		"shapes", len(pf.Shapes),
		"frequencies", len(pf.Frequencies),
		"service_windows", len(pf.ServiceWindows),
		"stops", len(pf.Stops),
		"speed_zones", len(pf.SpeedZones))

	builder := makegtfs.NewBuilder(cfg, makegtfs.WithLogger(log))
	f, err := builder.BuildFeed(pf)
	if err != nil {
		return err
	}

	if err := f.Write(target, cfg.NDigits); err != nil {
		return fmt.Errorf("writing feed to %s: %w", target, err)
	}
	log.Info("wrote feed", "target", target, "trips", len(f.Trips), "stop_times", len(f.StopTimes))
	return nil
}
