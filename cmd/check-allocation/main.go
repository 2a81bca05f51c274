package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"allocation-backend/internal/app"
	"allocation-backend/internal/config"
	"allocation-backend/internal/resolver"
)

// One-shot resolver: resolves a single identity from the command line and
// prints the result as JSON. Progress goes to stderr so stdout stays
// machine-readable.
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	identity := flag.String("identity", "", "address or name to resolve")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall deadline")
	flag.Parse()

	if *identity == "" {
		fmt.Fprintln(os.Stderr, "usage: check-allocation -identity <address-or-name> [-config config.yaml]")
		os.Exit(2)
	}

	logrus.SetOutput(os.Stderr)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	container, err := app.NewContainer(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize services")
	}
	defer container.Close()

	sink := resolver.ProgressFunc(func(stage string) {
		fmt.Fprintf(os.Stderr, "... %s\n", stage)
	})

	result, err := container.Engine.Resolve(ctx, *identity, sink)
	if err != nil {
		logrus.WithError(err).Fatal("resolution failed")
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}
