package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"multiverse/browser/internal/catalog"
	"multiverse/browser/internal/config"
	"multiverse/browser/internal/domain"
	"multiverse/browser/internal/theme"

	log "github.com/sirupsen/logrus"
)

func main() {
	noColor := flag.Bool("no-color", false, "disable ANSI colors")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: browse [-no-color] [resource]\n\n")
		printResources(flag.CommandLine.Output())
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ApplyLogLevel()

	initial := domain.ResourcePokemon.Path()
	if flag.NArg() > 0 {
		initial = flag.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := catalog.NewClient(cfg.Browser.APIBaseURL, time.Duration(cfg.Browser.Timeout)*time.Second)
	s := &session{
		out:      os.Stdout,
		themes:   theme.NewRegistry(cfg.Themes),
		pageSize: cfg.Browser.PageSize,
		color:    !*noColor,
		open: func(path string) (catalog.Source, error) {
			resource, ok := domain.LookupResource(path)
			if !ok {
				return nil, fmt.Errorf("unknown resource %q, type list", path)
			}
			return catalog.NewSource(client, resource)
		},
	}

	if err := s.run(ctx, os.Stdin, initial); err != nil {
		log.Fatalf("Browser exited with error: %v", err)
	}
}
