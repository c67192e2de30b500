// Command order-report prints order ledger statistics as YAML.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Apurer/go-order-bot/internal/app/bot"
	"github.com/Apurer/go-order-bot/internal/domains/reporting/application"
	"github.com/Apurer/go-order-bot/internal/domains/reporting/domain"
)

func main() {
	recent := flag.Int("recent", 0, "also print the latest n orders")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := bot.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ledger, closeLedger, err := bot.BuildLedger(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open order ledger: %v", err)
	}
	defer closeLedger()

	if err := report(ctx, os.Stdout, application.NewService(ledger), *recent); err != nil {
		log.Fatalf("failed to build report: %v", err)
	}
}

func report(ctx context.Context, w io.Writer, reports *application.Service, recent int) error {
	stats, err := reports.Stats(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(stats); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if recent <= 0 {
		return nil
	}
	orders, err := reports.Recent(ctx, recent)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\n%s\n", domain.RenderRecent(orders))
	return err
}
