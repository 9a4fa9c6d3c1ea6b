package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	shippingcontrollers "github.com/angelmondragon/packfinderz-shipping/api/controllers/shipping"
	"github.com/angelmondragon/packfinderz-shipping/api/controllers/shipping/dto"
	"github.com/angelmondragon/packfinderz-shipping/internal/catalog"
	"github.com/angelmondragon/packfinderz-shipping/internal/shipping"
	"github.com/angelmondragon/packfinderz-shipping/pkg/config"
	"github.com/angelmondragon/packfinderz-shipping/pkg/db"
	pkgerrors "github.com/angelmondragon/packfinderz-shipping/pkg/errors"
	"github.com/angelmondragon/packfinderz-shipping/pkg/logger"
	"github.com/angelmondragon/packfinderz-shipping/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "quote", Output: os.Stderr})
	_ = godotenv.Load()

	file := flag.String("file", "", "quote request JSON (defaults to stdin)")
	seedFile := flag.String("seed", "", "catalog fixture JSON imported before quoting")
	runMigrations := flag.Bool("migrate", false, "apply the embedded migrations before quoting")
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "quote",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		Output:      os.Stderr,
	})

	if err := run(cfg, logg, *file, *seedFile, *runMigrations, *pretty, os.Stdout); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			fmt.Fprintf(os.Stderr, "%s: %s %v\n", typed.Code(), typed.Message(), typed.Details())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger, file, seedFile string, runMigrations, pretty bool, out io.Writer) error {
	ctx := context.Background()

	payload, err := readRequest(file)
	if err != nil {
		return err
	}

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer client.Close()

	if runMigrations {
		sqlDB, err := client.SQL()
		if err != nil {
			return err
		}
		if err := migrate.Run(ctx, sqlDB, migrate.Dialect(cfg.DB.Driver), "", "up"); err != nil {
			return err
		}
	}

	if seedFile != "" {
		if err := seed(ctx, client, seedFile); err != nil {
			return err
		}
	}

	svc, err := shipping.NewService(catalog.NewRepository(client.DB()), logg, nil)
	if err != nil {
		return err
	}
	result, err := svc.Quote(ctx, shippingcontrollers.ToQuoteInput(payload))
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(shippingcontrollers.NewQuoteResponse(result))
}

func readRequest(path string) (dto.QuoteRequest, error) {
	var in io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return dto.QuoteRequest{}, err
		}
		defer f.Close()
		in = f
	}

	var payload dto.QuoteRequest
	decoder := json.NewDecoder(in)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return dto.QuoteRequest{}, fmt.Errorf("decode quote request: %w", err)
	}
	return payload, nil
}

func seed(ctx context.Context, client *db.Client, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fixture, err := catalog.DecodeFixture(f)
	if err != nil {
		return err
	}
	return catalog.Import(ctx, client, fixture)
}
