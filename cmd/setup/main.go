package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/wawa-academy/erp-server/internal/config"
	"github.com/wawa-academy/erp-server/internal/database"
	"github.com/wawa-academy/erp-server/internal/logger"
	"github.com/wawa-academy/erp-server/internal/model"
	"github.com/wawa-academy/erp-server/internal/notion"
	"github.com/wawa-academy/erp-server/internal/repository"
	"github.com/wawa-academy/erp-server/internal/service"
	"github.com/wawa-academy/erp-server/internal/validator"
)

func main() {
	var (
		promptKey bool
		verify    bool
	)
	flag.BoolVar(&promptKey, "prompt-key", false, "Ask for the Notion API key instead of reading it from the file")
	flag.BoolVar(&verify, "verify", true, "Test the document against Notion before storing it")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: setup [flags] <wawa-config.json>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	contents, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read config file")
	}
	if int64(len(contents)) > cfg.MaxConfigBytes {
		log.Fatal().Int64("max_bytes", cfg.MaxConfigBytes).Msg("Config file too large")
	}

	// ─── CLI Input ─────────────────────────────────────────────────────
	if promptKey {
		fmt.Print("Enter Notion API key: ")
		key, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read API key")
		}
		if contents, err = withAPIKey(contents, strings.TrimSpace(string(key))); err != nil {
			log.Fatal().Err(err).Msg("Config file is not a JSON object")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	workspaceService := service.NewWorkspaceService(repository.NewWorkspaceRepository(pool), func(ws *model.Workspace) (*notion.Client, error) {
		return notion.New(ws,
			notion.WithBaseURL(cfg.NotionBaseURL),
			notion.WithVersion(cfg.NotionVersion),
			notion.WithTimeout(cfg.NotionTimeout),
		)
	}, log)

	// ─── Logic ─────────────────────────────────────────────────────────
	if verify {
		report, err := workspaceService.Verify(ctx, contents)
		if err != nil {
			exitWith(err)
		}
		fmt.Printf("Connected as %s\n", report.Bot)
		for _, c := range report.Datasets {
			if c.OK {
				fmt.Printf("  ok    %-16s %s\n", c.Dataset, c.Title)
			} else {
				fmt.Printf("  FAIL  %-16s %s\n", c.Dataset, c.Error)
			}
		}
		if !report.OK {
			fmt.Fprintln(os.Stderr, "Nothing stored: fix the failing databases or rerun with -verify=false")
			os.Exit(1)
		}
	}

	ws, err := workspaceService.LoadConfig(ctx, contents)
	if err != nil {
		exitWith(err)
	}
	sum := ws.Summary()
	fmt.Printf("\nStored workspace %q (key %s, %d databases)\n", sum.AcademyName, sum.APIKeyHint, len(sum.Datasets))
	fmt.Println("Restart the server to pick it up, or upload through the app instead.")
}

// withAPIKey sets notionApiKey in a config document.
func withAPIKey(contents []byte, key string) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(contents, &doc); err != nil {
		return nil, err
	}
	doc["notionApiKey"] = key
	return json.Marshal(doc)
}

func exitWith(err error) {
	var fe *service.FormatError
	if errors.As(err, &fe) {
		fmt.Fprintln(os.Stderr, "Invalid config file:")
		for field, msg := range fe.Fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
	os.Exit(1)
}
