// grana is the conversational finance tracker: a terminal chat with a
// Gemini-backed assistant that records and queries transactions through
// validated tools.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"grana/internal/agent"
	"grana/internal/cache"
	"grana/internal/checkpoint"
	"grana/internal/config"
	"grana/internal/core"
	"grana/internal/log"
	"grana/internal/services"
	"grana/internal/storage"
	"grana/internal/tools"
)

// errQuit signals a clean REPL exit through the errgroup.
var errQuit = errors.New("quit")

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "grana:", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional: local development convenience.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.StoreDBPath)
	if err != nil {
		return fmt.Errorf("open transaction store: %w", err)
	}
	defer repo.Close()

	svc, err := services.NewFinanceService(ctx, repo, loc)
	if err != nil {
		return fmt.Errorf("init finance service: %w", err)
	}

	store, err := checkpoint.NewStore(cfg.CheckpointDBPath, cfg.HistoryCacheSize, cfg.HistoryCacheTTL)
	if err != nil {
		return fmt.Errorf("open checkpoint store: %w", err)
	}
	defer store.Close()

	janitor := cache.NewJanitor(store.HistoryCache())
	janitor.Start(cfg.HistoryCacheTTL)
	defer janitor.Stop()

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return fmt.Errorf("init gemini client: %w", err)
	}

	userID := cfg.UserID()
	toolset := tools.New(svc, userID)

	// Resume the latest thread when one exists; otherwise mint a new one.
	threadID, err := store.LatestThread(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		threadID = checkpoint.NewThreadID(userID)
	} else if err != nil {
		return err
	}

	newAssistant := func(threadID string) (*agent.Assistant, error) {
		if err := store.CreateThread(ctx, threadID, userID); err != nil {
			return nil, err
		}
		a := agent.New(agent.Options{
			ModelName: cfg.ModelName,
			UserName:  cfg.UserName,
			Location:  loc,
			Functions: toolset.Functions(),
			Store:     store,
			ThreadID:  threadID,
			Logger:    logger.WithComponent(log.ComponentAgent),
		})
		if err := a.Start(ctx, client); err != nil {
			return nil, err
		}
		return a, nil
	}

	assistant, err := newAssistant(threadID)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "chat ready",
		log.FieldOperation, log.OpStartup,
		log.FieldUserID, userID,
		log.FieldThreadID, assistant.ThreadID(),
		log.FieldModel, cfg.ModelName)

	fmt.Printf("Olá, %s! Comandos: /id, /nova, /sair\n", cfg.UserName)

	lines := make(chan string)
	g, ctx := errgroup.WithContext(ctx)

	// Stdin reader. Closing os.Stdin (see below) unblocks Scan.
	g.Go(func() error {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})

	// Unblock the reader when the group winds down.
	g.Go(func() error {
		<-ctx.Done()
		os.Stdin.Close()
		return nil
	})

	// REPL.
	g.Go(func() error {
		for {
			fmt.Print("você> ")
			select {
			case <-ctx.Done():
				return errQuit
			case line, ok := <-lines:
				if !ok {
					return errQuit
				}
				input := strings.TrimSpace(line)
				switch {
				case input == "":
					continue
				case input == "/sair":
					fmt.Println("Até logo!")
					return errQuit
				case input == "/id":
					fmt.Println(assistant.ThreadID())
					continue
				case input == "/nova":
					next, err := newAssistant(checkpoint.NewThreadID(userID))
					if err != nil {
						return err
					}
					assistant = next
					fmt.Println("Nova conversa iniciada:", assistant.ThreadID())
					continue
				}

				reply, err := assistant.Ask(ctx, input)
				if err != nil {
					logger.ErrorContext(ctx, "ask failed",
						log.FieldOperation, log.OpAsk,
						log.FieldThreadID, assistant.ThreadID(),
						log.FieldError, err)
					fmt.Println("Desculpe, algo deu errado. Tente de novo.")
					continue
				}
				fmt.Println(reply)
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("shutting down", log.FieldOperation, log.OpShutdown)
	return nil
}
