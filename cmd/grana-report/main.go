// grana-report prints a one-shot financial report for a user straight
// from the transaction store, without any model in the loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"grana/internal/config"
	"grana/internal/log"
	"grana/internal/services"
	"grana/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "grana-report:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg := config.Load()

	var (
		user   = flag.String("user", cfg.UserID(), "user whose transactions to report")
		period = flag.String("period", "month", "report period: today, week, month, year or all")
		limit  = flag.Int("limit", services.DefaultListLimit, "how many recent transactions to list")
	)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return err
	}
	if *user == "" {
		return fmt.Errorf("user cannot be empty")
	}

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentReport,
	})
	log.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx := context.Background()

	repo, err := storage.NewSQLiteRepository(cfg.StoreDBPath)
	if err != nil {
		return fmt.Errorf("open transaction store: %w", err)
	}
	defer repo.Close()

	svc, err := services.NewFinanceService(ctx, repo, loc)
	if err != nil {
		return fmt.Errorf("init finance service: %w", err)
	}

	balance, err := svc.GetBalance(ctx, *user, *period)
	if err != nil {
		return err
	}
	totals, err := svc.GetCategorySummary(ctx, *user, *period)
	if err != nil {
		return err
	}
	recent, err := svc.ListTransactions(ctx, *user, services.ListOptions{Limit: *limit})
	if err != nil {
		return err
	}

	fmt.Printf("Relatório de %s (%s)\n", *user, *period)
	fmt.Println(strings.Repeat("=", 40))

	fmt.Printf("Receitas:  %s\n", balance.Income.BRL())
	fmt.Printf("Despesas:  %s\n", balance.Expenses.BRL())
	net := balance.Net()
	fmt.Printf("Saldo:     %s\n", net.BRL())

	if len(totals) > 0 {
		fmt.Println("\nDespesas por categoria:")
		for _, ct := range totals {
			fmt.Printf("  %-20s %12s (%dx)\n", ct.Category, ct.Total.BRL(), ct.Count)
		}
	}

	if len(recent) > 0 {
		fmt.Println("\nTransações recentes:")
		for _, tx := range recent {
			desc := tx.Description
			if desc != "" {
				desc = " - " + desc
			}
			fmt.Printf("  #%-4d %s %-7s %12s  %s%s\n",
				tx.ID, tx.OccurredOn.BR(), tx.Kind, tx.Amount.BRL(), tx.Category, desc)
		}
	}

	return nil
}
