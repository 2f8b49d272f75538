// Package services implements the query and aggregation layer between
// the validated tool surface and the SQLite store.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"grana/internal/core"
	"grana/internal/storage"
)

// ClearConfirmToken is the exact confirmation value required by
// ClearHistory. Case-sensitive: anything else cancels, it never guesses
// intent.
const ClearConfirmToken = "SIM"

const (
	// DefaultListLimit caps listings when the caller does not say how many.
	DefaultListLimit = 10
	// DefaultSearchLimit caps search results by default.
	DefaultSearchLimit = 5
	// MaxLimit is the hard ceiling on any listing.
	MaxLimit = 100
)

// FinanceService orchestrates transactions, periods and category
// inference over the SQLite repository. One instance serves one process;
// requests are handled one at a time per user session.
type FinanceService struct {
	repo       *storage.SQLiteRepository
	classifier *core.Classifier
	loc        *time.Location

	now func() time.Time
}

// AddParams carries raw tool input for a new transaction. Category,
// Description and DateStr are optional.
type AddParams struct {
	Amount      float64
	Kind        string
	Category    string
	Description string
	DateStr     string
}

// UpdateParams is a partial update; nil fields are left unchanged.
type UpdateParams struct {
	Amount      *float64
	Kind        *string
	Category    *string
	Description *string
	DateStr     *string
}

// ListOptions narrows and caps a listing.
type ListOptions struct {
	Kind     string
	Category string
	Period   string
	Limit    int
}

// NewFinanceService seeds the default keyword table on first run and
// loads the inference rules into an in-memory classifier.
func NewFinanceService(ctx context.Context, repo *storage.SQLiteRepository, loc *time.Location) (*FinanceService, error) {
	if err := repo.SeedRules(ctx, core.DefaultCategoryRules()); err != nil {
		return nil, fmt.Errorf("seed category rules: %w", err)
	}
	rules, err := repo.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load category rules: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &FinanceService{
		repo:       repo,
		classifier: core.NewClassifier(rules),
		loc:        loc,
		now:        time.Now,
	}, nil
}

// today is the current calendar date in the service timezone.
func (s *FinanceService) today() core.Date {
	return core.DateOf(s.now().In(s.loc))
}

// AddTransaction validates raw input, infers the category when absent
// and persists one transaction.
func (s *FinanceService) AddTransaction(ctx context.Context, userID string, p AddParams) (core.Transaction, error) {
	amount, err := core.NewMoneyFromFloat(p.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	kind, err := core.ParseKind(p.Kind)
	if err != nil {
		return core.Transaction{}, err
	}

	occurredOn := s.today()
	if p.DateStr != "" {
		if occurredOn, err = core.ParseDate(p.DateStr); err != nil {
			return core.Transaction{}, err
		}
	}

	category := strings.TrimSpace(p.Category)
	if category == "" {
		category, _ = s.classifier.Infer(p.Description)
	}

	tx, err := s.repo.Create(ctx, core.Transaction{
		UserID:      userID,
		Amount:      amount,
		Kind:        kind,
		Category:    category,
		Description: p.Description,
		OccurredOn:  occurredOn,
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	return tx, nil
}

// GetTransaction returns one transaction owned by the user.
func (s *FinanceService) GetTransaction(ctx context.Context, userID string, id int64) (core.Transaction, error) {
	return s.repo.Get(ctx, userID, id)
}

// UpdateTransaction applies a partial update. Changed fields are
// re-validated with the same rules as AddTransaction; omitted fields
// are left untouched.
func (s *FinanceService) UpdateTransaction(ctx context.Context, userID string, id int64, p UpdateParams) (core.Transaction, error) {
	tx, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return core.Transaction{}, err
	}

	if p.Amount != nil {
		if tx.Amount, err = core.NewMoneyFromFloat(*p.Amount); err != nil {
			return core.Transaction{}, err
		}
	}
	if p.Kind != nil {
		if tx.Kind, err = core.ParseKind(*p.Kind); err != nil {
			return core.Transaction{}, err
		}
	}
	if p.Category != nil {
		if strings.TrimSpace(*p.Category) == "" {
			return core.Transaction{}, core.ErrEmptyCategory
		}
		tx.Category = *p.Category
	}
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.DateStr != nil {
		if tx.OccurredOn, err = core.ParseDate(*p.DateStr); err != nil {
			return core.Transaction{}, err
		}
	}

	updated, err := s.repo.Update(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return updated, nil
}

// DeleteTransaction reports whether a row was removed. Deleting twice
// is not an error; the second call reports false.
func (s *FinanceService) DeleteTransaction(ctx context.Context, userID string, id int64) (bool, error) {
	return s.repo.Delete(ctx, userID, id)
}

// ClearHistory deletes every transaction of the user, but only when the
// confirmation token matches exactly. A mismatch is a cancelled no-op.
func (s *FinanceService) ClearHistory(ctx context.Context, userID, confirm string) (int64, error) {
	if confirm != ClearConfirmToken {
		slog.InfoContext(ctx, "Clear history cancelled", "user_id", userID)
		return 0, core.ErrCancelled
	}
	return s.repo.ClearUser(ctx, userID)
}

// GetBalance sums the user's transactions inside the period, split by
// kind. An empty period yields zero totals.
func (s *FinanceService) GetBalance(ctx context.Context, userID, period string) (core.Balance, error) {
	rng, err := s.resolvePeriod(period)
	if err != nil {
		return core.Balance{}, err
	}
	return s.repo.SumByKind(ctx, userID, rng)
}

// GetCategorySummary aggregates expenses by category inside the period.
func (s *FinanceService) GetCategorySummary(ctx context.Context, userID, period string) ([]core.CategoryTotal, error) {
	rng, err := s.resolvePeriod(period)
	if err != nil {
		return nil, err
	}
	return s.repo.CategorySummary(ctx, userID, rng)
}

// ListTransactions returns the newest transactions first, optionally
// narrowed by kind, category and period.
func (s *FinanceService) ListTransactions(ctx context.Context, userID string, opts ListOptions) ([]core.Transaction, error) {
	filter := storage.ListFilter{
		Category: opts.Category,
		Range:    core.Range{All: true},
	}
	if opts.Kind != "" {
		kind, err := core.ParseKind(opts.Kind)
		if err != nil {
			return nil, err
		}
		filter.Kind = kind
	}
	if opts.Period != "" {
		rng, err := s.resolvePeriod(opts.Period)
		if err != nil {
			return nil, err
		}
		filter.Range = rng
	}
	return s.repo.List(ctx, userID, filter, clampLimit(opts.Limit, DefaultListLimit))
}

// SearchTransactions matches a term against descriptions and
// categories, newest first.
func (s *FinanceService) SearchTransactions(ctx context.Context, userID, term string, limit int) ([]core.Transaction, error) {
	return s.repo.Search(ctx, userID, term, clampLimit(limit, DefaultSearchLimit))
}

// AddCategoryMapping appends one inference rule, both persisted and in
// the live classifier. No dedup: first match keeps winning.
func (s *FinanceService) AddCategoryMapping(ctx context.Context, keyword, category, kindStr string) error {
	kind, err := core.ParseKind(kindStr)
	if err != nil {
		return err
	}
	if strings.TrimSpace(keyword) == "" {
		return fmt.Errorf("empty keyword")
	}
	if strings.TrimSpace(category) == "" {
		return core.ErrEmptyCategory
	}

	rule := core.CategoryRule{Keyword: strings.ToLower(keyword), Category: category, Kind: kind}
	if err := s.repo.AddRule(ctx, rule); err != nil {
		return fmt.Errorf("add category mapping: %w", err)
	}
	s.classifier.Add(rule)

	slog.InfoContext(ctx, "Category mapping added", "keyword", rule.Keyword, "category", category)
	return nil
}

func (s *FinanceService) resolvePeriod(period string) (core.Range, error) {
	p, err := core.ParsePeriod(period)
	if err != nil {
		return core.Range{}, err
	}
	return p.Resolve(s.now().In(s.loc))
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
