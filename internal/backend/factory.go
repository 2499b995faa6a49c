package backend

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/amqp"
	"tally/internal/config"
	"tally/internal/ledger"
	"tally/internal/services"
	"tally/internal/storage"
	"tally/internal/store"
)

// Factory builds a Result from the application config.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Build assembles stores, archive and services for the configured backend.
func (f *Factory) Build(ctx context.Context, cfg *config.Config) (*Result, error) {
	backendType := Type(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	var archive ledger.Archive
	if backendType == SQLiteBackend {
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite repository: %w", err)
		}
		archive = repo
	}

	amqpClient := f.connectAMQP(cfg)

	result, err := f.assemble(ctx, archive, amqpClient)
	if err != nil {
		if archive != nil {
			archive.Close()
		}
		if amqpClient != nil {
			amqpClient.Close()
		}
		return nil, err
	}

	f.logger.Info("Initialized backend",
		"type", backendType.String(),
		"amqp_enabled", amqpClient != nil)

	return result, nil
}

// connectAMQP dials the sync queue when configured. Failure is not fatal,
// the tracker runs without sync.
func (f *Factory) connectAMQP(cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client
}

func (f *Factory) assemble(ctx context.Context, archive ledger.Archive, amqpClient *amqp.Client) (*Result, error) {
	var (
		transactions *store.TransactionStore
		categories   *store.CategoryStore
		recurring    *store.RecurringStore
		budgets      *store.BudgetStore
	)

	if archive == nil {
		transactions = store.NewTransactionStore()
		categories = store.NewCategoryStoreWithDefaults()
		recurring = store.NewRecurringStoreWithDefaults()
		budgets = store.NewBudgetStoreWithDefaults()
	} else {
		var err error
		transactions, categories, recurring, budgets, err = f.loadFromArchive(ctx, archive)
		if err != nil {
			return nil, err
		}
	}

	txService := services.NewTransactionService(transactions, archive, amqpClient)
	catalog := services.NewCatalogService(categories, recurring, budgets, archive)

	cleanup := func() error {
		var errs []error
		if err := txService.Close(); err != nil {
			errs = append(errs, err)
		}
		if archive != nil {
			if err := archive.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close archive: %w", err))
			}
		}
		if len(errs) > 0 {
			return fmt.Errorf("backend cleanup: %v", errs)
		}
		return nil
	}

	return &Result{
		Transactions:       transactions,
		Categories:         categories,
		Recurring:          recurring,
		Budgets:            budgets,
		Archive:            archive,
		TransactionService: txService,
		CatalogService:     catalog,
		ImportService:      services.NewImportService(txService),
		Cleanup:            cleanup,
	}, nil
}

// loadFromArchive restores the stores from persistence. An archive with no
// categories is treated as fresh and seeded with the defaults.
func (f *Factory) loadFromArchive(ctx context.Context, archive ledger.Archive) (*store.TransactionStore, *store.CategoryStore, *store.RecurringStore, *store.BudgetStore, error) {
	transactions := store.NewTransactionStore()
	categories := store.NewCategoryStore()
	recurring := store.NewRecurringStore()
	budgets := store.NewBudgetStore()

	txRecords, err := archive.LoadTransactions(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load transactions: %w", err)
	}
	transactions.Load(txRecords)

	catRecords, err := archive.LoadCategories(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load categories: %w", err)
	}

	recRecords, err := archive.LoadRecurring(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load recurring: %w", err)
	}

	budRecords, err := archive.LoadBudgets(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load budgets: %w", err)
	}

	if len(catRecords) == 0 {
		f.logger.Info("Archive is empty, seeding default records")
		categories = store.NewCategoryStoreWithDefaults()
		recurring = store.NewRecurringStoreWithDefaults()
		budgets = store.NewBudgetStoreWithDefaults()
		f.seedArchive(ctx, archive, categories, recurring, budgets)
	} else {
		categories.Load(catRecords)
		recurring.Load(recRecords)
		budgets.Load(budRecords)
	}

	f.logger.Info("Restored stores from archive",
		"transactions", transactions.Len(),
		"categories", len(categories.List()),
		"recurring", len(recurring.List()),
		"budgets", len(budgets.List()))

	return transactions, categories, recurring, budgets, nil
}

func (f *Factory) seedArchive(ctx context.Context, archive ledger.Archive, categories *store.CategoryStore, recurring *store.RecurringStore, budgets *store.BudgetStore) {
	for _, c := range categories.List() {
		if err := archive.SaveCategory(ctx, c); err != nil {
			f.logger.Error("Failed to seed category", "id", c.ID, "error", err)
		}
	}
	for _, r := range recurring.List() {
		if err := archive.SaveRecurring(ctx, r); err != nil {
			f.logger.Error("Failed to seed recurring template", "id", r.ID, "error", err)
		}
	}
	for _, b := range budgets.List() {
		if err := archive.SaveBudget(ctx, b); err != nil {
			f.logger.Error("Failed to seed budget", "category", b.Category, "error", err)
		}
	}
}
