package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/iati-publisher/internal/adapter/postgres"
	activityrepo "github.com/heartmarshall/iati-publisher/internal/adapter/postgres/activity"
	auditrepo "github.com/heartmarshall/iati-publisher/internal/adapter/postgres/audit"
	balancerepo "github.com/heartmarshall/iati-publisher/internal/adapter/postgres/balance"
	codelistrepo "github.com/heartmarshall/iati-publisher/internal/adapter/postgres/codelist"
	"github.com/heartmarshall/iati-publisher/internal/adapter/postgres/element"
	narrativerepo "github.com/heartmarshall/iati-publisher/internal/adapter/postgres/narrative"
	publisherrepo "github.com/heartmarshall/iati-publisher/internal/adapter/postgres/publisher"
	resultrepo "github.com/heartmarshall/iati-publisher/internal/adapter/postgres/result"
	searchindex "github.com/heartmarshall/iati-publisher/internal/adapter/search"
	"github.com/heartmarshall/iati-publisher/internal/auth"
	"github.com/heartmarshall/iati-publisher/internal/config"
	"github.com/heartmarshall/iati-publisher/internal/domain"
	activitysvc "github.com/heartmarshall/iati-publisher/internal/service/activity"
	authsvc "github.com/heartmarshall/iati-publisher/internal/service/auth"
	codelistsvc "github.com/heartmarshall/iati-publisher/internal/service/codelist"
	elementsvc "github.com/heartmarshall/iati-publisher/internal/service/element"
	"github.com/heartmarshall/iati-publisher/internal/service/jobs"
	narrativesvc "github.com/heartmarshall/iati-publisher/internal/service/narrative"
	publishersvc "github.com/heartmarshall/iati-publisher/internal/service/publisher"
	resultsvc "github.com/heartmarshall/iati-publisher/internal/service/result"
	searchsvc "github.com/heartmarshall/iati-publisher/internal/service/search"
)

// Deps holds the adapters and services shared by the server, the worker
// and the one-shot commands.
type Deps struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
	Index *searchindex.Index

	Activities   *activityrepo.Repo
	Balances     *balancerepo.Repo
	Narratives   *narrativerepo.Repo
	Budgets      *element.Table[domain.Budget]
	Transactions *element.Table[domain.Transaction]

	Auth       *authsvc.Service
	Publishers *publishersvc.Service
	CodeLists  *codelistsvc.Service
	Activity   *activitysvc.Service
	Elements   *elementsvc.Service
	Results    *resultsvc.Service
	Search     *searchsvc.Service
}

// NewDeps connects to the database and the search index and builds every
// service. The Redis connection is lazy so a down index does not block
// startup.
func NewDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Deps, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rdb, err := searchindex.NewClient(cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create search client: %w", err)
	}
	index := searchindex.NewIndex(logger, rdb, cfg.Search)

	txm := postgres.NewTxManager(pool)

	activities := activityrepo.New(pool)
	audits := auditrepo.New(pool)
	balances := balancerepo.New(pool)
	narratives := narrativerepo.New(pool)
	publishers := publisherrepo.New(pool)
	results := resultrepo.New(pool)
	aggregates := element.NewAggregates(pool)
	budgets := element.NewBudgets(pool)
	transactions := element.NewTransactions(pool)

	tables := elementsvc.Tables{
		Descriptions:       element.NewDescriptions(pool),
		Dates:              element.NewActivityDates(pool),
		ParticipatingOrgs:  element.NewParticipatingOrgs(pool),
		RecipientCountries: element.NewRecipientCountries(pool),
		RecipientRegions:   element.NewRecipientRegions(pool),
		Sectors:            element.NewSectors(pool),
		PolicyMarkers:      element.NewPolicyMarkers(pool),
		Conditions:         element.NewConditions(pool),
		Budgets:            budgets,
		Transactions:       transactions,
		DocumentLinks:      element.NewDocumentLinks(pool),
		Locations:          element.NewLocations(pool),
	}

	narrativeService := narrativesvc.NewService(logger, narratives)
	codeListService := codelistsvc.NewService(logger, codelistrepo.New(pool))

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	resultService := resultsvc.NewService(
		logger,
		activities,
		results,
		aggregates,
		narrativeService,
		codeListService,
		audits,
		txm,
		resultsvc.Tables{
			Results:             results.Results,
			ResultReferences:    results.ResultReferences,
			Indicators:          results.Indicators,
			IndicatorReferences: results.IndicatorReferences,
			Baselines:           results.Baselines,
			Periods:             results.Periods,
			PeriodValues:        results.PeriodValues,
			Dimensions:          results.Dimensions,
			Locations:           results.Locations,
		},
		resultsvc.Limits{ListDefault: cfg.Activity.ListDefaultLimit, ListMax: cfg.Activity.ListMaxLimit},
	)

	elementService := elementsvc.NewService(
		logger,
		activities,
		narrativeService,
		codeListService,
		aggregates,
		audits,
		txm,
		tables,
		elementsvc.Limits{ListDefault: cfg.Activity.ListDefaultLimit, ListMax: cfg.Activity.ListMaxLimit},
	)

	activityService := activitysvc.NewService(
		logger,
		activities,
		narrativeService,
		codeListService,
		audits,
		index,
		txm,
		activitysvc.Children{
			Descriptions:       tables.Descriptions,
			Dates:              tables.Dates,
			ParticipatingOrgs:  tables.ParticipatingOrgs,
			RecipientCountries: tables.RecipientCountries,
			RecipientRegions:   tables.RecipientRegions,
			Sectors:            tables.Sectors,
			PolicyMarkers:      tables.PolicyMarkers,
			Conditions:         tables.Conditions,
			Budgets:            tables.Budgets,
			Transactions:       tables.Transactions,
			DocumentLinks:      tables.DocumentLinks,
			Locations:          tables.Locations,
			Results:            resultService,
			Aggregates:         aggregates,
		},
		activitysvc.Limits{
			Detail:      cfg.Activity.DetailLimit,
			ListDefault: cfg.Activity.ListDefaultLimit,
			ListMax:     cfg.Activity.ListMaxLimit,
			History:     cfg.Activity.HistoryLimit,
		},
	)

	return &Deps{
		Pool:         pool,
		Redis:        rdb,
		Index:        index,
		Activities:   activities,
		Balances:     balances,
		Narratives:   narratives,
		Budgets:      budgets,
		Transactions: transactions,

		Auth:       authsvc.NewService(logger, publishers, jwtManager, cfg.Auth.AdminToken),
		Publishers: publishersvc.NewService(logger, publishers, audits, index, txm, cfg.Auth.BcryptCost),
		CodeLists:  codeListService,
		Activity:   activityService,
		Elements:   elementService,
		Results:    resultService,
		Search: searchsvc.NewService(logger, index, searchsvc.Limits{
			Default: cfg.Search.DefaultLimit,
			Max:     cfg.Search.MaxLimit,
		}),
	}, nil
}

// ReindexJob builds the job pushing modified activities into the index.
func (d *Deps) ReindexJob(logger *slog.Logger, cfg config.WorkerConfig) *jobs.Reindex {
	return jobs.NewReindex(logger, d.Activities, d.Activity, d.Index, cfg.BatchSize, cfg.Concurrency)
}

// BalanceJob builds the job recomputing transaction balances in loc.
func (d *Deps) BalanceJob(logger *slog.Logger, cfg config.WorkerConfig, loc *time.Location) *jobs.Balance {
	return jobs.NewBalance(logger, d.Activities, d.Budgets, d.Transactions, d.Balances, cfg.BatchSize, cfg.Concurrency, loc)
}

// Close releases the database pool and the Redis client.
func (d *Deps) Close() {
	_ = d.Redis.Close()
	d.Pool.Close()
}
