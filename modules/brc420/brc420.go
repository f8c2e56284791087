package brc420

import (
	"context"
	"strings"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/core/indexer"
	"github.com/brc420-network/brc420-indexer/internal/config"
	"github.com/brc420-network/brc420-indexer/internal/postgres"
	brc420api "github.com/brc420-network/brc420-indexer/modules/brc420/api/httphandler"
	brc420datagateway "github.com/brc420-network/brc420-indexer/modules/brc420/datagateway"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	brc420postgres "github.com/brc420-network/brc420-indexer/modules/brc420/repository/postgres"
	brc420usecase "github.com/brc420-network/brc420-indexer/modules/brc420/usecase"
	"github.com/brc420-network/brc420-indexer/pkg/logger"
	"github.com/brc420-network/brc420-indexer/pkg/logger/slogx"
	"github.com/brc420-network/brc420-indexer/pkg/mempoolclient"
	"github.com/brc420-network/brc420-indexer/pkg/ordclient"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

func New(injector do.Injector) (indexer.IndexerWorker, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	moduleConf := conf.Modules.BRC420

	var brc420Dg brc420datagateway.BRC420DataGateway
	var cleanupFuncs []func(context.Context) error
	switch strings.ToLower(moduleConf.Database) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, moduleConf.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "Invalid Postgres configuration for indexer")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		brc420Dg = brc420postgres.NewRepository(pg)
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q database for indexer is not supported", moduleConf.Database)
	}

	ordClient, err := ordclient.New(moduleConf.Datasource.OrdURL, moduleConf.Datasource.RequestTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "invalid ord datasource configuration")
	}
	mempoolClient, err := mempoolclient.New(moduleConf.Datasource.MempoolURL, moduleConf.Datasource.RequestTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "invalid mempool datasource configuration")
	}

	processor := NewProcessor(brc420Dg, ordClient, mempoolClient, conf.Network, cleanupFuncs)

	// Mount API
	apiHandlers := lo.Uniq(moduleConf.APIHandlers)
	for _, handler := range apiHandlers {
		switch handler {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			brc420Usecase := brc420usecase.New(brc420Dg)
			brc420HTTPHandler := brc420api.New(brc420Usecase)
			if err := brc420HTTPHandler.Mount(httpServer); err != nil {
				return nil, errors.Wrap(err, "can't mount BRC-420 API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}

	indexerConf := moduleConf.Indexer.WithDefaults()
	worker := indexer.New(processor, brc420Dg, indexer.Options{
		StartHeight:  indexerConf.StartHeight,
		BatchSize:    int(indexerConf.BatchSize),
		Workers:      indexerConf.Workers,
		RetryDelay:   indexerConf.RetryDelay,
		PollInterval: indexerConf.PollInterval,
	})
	worker.WindowDone = func(ctx context.Context, fromHeight, toHeight int64, results []indexer.WindowResult[entity.BlockCounters]) {
		var total entity.BlockCounters
		for _, result := range results {
			total.Add(result.Value)
		}
		logger.InfoContext(ctx, "Indexed block window",
			slogx.Int64("from_height", fromHeight),
			slogx.Int64("to_height", toHeight),
			slogx.Int("blocks", len(results)),
			slogx.Int64("inscriptions", total.Inscriptions),
			slogx.Int64("deploys", total.Deploys),
			slogx.Int64("mints", total.Mints),
			slogx.Int64("bitmaps", total.Bitmaps),
			slogx.Int64("parcels", total.Parcels),
			slogx.Int64("transfers", total.Transfers),
		)
	}
	return worker, nil
}
