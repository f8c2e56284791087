package brc420

import (
	"context"
	"log/slog"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/brc420-network/brc420-indexer/common"
	"github.com/brc420-network/brc420-indexer/core/indexer"
	"github.com/brc420-network/brc420-indexer/modules/brc420/datagateway"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/brc420-network/brc420-indexer/pkg/logger"
	"github.com/brc420-network/brc420-indexer/pkg/logger/slogx"
	"github.com/brc420-network/brc420-indexer/pkg/mempoolclient"
	"github.com/brc420-network/brc420-indexer/pkg/ordclient"
	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"
)

const blockMetaCacheSize = 1024

// Processor indexes one block at a time: enumerate the block's inscriptions,
// decode and classify each one, apply the matching protocol rules, and track
// ownership for every inscription seen.
type Processor struct {
	brc420Dg datagateway.BRC420DataGateway
	ord      ordclient.Contract
	mempool  mempoolclient.Contract
	network  common.Network

	// per-key serialization for read-compare-write sequences, keyed by
	// deploy source id, bitmap number and parcel slot respectively
	deployLocks *keyLock
	bitmapLocks *keyLock
	parcelLocks *keyLock

	blockMetaCache *lru.Cache[int64, blockMeta]

	cleanupFuncs []func(context.Context) error
}

var _ indexer.BlockProcessor[entity.BlockCounters] = (*Processor)(nil)

func NewProcessor(brc420Dg datagateway.BRC420DataGateway, ord ordclient.Contract, mempool mempoolclient.Contract, network common.Network, cleanupFuncs []func(context.Context) error) *Processor {
	return &Processor{
		brc420Dg:       brc420Dg,
		ord:            ord,
		mempool:        mempool,
		network:        network,
		deployLocks:    newKeyLock(),
		bitmapLocks:    newKeyLock(),
		parcelLocks:    newKeyLock(),
		blockMetaCache: utils.Must(lru.New[int64, blockMeta](blockMetaCacheSize)),
		cleanupFuncs:   cleanupFuncs,
	}
}

func (p *Processor) Name() string {
	return "brc420"
}

func (p *Processor) Process(ctx context.Context, blockHeight int64) (entity.BlockCounters, error) {
	var counters entity.BlockCounters
	ctx = logger.WithContext(ctx, slogx.Int64("block_height", blockHeight))

	inscriptionIds, err := p.ord.GetBlockInscriptions(ctx, blockHeight)
	if err != nil {
		return counters, errors.Wrapf(err, "failed to enumerate inscriptions in block %d", blockHeight)
	}
	logger.DebugContext(ctx, "Processing block", slog.Int("inscriptions", len(inscriptionIds)))

	for index, rawId := range inscriptionIds {
		counters.Inscriptions++
		if err := p.processInscription(ctx, rawId, blockHeight, uint32(index), &counters); err != nil {
			// per-inscription failures never abort the block
			logger.ErrorContext(ctx, "Failed to process inscription",
				slogx.String("inscription_id", rawId),
				slogx.Error(err),
			)
		}
	}

	p.recordBlockStats(ctx, blockHeight, counters)
	return counters, nil
}

func (p *Processor) Shutdown(ctx context.Context) error {
	for _, cleanup := range p.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func (p *Processor) processInscription(ctx context.Context, rawId string, blockHeight int64, index uint32, counters *entity.BlockCounters) error {
	id, err := ordinals.NewInscriptionIdFromString(rawId)
	if err != nil {
		return errors.Wrap(err, "invalid inscription id")
	}
	content, err := p.ord.GetInscriptionContent(ctx, rawId)
	if err != nil {
		return errors.Wrap(err, "failed to fetch inscription content")
	}
	wallet, err := p.ord.GetOutputAddress(ctx, id.TxHash.String(), 0)
	if err != nil {
		return errors.Wrap(err, "failed to resolve owning wallet")
	}

	decoded := DecodeContent(content.Body, content.ContentType)
	switch claim := Classify(decoded).(type) {
	case DeployClaim:
		accepted, err := p.processDeploy(ctx, claim, id, blockHeight, index, wallet)
		if err != nil {
			return errors.WithStack(err)
		}
		if accepted {
			counters.Deploys++
		}
	case MintClaim:
		accepted, err := p.processMint(ctx, claim, id, decoded.ContentType, blockHeight, index, wallet)
		if err != nil {
			return errors.WithStack(err)
		}
		if accepted {
			counters.Mints++
		}
	case BitmapClaim:
		accepted, err := p.processBitmap(ctx, claim, id, blockHeight, index, wallet)
		if err != nil {
			return errors.WithStack(err)
		}
		if accepted {
			counters.Bitmaps++
		}
	case ParcelClaim:
		accepted, err := p.processParcel(ctx, claim, id, blockHeight, wallet)
		if err != nil {
			return errors.WithStack(err)
		}
		if accepted {
			counters.Parcels++
		}
	case nil:
		// not a protocol claim, ownership tracking still applies below
	}

	// the ownership update runs for every inscription seen, independent of
	// protocol acceptance
	transferred, err := p.handleTransfer(ctx, id, wallet, blockHeight)
	if err != nil {
		return errors.Wrap(err, "failed to update ownership")
	}
	if transferred {
		counters.Transfers++
	}
	return nil
}

type blockMeta struct {
	Hash      string
	TxCount   int64
	Timestamp time.Time
}

// getBlockMeta reads block hash/tx-count through an in-memory LRU backed by
// the block stats table, falling back to the chain-state provider.
func (p *Processor) getBlockMeta(ctx context.Context, blockHeight int64) (blockMeta, error) {
	if meta, ok := p.blockMetaCache.Get(blockHeight); ok {
		return meta, nil
	}
	if stats, err := p.brc420Dg.GetBlockStats(ctx, blockHeight); err == nil && stats.BlockHash != "" {
		meta := blockMeta{Hash: stats.BlockHash, TxCount: stats.TxCount, Timestamp: stats.Timestamp}
		p.blockMetaCache.Add(blockHeight, meta)
		return meta, nil
	}
	hash, err := p.mempool.GetBlockHashByHeight(ctx, blockHeight)
	if err != nil {
		return blockMeta{}, errors.WithStack(err)
	}
	block, err := p.mempool.GetBlock(ctx, hash)
	if err != nil {
		return blockMeta{}, errors.WithStack(err)
	}
	meta := blockMeta{Hash: hash, TxCount: block.TxCount, Timestamp: time.Unix(block.Timestamp, 0).UTC()}
	p.blockMetaCache.Add(blockHeight, meta)
	return meta, nil
}

// recordBlockStats persists the per-block counters. Best-effort: a failure
// here never fails the block.
func (p *Processor) recordBlockStats(ctx context.Context, blockHeight int64, counters entity.BlockCounters) {
	meta, err := p.getBlockMeta(ctx, blockHeight)
	if err != nil {
		logger.WarnContext(ctx, "Failed to fetch block metadata for stats", slogx.Error(err))
		meta = blockMeta{Timestamp: time.Now().UTC()}
	}
	stats := entity.BlockStats{
		BlockHeight:  blockHeight,
		BlockHash:    meta.Hash,
		Timestamp:    meta.Timestamp,
		TxCount:      meta.TxCount,
		Inscriptions: counters.Inscriptions,
		Deploys:      counters.Deploys,
		Mints:        counters.Mints,
		Bitmaps:      counters.Bitmaps,
		Parcels:      counters.Parcels,
		Transfers:    counters.Transfers,
	}
	if err := p.brc420Dg.AddBlockStats(ctx, stats); err != nil {
		logger.WarnContext(ctx, "Failed to persist block stats", slogx.Error(err))
	}
}
