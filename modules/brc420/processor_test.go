package brc420

import (
	"context"
	"fmt"
	"testing"

	"github.com/brc420-network/brc420-indexer/common"
	"github.com/brc420-network/brc420-indexer/modules/brc420/datagateway"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	walletA = "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"
	walletB = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	walletC = "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy"
)

type processorFixture struct {
	store     *fakeStore
	ord       *fakeOrdProvider
	chain     *fakeChainProvider
	processor *Processor
}

func newProcessorFixture() *processorFixture {
	store := newFakeStore()
	ord := newFakeOrdProvider()
	chain := newFakeChainProvider()
	return &processorFixture{
		store:     store,
		ord:       ord,
		chain:     chain,
		processor: NewProcessor(store, ord, chain, common.NetworkMainnet, nil),
	}
}

func deployPayload(sourceId, name, max, price string) []byte {
	return []byte(fmt.Sprintf(`{"p":"brc-420","op":"deploy","id":"%s","name":"%s","max":"%s","price":"%s"}`, sourceId, name, max, price))
}

func mintPayload(sourceId string) []byte {
	return []byte(fmt.Sprintf(`{"p":"brc-420","op":"mint","id":"%s"}`, sourceId))
}

func TestProcessBlock(t *testing.T) {
	ctx := context.Background()
	f := newProcessorFixture()

	const blockHeight = int64(840000)
	f.chain.addBlock(blockHeight, "000000block840000", 2500, 1713571767)

	sourceId := newTestId("a", 0)
	f.ord.addInscription(sourceId, blockHeight-1000, []byte("art"), "image/png", walletA)

	deployId := newTestId("b", 0)
	f.ord.addInscription(deployId, blockHeight, deployPayload(sourceId.String(), "blob", "10", "0.001"), "application/json", walletA)

	bitmapId := newTestId("c", 0)
	f.ord.addInscription(bitmapId, blockHeight, []byte("839999.bitmap"), "text/plain", walletB)

	junkId := newTestId("d", 0)
	f.ord.addInscription(junkId, blockHeight, []byte("hello world"), "text/plain", walletC)

	counters, err := f.processor.Process(ctx, blockHeight)
	require.NoError(t, err)

	assert.Equal(t, int64(3), counters.Inscriptions)
	assert.Equal(t, int64(1), counters.Deploys)
	assert.Equal(t, int64(1), counters.Bitmaps)
	assert.Equal(t, int64(0), counters.Mints)
	assert.Equal(t, int64(0), counters.Transfers)

	deploy, err := f.store.GetDeployBySourceId(ctx, sourceId)
	require.NoError(t, err)
	assert.Equal(t, deployId, deploy.Id)
	assert.Equal(t, "blob", deploy.Name)
	assert.Equal(t, walletA, deploy.DeployerAddress)

	bitmap, err := f.store.GetValidBitmapByNumber(ctx, 839999)
	require.NoError(t, err)
	assert.Equal(t, bitmapId, bitmap.Id)
	assert.True(t, bitmap.IsValid)

	owner, err := f.store.GetInscriptionOwner(ctx, deployId)
	require.NoError(t, err)
	assert.Equal(t, entity.OwnedKindDeploy, owner.Kind)
	assert.Equal(t, walletA, owner.CurrentWallet)

	stats, err := f.store.GetBlockStats(ctx, blockHeight)
	require.NoError(t, err)
	assert.Equal(t, "000000block840000", stats.BlockHash)
	assert.Equal(t, int64(2500), stats.TxCount)
	assert.Equal(t, int64(3), stats.Inscriptions)
	assert.Equal(t, int64(1), stats.Deploys)
}

func TestProcessBlockReplayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newProcessorFixture()

	const blockHeight = int64(840000)
	f.chain.addBlock(blockHeight, "hash840000", 100, 1713571767)

	sourceId := newTestId("a", 0)
	f.ord.addInscription(sourceId, blockHeight-1000, []byte("art"), "image/png", walletA)
	deployId := newTestId("b", 0)
	f.ord.addInscription(deployId, blockHeight, deployPayload(sourceId.String(), "blob", "10", "0.001"), "application/json", walletA)
	bitmapId := newTestId("c", 0)
	f.ord.addInscription(bitmapId, blockHeight, []byte("839999.bitmap"), "text/plain", walletB)

	first, err := f.processor.Process(ctx, blockHeight)
	require.NoError(t, err)
	require.Equal(t, int64(1), first.Deploys)
	require.Equal(t, int64(1), first.Bitmaps)

	replay, err := f.processor.Process(ctx, blockHeight)
	require.NoError(t, err)
	assert.Equal(t, int64(0), replay.Deploys)
	assert.Equal(t, int64(0), replay.Bitmaps)
	assert.Equal(t, int64(0), replay.Transfers)

	bitmaps, err := f.store.GetBitmaps(ctx, datagateway.GetBitmapsParams{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, bitmaps, 1)
}

func TestProcessDeploy(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate source id keeps first deploy", func(t *testing.T) {
		f := newProcessorFixture()
		sourceId := newTestId("a", 0)

		first := newTestId("b", 0)
		accepted, err := f.processor.processDeploy(ctx, DeployClaim{
			SourceId: sourceId.String(), Name: "one", Max: "10", Price: "0.001",
		}, first, 840000, 0, walletA)
		require.NoError(t, err)
		require.True(t, accepted)

		second := newTestId("c", 0)
		accepted, err = f.processor.processDeploy(ctx, DeployClaim{
			SourceId: sourceId.String(), Name: "two", Max: "99", Price: "0.002",
		}, second, 839000, 0, walletB)
		require.NoError(t, err)
		assert.False(t, accepted)

		deploy, err := f.store.GetDeployBySourceId(ctx, sourceId)
		require.NoError(t, err)
		assert.Equal(t, first, deploy.Id)
		assert.Equal(t, "one", deploy.Name)
	})

	t.Run("malformed claim rejected without error", func(t *testing.T) {
		f := newProcessorFixture()
		accepted, err := f.processor.processDeploy(ctx, DeployClaim{
			SourceId: newTestId("a", 0).String(), Name: "x", Max: "0", Price: "0.001",
		}, newTestId("b", 0), 840000, 0, walletA)
		require.NoError(t, err)
		assert.False(t, accepted)
	})

	t.Run("invalid wallet rejected", func(t *testing.T) {
		f := newProcessorFixture()
		accepted, err := f.processor.processDeploy(ctx, DeployClaim{
			SourceId: newTestId("a", 0).String(), Name: "x", Max: "10", Price: "0.001",
		}, newTestId("b", 0), 840000, 0, "garbage")
		require.NoError(t, err)
		assert.False(t, accepted)
	})

	t.Run("malformed source id rejected", func(t *testing.T) {
		f := newProcessorFixture()
		accepted, err := f.processor.processDeploy(ctx, DeployClaim{
			SourceId: "not-an-inscription-id", Name: "x", Max: "10", Price: "0.001",
		}, newTestId("b", 0), 840000, 0, walletA)
		require.NoError(t, err)
		assert.False(t, accepted)
	})
}
