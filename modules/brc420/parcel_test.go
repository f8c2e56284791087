package brc420

import (
	"context"
	"testing"

	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedBitmap installs a valid bitmap claim and returns its inscription id.
func seedBitmap(t *testing.T, f *processorFixture, number int64) ordinals.InscriptionId {
	t.Helper()
	id := newTestId("a", 0)
	accepted, err := f.processor.processBitmap(context.Background(), BitmapClaim{Number: number, Content: "7.bitmap"}, id, 900000, 0, walletA)
	require.NoError(t, err)
	require.True(t, accepted)
	return id
}

func TestProcessParcel(t *testing.T) {
	ctx := context.Background()
	claim := ParcelClaim{ParcelNumber: 2, BitmapNumber: 7, Content: "2.7.bitmap"}

	t.Run("child of valid bitmap accepted", func(t *testing.T) {
		f := newProcessorFixture()
		bitmapId := seedBitmap(t, f, 7)

		parcelId := newTestId("1", 0)
		f.ord.children[bitmapId.String()] = []string{parcelId.String()}

		accepted, err := f.processor.processParcel(ctx, claim, parcelId, 900100, walletB)
		require.NoError(t, err)
		assert.True(t, accepted)

		parcel, err := f.store.GetValidParcel(ctx, 2, 7)
		require.NoError(t, err)
		assert.Equal(t, parcelId, parcel.Id)
		assert.Equal(t, bitmapId, parcel.BitmapInscriptionId)
		assert.Equal(t, walletB, parcel.Wallet)
	})

	t.Run("missing bitmap rejected before provenance lookup", func(t *testing.T) {
		f := newProcessorFixture()

		accepted, err := f.processor.processParcel(ctx, claim, newTestId("1", 0), 900100, walletB)
		require.NoError(t, err)
		assert.False(t, accepted)
		assert.Equal(t, 0, f.ord.childrenCalls)
	})

	t.Run("non-child rejected", func(t *testing.T) {
		f := newProcessorFixture()
		bitmapId := seedBitmap(t, f, 7)
		f.ord.children[bitmapId.String()] = []string{newTestId("9", 0).String()}

		accepted, err := f.processor.processParcel(ctx, claim, newTestId("1", 0), 900100, walletB)
		require.NoError(t, err)
		assert.False(t, accepted)
	})

	t.Run("earlier block claim demotes later winner", func(t *testing.T) {
		f := newProcessorFixture()
		bitmapId := seedBitmap(t, f, 7)

		laterId := newTestId("1", 0)
		earlierId := newTestId("2", 0)
		f.ord.children[bitmapId.String()] = []string{laterId.String(), earlierId.String()}

		accepted, err := f.processor.processParcel(ctx, claim, laterId, 900200, walletB)
		require.NoError(t, err)
		require.True(t, accepted)

		accepted, err = f.processor.processParcel(ctx, claim, earlierId, 900100, walletC)
		require.NoError(t, err)
		assert.True(t, accepted)

		parcel, err := f.store.GetValidParcel(ctx, 2, 7)
		require.NoError(t, err)
		assert.Equal(t, earlierId, parcel.Id)

		demoted, err := f.store.GetParcelById(ctx, laterId)
		require.NoError(t, err)
		assert.False(t, demoted.IsValid)
	})

	t.Run("same block smaller inscription id wins", func(t *testing.T) {
		f := newProcessorFixture()
		bitmapId := seedBitmap(t, f, 7)

		bigId := newTestId("9", 0)
		smallId := newTestId("1", 0)
		f.ord.children[bitmapId.String()] = []string{bigId.String(), smallId.String()}

		accepted, err := f.processor.processParcel(ctx, claim, bigId, 900100, walletB)
		require.NoError(t, err)
		require.True(t, accepted)

		accepted, err = f.processor.processParcel(ctx, claim, smallId, 900100, walletC)
		require.NoError(t, err)
		assert.True(t, accepted)

		parcel, err := f.store.GetValidParcel(ctx, 2, 7)
		require.NoError(t, err)
		assert.Equal(t, smallId, parcel.Id)
	})

	t.Run("losing claim kept invalid", func(t *testing.T) {
		f := newProcessorFixture()
		bitmapId := seedBitmap(t, f, 7)

		winnerId := newTestId("1", 0)
		loserId := newTestId("2", 0)
		f.ord.children[bitmapId.String()] = []string{winnerId.String(), loserId.String()}

		accepted, err := f.processor.processParcel(ctx, claim, winnerId, 900100, walletB)
		require.NoError(t, err)
		require.True(t, accepted)

		accepted, err = f.processor.processParcel(ctx, claim, loserId, 900200, walletC)
		require.NoError(t, err)
		assert.False(t, accepted)

		loser, err := f.store.GetParcelById(ctx, loserId)
		require.NoError(t, err)
		assert.False(t, loser.IsValid)
	})

	t.Run("replay of recorded claim is a no-op", func(t *testing.T) {
		f := newProcessorFixture()
		bitmapId := seedBitmap(t, f, 7)

		parcelId := newTestId("1", 0)
		f.ord.children[bitmapId.String()] = []string{parcelId.String()}

		accepted, err := f.processor.processParcel(ctx, claim, parcelId, 900100, walletB)
		require.NoError(t, err)
		require.True(t, accepted)

		accepted, err = f.processor.processParcel(ctx, claim, parcelId, 900100, walletB)
		require.NoError(t, err)
		assert.False(t, accepted)
	})

	t.Run("transaction count annotated when block metadata available", func(t *testing.T) {
		f := newProcessorFixture()
		bitmapId := seedBitmap(t, f, 7)
		f.chain.addBlock(900100, "hash900100", 3210, 1713571767)

		parcelId := newTestId("1", 0)
		f.ord.children[bitmapId.String()] = []string{parcelId.String()}

		accepted, err := f.processor.processParcel(ctx, claim, parcelId, 900100, walletB)
		require.NoError(t, err)
		require.True(t, accepted)

		parcel, err := f.store.GetValidParcel(ctx, 2, 7)
		require.NoError(t, err)
		require.NotNil(t, parcel.TransactionCount)
		assert.Equal(t, int64(3210), *parcel.TransactionCount)
	})
}
