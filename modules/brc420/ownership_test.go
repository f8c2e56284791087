package brc420

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("untracked inscription records nothing", func(t *testing.T) {
		f := newProcessorFixture()
		transferred, err := f.processor.handleTransfer(ctx, newTestId("1", 0), walletA, 900000)
		require.NoError(t, err)
		assert.False(t, transferred)
	})

	t.Run("same wallet records nothing", func(t *testing.T) {
		f := newProcessorFixture()
		id := seedBitmap(t, f, 7)

		transferred, err := f.processor.handleTransfer(ctx, id, walletA, 900001)
		require.NoError(t, err)
		assert.False(t, transferred)
	})

	t.Run("wallet change records one transfer and updates owner", func(t *testing.T) {
		f := newProcessorFixture()
		id := seedBitmap(t, f, 7)

		transferred, err := f.processor.handleTransfer(ctx, id, walletB, 900001)
		require.NoError(t, err)
		assert.True(t, transferred)

		owner, err := f.store.GetInscriptionOwner(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, walletB, owner.CurrentWallet)

		transfers, err := f.store.GetTransfersByInscriptionId(ctx, id)
		require.NoError(t, err)
		require.Len(t, transfers, 1)
		assert.Equal(t, walletA, transfers[0].FromWallet)
		assert.Equal(t, walletB, transfers[0].ToWallet)
		assert.Equal(t, int64(900001), transfers[0].BlockHeight)

		// the same observation again is a no-op
		transferred, err = f.processor.handleTransfer(ctx, id, walletB, 900002)
		require.NoError(t, err)
		assert.False(t, transferred)

		transfers, err = f.store.GetTransfersByInscriptionId(ctx, id)
		require.NoError(t, err)
		assert.Len(t, transfers, 1)
	})

	t.Run("wallet change follows into the entity table", func(t *testing.T) {
		f := newProcessorFixture()
		id := seedBitmap(t, f, 7)

		transferred, err := f.processor.handleTransfer(ctx, id, walletB, 900001)
		require.NoError(t, err)
		require.True(t, transferred)

		// the row the query API serves must show the new wallet too
		bitmap, err := f.store.GetValidBitmapByNumber(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, walletB, bitmap.CurrentWallet)
	})

	t.Run("deploy wallet follows transfer", func(t *testing.T) {
		f := newProcessorFixture()
		sourceId := seedDeploy(t, f, "10", "0.001")
		deployId := newTestId("b", 0)

		transferred, err := f.processor.handleTransfer(ctx, deployId, walletC, 900001)
		require.NoError(t, err)
		require.True(t, transferred)

		deploy, err := f.store.GetDeployBySourceId(ctx, sourceId)
		require.NoError(t, err)
		assert.Equal(t, walletC, deploy.CurrentWallet)
	})

	t.Run("chained transfers keep full history", func(t *testing.T) {
		f := newProcessorFixture()
		id := seedBitmap(t, f, 7)

		for _, wallet := range []string{walletB, walletC, walletA} {
			transferred, err := f.processor.handleTransfer(ctx, id, wallet, 900001)
			require.NoError(t, err)
			require.True(t, transferred)
		}

		owner, err := f.store.GetInscriptionOwner(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, walletA, owner.CurrentWallet)

		transfers, err := f.store.GetTransfersByInscriptionId(ctx, id)
		require.NoError(t, err)
		assert.Len(t, transfers, 3)
	})
}
