package postgres

import (
	"context"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func (r *Repository) CreateInscriptionOwner(ctx context.Context, owner entity.InscriptionOwner) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO brc420_inscription_owners (inscription_id, kind, current_wallet)
		VALUES ($1, $2, $3)
		ON CONFLICT (inscription_id) DO NOTHING
	`, owner.InscriptionId.String(), string(owner.Kind), owner.CurrentWallet)
	if err != nil {
		return errors.Wrap(err, "failed to create inscription owner")
	}
	return nil
}

func (r *Repository) GetInscriptionOwner(ctx context.Context, id ordinals.InscriptionId) (*entity.InscriptionOwner, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT inscription_id, kind, current_wallet
		FROM brc420_inscription_owners
		WHERE inscription_id = $1
	`, id.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get inscription owner")
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[inscriptionOwnerModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to collect inscription owner")
	}
	owner, err := mapInscriptionOwnerModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &owner, nil
}

func (r *Repository) UpdateInscriptionOwner(ctx context.Context, id ordinals.InscriptionId, wallet string) error {
	_, err := r.queryable().Exec(ctx, `
		UPDATE brc420_inscription_owners SET current_wallet = $2 WHERE inscription_id = $1
	`, id.String(), wallet)
	if err != nil {
		return errors.Wrap(err, "failed to update inscription owner")
	}
	return nil
}

// UpdateEntityWallet follows a transfer into the protocol table the
// inscription belongs to, keeping the wallet the query API serves in sync with
// the ownership index.
func (r *Repository) UpdateEntityWallet(ctx context.Context, kind entity.OwnedKind, id ordinals.InscriptionId, wallet string) error {
	var query string
	switch kind {
	case entity.OwnedKindDeploy:
		query = `UPDATE brc420_deploys SET current_wallet = $2 WHERE id = $1`
	case entity.OwnedKindMint:
		query = `UPDATE brc420_mints SET current_wallet = $2 WHERE id = $1`
	case entity.OwnedKindBitmap:
		query = `UPDATE brc420_bitmaps SET current_wallet = $2 WHERE id = $1`
	case entity.OwnedKindParcel:
		query = `UPDATE brc420_parcels SET wallet = $2 WHERE id = $1`
	default:
		return errors.Wrapf(errs.Unsupported, "unknown owned kind %q", kind)
	}
	if _, err := r.queryable().Exec(ctx, query, id.String(), wallet); err != nil {
		return errors.Wrapf(err, "failed to update %s wallet", kind)
	}
	return nil
}

func (r *Repository) CreateTransfer(ctx context.Context, transfer entity.Transfer) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO brc420_transfers (inscription_id, from_wallet, to_wallet, block_height, "timestamp")
		VALUES ($1, $2, $3, $4, $5)
	`,
		transfer.InscriptionId.String(),
		transfer.FromWallet,
		transfer.ToWallet,
		transfer.BlockHeight,
		pgtype.Timestamp{Time: transfer.Timestamp.UTC(), Valid: true},
	)
	if err != nil {
		return errors.Wrap(err, "failed to create transfer")
	}
	return nil
}

func (r *Repository) GetTransfersByInscriptionId(ctx context.Context, id ordinals.InscriptionId) ([]entity.Transfer, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT inscription_id, from_wallet, to_wallet, block_height, "timestamp"
		FROM brc420_transfers
		WHERE inscription_id = $1
		ORDER BY block_height
	`, id.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transfers by inscription id")
	}
	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[transferModel])
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect transfers")
	}
	transfers := make([]entity.Transfer, 0, len(models))
	for _, model := range models {
		transfer, err := mapTransferModelToType(model)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		transfers = append(transfers, transfer)
	}
	return transfers, nil
}
