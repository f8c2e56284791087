package brc420

import (
	"strconv"

	"github.com/brc420-network/brc420-indexer/common"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

const maxNameLength = 128

// dustFloorBTC is the protocol-defined minimum mint price.
var dustFloorBTC = decimal.RequireFromString("0.00000420")

var (
	ErrMissingSourceId  = errors.New("deploy source id is required")
	ErrNameTooLong      = errors.New("deploy name exceeds 128 characters")
	ErrNameRequired     = errors.New("deploy name is required")
	ErrInvalidMaxSupply = errors.New("deploy max supply must be an integer >= 1")
	ErrPriceBelowDust   = errors.New("deploy price is below the dust floor")
	ErrInvalidPrice     = errors.New("deploy price is not a valid decimal")
	ErrMissingDeployRef = errors.New("mint deploy reference is required")
	ErrNegativeNumber   = errors.New("claim number must be non-negative")
	ErrMissingWallet    = errors.New("owning wallet is required")
	ErrInvalidWallet    = errors.New("owning wallet is not a valid address")
)

// ValidatedDeploy is a DeployClaim with its numeric literals parsed and
// range-checked.
type ValidatedDeploy struct {
	SourceId string
	Name     string
	Max      uint64
	Price    decimal.Decimal
}

func ValidateDeployClaim(claim DeployClaim) (ValidatedDeploy, error) {
	if claim.SourceId == "" {
		return ValidatedDeploy{}, errors.WithStack(ErrMissingSourceId)
	}
	if claim.Name == "" {
		return ValidatedDeploy{}, errors.WithStack(ErrNameRequired)
	}
	if len(claim.Name) > maxNameLength {
		return ValidatedDeploy{}, errors.WithStack(ErrNameTooLong)
	}
	max, err := strconv.ParseUint(claim.Max, 10, 64)
	if err != nil || max < 1 {
		return ValidatedDeploy{}, errors.WithStack(ErrInvalidMaxSupply)
	}
	price, err := decimal.NewFromString(claim.Price)
	if err != nil {
		return ValidatedDeploy{}, errors.WithStack(ErrInvalidPrice)
	}
	if price.LessThan(dustFloorBTC) {
		return ValidatedDeploy{}, errors.WithStack(ErrPriceBelowDust)
	}
	return ValidatedDeploy{
		SourceId: claim.SourceId,
		Name:     claim.Name,
		Max:      max,
		Price:    price,
	}, nil
}

func ValidateMintClaim(claim MintClaim) error {
	if claim.DeploySourceId == "" {
		return errors.WithStack(ErrMissingDeployRef)
	}
	return nil
}

func ValidateBitmapClaim(claim BitmapClaim) error {
	if claim.Number < 0 {
		return errors.WithStack(ErrNegativeNumber)
	}
	return nil
}

func ValidateParcelClaim(claim ParcelClaim) error {
	if claim.ParcelNumber < 0 || claim.BitmapNumber < 0 {
		return errors.WithStack(ErrNegativeNumber)
	}
	return nil
}

// ValidateWallet checks the resolved owning wallet parses as an address on
// the configured network.
func ValidateWallet(wallet string, network common.Network) error {
	if wallet == "" {
		return errors.WithStack(ErrMissingWallet)
	}
	addr, err := btcutil.DecodeAddress(wallet, network.ChainParams())
	if err != nil {
		return errors.Wrapf(ErrInvalidWallet, "%s", wallet)
	}
	// DecodeAddress parses some foreign-network encodings without error
	if !addr.IsForNet(network.ChainParams()) {
		return errors.Wrapf(ErrInvalidWallet, "%s is not a %s address", wallet, network)
	}
	return nil
}
