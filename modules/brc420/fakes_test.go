package brc420

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/modules/brc420/datagateway"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/entity"
	"github.com/brc420-network/brc420-indexer/modules/brc420/internal/ordinals"
	"github.com/brc420-network/brc420-indexer/pkg/mempoolclient"
	"github.com/brc420-network/brc420-indexer/pkg/ordclient"
	"github.com/cockroachdb/errors"
)

// newTestId builds a deterministic inscription id from a repeated hex digit.
// Uniform-digit hashes read the same forwards and backwards, so the id string
// doubles as the tx hash string in provider fakes.
func newTestId(digit string, index uint32) ordinals.InscriptionId {
	id, err := ordinals.NewInscriptionIdFromString(strings.Repeat(digit, 64) + "i" + strconv.FormatUint(uint64(index), 10))
	if err != nil {
		panic(err)
	}
	return id
}

// fakeStore is an in-memory BRC420DataGateway. Transactions apply writes
// immediately; Commit and Rollback are no-ops.
type fakeStore struct {
	mu sync.Mutex

	deploysBySourceId map[string]*entity.Deploy
	deploysById       map[string]*entity.Deploy
	mints             map[string]entity.Mint
	bitmaps           map[string]*entity.Bitmap
	parcels           map[string]*entity.Parcel
	owners            map[string]*entity.InscriptionOwner
	transfers         []entity.Transfer
	blockStats        map[int64]entity.BlockStats
	processed         map[int64]bool
}

var _ datagateway.BRC420DataGateway = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		deploysBySourceId: make(map[string]*entity.Deploy),
		deploysById:       make(map[string]*entity.Deploy),
		mints:             make(map[string]entity.Mint),
		bitmaps:           make(map[string]*entity.Bitmap),
		parcels:           make(map[string]*entity.Parcel),
		owners:            make(map[string]*entity.InscriptionOwner),
		blockStats:        make(map[int64]entity.BlockStats),
		processed:         make(map[int64]bool),
	}
}

type fakeStoreTx struct {
	*fakeStore
}

func (s *fakeStore) BeginBRC420Tx(ctx context.Context) (datagateway.BRC420DataGatewayWithTx, error) {
	return fakeStoreTx{s}, nil
}

func (fakeStoreTx) Commit(ctx context.Context) error   { return nil }
func (fakeStoreTx) Rollback(ctx context.Context) error { return nil }

func (s *fakeStore) GetLatestProcessedHeight(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	latest := int64(-1)
	for height := range s.processed {
		if height > latest {
			latest = height
		}
	}
	if latest < 0 {
		return 0, errors.WithStack(errs.NotFound)
	}
	return latest, nil
}

func (s *fakeStore) GetUnprocessedHeights(ctx context.Context, fromHeight, toHeight int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var heights []int64
	for height := fromHeight; height <= toHeight; height++ {
		if !s.processed[height] {
			heights = append(heights, height)
		}
	}
	return heights, nil
}

func (s *fakeStore) MarkHeightsProcessed(ctx context.Context, heights []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, height := range heights {
		s.processed[height] = true
	}
	return nil
}

func (s *fakeStore) AddBlockStats(ctx context.Context, stats entity.BlockStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blockStats[stats.BlockHeight] = stats
	return nil
}

func (s *fakeStore) GetBlockStats(ctx context.Context, blockHeight int64) (*entity.BlockStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.blockStats[blockHeight]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return &stats, nil
}

func (s *fakeStore) CreateDeploy(ctx context.Context, deploy entity.Deploy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deploysBySourceId[deploy.SourceId.String()]; ok {
		return errors.WithStack(errs.Duplicate)
	}
	d := deploy
	s.deploysBySourceId[deploy.SourceId.String()] = &d
	s.deploysById[deploy.Id.String()] = &d
	return nil
}

func (s *fakeStore) GetDeployById(ctx context.Context, id ordinals.InscriptionId) (*entity.Deploy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deploy, ok := s.deploysById[id.String()]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	d := *deploy
	return &d, nil
}

func (s *fakeStore) GetDeployBySourceId(ctx context.Context, sourceId ordinals.InscriptionId) (*entity.Deploy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deploy, ok := s.deploysBySourceId[sourceId.String()]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	d := *deploy
	return &d, nil
}

func (s *fakeStore) GetDeploys(ctx context.Context, params datagateway.GetDeploysParams) ([]entity.Deploy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deploys := make([]entity.Deploy, 0, len(s.deploysBySourceId))
	for _, deploy := range s.deploysBySourceId {
		if params.Search != "" && !strings.Contains(strings.ToLower(deploy.Name), strings.ToLower(params.Search)) {
			continue
		}
		deploys = append(deploys, *deploy)
	}
	return deploys, nil
}

func (s *fakeStore) IncrementDeployMintCount(ctx context.Context, sourceId ordinals.InscriptionId, maxSupply uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deploy, ok := s.deploysBySourceId[sourceId.String()]
	if !ok {
		return false, nil
	}
	if deploy.MintCount >= maxSupply {
		return false, nil
	}
	deploy.MintCount++
	return true, nil
}

func (s *fakeStore) CreateMint(ctx context.Context, mint entity.Mint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mints[mint.Id.String()]; ok {
		return errors.WithStack(errs.Duplicate)
	}
	s.mints[mint.Id.String()] = mint
	return nil
}

func (s *fakeStore) GetMintById(ctx context.Context, id ordinals.InscriptionId) (*entity.Mint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mint, ok := s.mints[id.String()]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return &mint, nil
}

func (s *fakeStore) CountMintsByDeploy(ctx context.Context, deployId ordinals.InscriptionId) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count uint64
	for _, mint := range s.mints {
		if mint.DeployId == deployId {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) GetMintsByDeploy(ctx context.Context, params datagateway.GetMintsByDeployParams) ([]entity.Mint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var mints []entity.Mint
	for _, mint := range s.mints {
		if mint.DeployId == params.DeployId {
			mints = append(mints, mint)
		}
	}
	return mints, nil
}

func (s *fakeStore) CreateBitmap(ctx context.Context, bitmap entity.Bitmap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bitmaps[bitmap.Id.String()]; ok {
		return errors.WithStack(errs.Duplicate)
	}
	b := bitmap
	s.bitmaps[bitmap.Id.String()] = &b
	return nil
}

func (s *fakeStore) InvalidateBitmap(ctx context.Context, id ordinals.InscriptionId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bitmap, ok := s.bitmaps[id.String()]
	if !ok {
		return errors.WithStack(errs.NotFound)
	}
	bitmap.IsValid = false
	return nil
}

func (s *fakeStore) GetValidBitmapByNumber(ctx context.Context, number int64) (*entity.Bitmap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, bitmap := range s.bitmaps {
		if bitmap.BitmapNumber == number && bitmap.IsValid {
			b := *bitmap
			return &b, nil
		}
	}
	return nil, errors.WithStack(errs.NotFound)
}

func (s *fakeStore) GetBitmapById(ctx context.Context, id ordinals.InscriptionId) (*entity.Bitmap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bitmap, ok := s.bitmaps[id.String()]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	b := *bitmap
	return &b, nil
}

func (s *fakeStore) GetBitmaps(ctx context.Context, params datagateway.GetBitmapsParams) ([]entity.Bitmap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bitmaps := make([]entity.Bitmap, 0, len(s.bitmaps))
	for _, bitmap := range s.bitmaps {
		if !bitmap.IsValid {
			continue
		}
		if params.Search != "" && !strings.HasPrefix(strconv.FormatInt(bitmap.BitmapNumber, 10), params.Search) {
			continue
		}
		bitmaps = append(bitmaps, *bitmap)
	}
	return bitmaps, nil
}

func (s *fakeStore) CreateParcel(ctx context.Context, parcel entity.Parcel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.parcels[parcel.Id.String()]; ok {
		return errors.WithStack(errs.Duplicate)
	}
	p := parcel
	s.parcels[parcel.Id.String()] = &p
	return nil
}

func (s *fakeStore) GetParcelById(ctx context.Context, id ordinals.InscriptionId) (*entity.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parcel, ok := s.parcels[id.String()]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	p := *parcel
	return &p, nil
}

func (s *fakeStore) GetValidParcel(ctx context.Context, parcelNumber, bitmapNumber int64) (*entity.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, parcel := range s.parcels {
		if parcel.ParcelNumber == parcelNumber && parcel.BitmapNumber == bitmapNumber && parcel.IsValid {
			p := *parcel
			return &p, nil
		}
	}
	return nil, errors.WithStack(errs.NotFound)
}

func (s *fakeStore) InvalidateParcel(ctx context.Context, id ordinals.InscriptionId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	parcel, ok := s.parcels[id.String()]
	if !ok {
		return errors.WithStack(errs.NotFound)
	}
	parcel.IsValid = false
	return nil
}

func (s *fakeStore) GetParcelsByBitmapNumber(ctx context.Context, params datagateway.GetParcelsByBitmapNumberParams) ([]entity.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var parcels []entity.Parcel
	for _, parcel := range s.parcels {
		if parcel.BitmapNumber == params.BitmapNumber {
			parcels = append(parcels, *parcel)
		}
	}
	return parcels, nil
}

func (s *fakeStore) CreateInscriptionOwner(ctx context.Context, owner entity.InscriptionOwner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := owner
	s.owners[owner.InscriptionId.String()] = &o
	return nil
}

func (s *fakeStore) GetInscriptionOwner(ctx context.Context, id ordinals.InscriptionId) (*entity.InscriptionOwner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.owners[id.String()]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	o := *owner
	return &o, nil
}

func (s *fakeStore) UpdateInscriptionOwner(ctx context.Context, id ordinals.InscriptionId, wallet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.owners[id.String()]
	if !ok {
		return errors.WithStack(errs.NotFound)
	}
	owner.CurrentWallet = wallet
	return nil
}

func (s *fakeStore) UpdateEntityWallet(ctx context.Context, kind entity.OwnedKind, id ordinals.InscriptionId, wallet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case entity.OwnedKindDeploy:
		if deploy, ok := s.deploysById[id.String()]; ok {
			deploy.CurrentWallet = wallet
		}
	case entity.OwnedKindMint:
		if mint, ok := s.mints[id.String()]; ok {
			mint.CurrentWallet = wallet
			s.mints[id.String()] = mint
		}
	case entity.OwnedKindBitmap:
		if bitmap, ok := s.bitmaps[id.String()]; ok {
			bitmap.CurrentWallet = wallet
		}
	case entity.OwnedKindParcel:
		if parcel, ok := s.parcels[id.String()]; ok {
			parcel.Wallet = wallet
		}
	default:
		return errors.WithStack(errs.Unsupported)
	}
	return nil
}

func (s *fakeStore) CreateTransfer(ctx context.Context, transfer entity.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers = append(s.transfers, transfer)
	return nil
}

func (s *fakeStore) GetTransfersByInscriptionId(ctx context.Context, id ordinals.InscriptionId) ([]entity.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var transfers []entity.Transfer
	for _, transfer := range s.transfers {
		if transfer.InscriptionId == id {
			transfers = append(transfers, transfer)
		}
	}
	return transfers, nil
}

// fakeOrdProvider is an in-memory ordclient.Contract.
type fakeOrdProvider struct {
	mu sync.Mutex

	blocks   map[int64][]string
	contents map[string]*ordclient.InscriptionContent
	outputs  map[string]string // tx hash -> owning address
	children map[string][]string

	contentErrs   map[string]error
	childrenCalls int
}

var _ ordclient.Contract = (*fakeOrdProvider)(nil)

func newFakeOrdProvider() *fakeOrdProvider {
	return &fakeOrdProvider{
		blocks:      make(map[int64][]string),
		contents:    make(map[string]*ordclient.InscriptionContent),
		outputs:     make(map[string]string),
		children:    make(map[string][]string),
		contentErrs: make(map[string]error),
	}
}

func (f *fakeOrdProvider) addInscription(id ordinals.InscriptionId, blockHeight int64, body []byte, contentType string, wallet string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blocks[blockHeight] = append(f.blocks[blockHeight], id.String())
	f.contents[id.String()] = &ordclient.InscriptionContent{Body: body, ContentType: contentType}
	f.outputs[id.TxHash.String()] = wallet
}

func (f *fakeOrdProvider) GetBlockInscriptions(ctx context.Context, blockHeight int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blocks[blockHeight], nil
}

func (f *fakeOrdProvider) GetInscriptionContent(ctx context.Context, inscriptionId string) (*ordclient.InscriptionContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.contentErrs[inscriptionId]; ok {
		return nil, err
	}
	content, ok := f.contents[inscriptionId]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return content, nil
}

func (f *fakeOrdProvider) GetOutputAddress(ctx context.Context, txHash string, outputIndex uint32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	address, ok := f.outputs[txHash]
	if !ok {
		return "", errors.WithStack(errs.NotFound)
	}
	return address, nil
}

func (f *fakeOrdProvider) GetChildren(ctx context.Context, inscriptionId string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.childrenCalls++
	return f.children[inscriptionId], nil
}

// fakeChainProvider is an in-memory mempoolclient.Contract.
type fakeChainProvider struct {
	mu sync.Mutex

	txs          map[string]*mempoolclient.Transaction
	hashByHeight map[int64]string
	blocks       map[string]*mempoolclient.Block
}

var _ mempoolclient.Contract = (*fakeChainProvider)(nil)

func newFakeChainProvider() *fakeChainProvider {
	return &fakeChainProvider{
		txs:          make(map[string]*mempoolclient.Transaction),
		hashByHeight: make(map[int64]string),
		blocks:       make(map[string]*mempoolclient.Block),
	}
}

func (f *fakeChainProvider) addBlock(height int64, hash string, txCount int64, timestamp int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hashByHeight[height] = hash
	f.blocks[hash] = &mempoolclient.Block{Hash: hash, Height: height, TxCount: txCount, Timestamp: timestamp}
}

func (f *fakeChainProvider) addTransaction(txHash string, outputs ...mempoolclient.TxOutput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txs[txHash] = &mempoolclient.Transaction{TxHash: txHash, Outputs: outputs}
}

func (f *fakeChainProvider) GetTransaction(ctx context.Context, txHash string) (*mempoolclient.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.txs[txHash]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return tx, nil
}

func (f *fakeChainProvider) GetBlockHashByHeight(ctx context.Context, blockHeight int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hash, ok := f.hashByHeight[blockHeight]
	if !ok {
		return "", errors.WithStack(errs.NotFound)
	}
	return hash, nil
}

func (f *fakeChainProvider) GetBlock(ctx context.Context, blockHash string) (*mempoolclient.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	block, ok := f.blocks[blockHash]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return block, nil
}
