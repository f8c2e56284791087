package mempoolclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/pkg/httpclient"
	"github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
)

// Contract is the chain-state provider surface used for payment verification
// and block metadata, backed by a mempool.space compatible HTTP API.
type Contract interface {
	GetTransaction(ctx context.Context, txHash string) (*Transaction, error)
	GetBlockHashByHeight(ctx context.Context, blockHeight int64) (string, error)
	GetBlock(ctx context.Context, blockHash string) (*Block, error)
}

type Transaction struct {
	TxHash  string     `json:"txid"`
	Outputs []TxOutput `json:"vout"`
}

type TxOutput struct {
	Address string `json:"scriptpubkey_address"`
	// Value is in satoshi.
	Value int64 `json:"value"`
}

type Block struct {
	Hash      string `json:"id"`
	Height    int64  `json:"height"`
	TxCount   int64  `json:"tx_count"`
	Timestamp int64  `json:"timestamp"`
}

type Client struct {
	client *httpclient.Client
}

var _ Contract = (*Client)(nil)

func New(baseURL string, timeout time.Duration) (*Client, error) {
	client, err := httpclient.New(baseURL, httpclient.Config{
		Timeout: timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create http client")
	}
	return &Client{client: client}, nil
}

func (c *Client) GetTransaction(ctx context.Context, txHash string) (*Transaction, error) {
	resp, err := c.client.Get(ctx, "/tx/"+txHash, httpclient.RequestOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch tx %s", txHash)
	}
	if resp.StatusCode() == fasthttp.StatusNotFound {
		return nil, errors.Wrapf(errs.NotFound, "tx %s", txHash)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, errors.Wrapf(errs.SomethingWentWrong, "got status %d for tx %s", resp.StatusCode(), txHash)
	}
	var tx Transaction
	if err := resp.UnmarshalBody(&tx); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal tx %s", txHash)
	}
	return &tx, nil
}

// GetBlockHashByHeight resolves a height to a block hash. The provider answers
// with the hash as a plain-text body.
func (c *Client) GetBlockHashByHeight(ctx context.Context, blockHeight int64) (string, error) {
	resp, err := c.client.Get(ctx, fmt.Sprintf("/block-height/%d", blockHeight), httpclient.RequestOptions{})
	if err != nil {
		return "", errors.Wrapf(err, "failed to fetch block hash for height %d", blockHeight)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", errors.Wrapf(errs.SomethingWentWrong, "got status %d for block height %d", resp.StatusCode(), blockHeight)
	}
	body, err := resp.BodyUncompressed()
	if err != nil {
		return "", errors.Wrapf(err, "failed to read block hash for height %d", blockHeight)
	}
	return strings.TrimSpace(string(body)), nil
}

func (c *Client) GetBlock(ctx context.Context, blockHash string) (*Block, error) {
	resp, err := c.client.Get(ctx, "/block/"+blockHash, httpclient.RequestOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch block %s", blockHash)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, errors.Wrapf(errs.SomethingWentWrong, "got status %d for block %s", resp.StatusCode(), blockHash)
	}
	var block Block
	if err := resp.UnmarshalBody(&block); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal block %s", blockHash)
	}
	return &block, nil
}
