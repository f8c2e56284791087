package ordclient

import (
	"context"
	"fmt"
	"time"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/pkg/httpclient"
	"github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
)

// Contract is the block-data provider surface used by the indexing pipeline.
// The provider is an ord-style HTTP service; we trust its answers and never
// re-verify them against a node.
type Contract interface {
	// GetBlockInscriptions returns the block's inscription ids ordered by
	// reveal index.
	GetBlockInscriptions(ctx context.Context, blockHeight int64) ([]string, error)
	// GetInscriptionContent returns the raw content payload and its
	// content type.
	GetInscriptionContent(ctx context.Context, inscriptionId string) (*InscriptionContent, error)
	// GetOutputAddress returns the address currently resolving the given
	// transaction output.
	GetOutputAddress(ctx context.Context, txHash string, outputIndex uint32) (string, error)
	// GetChildren lists direct child inscription ids of the given
	// inscription.
	GetChildren(ctx context.Context, inscriptionId string) ([]string, error)
}

type InscriptionContent struct {
	Body        []byte
	ContentType string
}

type Client struct {
	client *httpclient.Client
}

var _ Contract = (*Client)(nil)

func New(baseURL string, timeout time.Duration) (*Client, error) {
	client, err := httpclient.New(baseURL, httpclient.Config{
		Headers: map[string]string{"Accept": "application/json"},
		Timeout: timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create http client")
	}
	return &Client{client: client}, nil
}

type getBlockResult struct {
	Inscriptions []string `json:"inscriptions"`
}

func (c *Client) GetBlockInscriptions(ctx context.Context, blockHeight int64) ([]string, error) {
	resp, err := c.client.Get(ctx, fmt.Sprintf("/block/%d", blockHeight), httpclient.RequestOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch block %d", blockHeight)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, errors.Wrapf(errs.SomethingWentWrong, "got status %d for block %d", resp.StatusCode(), blockHeight)
	}
	var result getBlockResult
	if err := resp.UnmarshalBody(&result); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal block %d", blockHeight)
	}
	return result.Inscriptions, nil
}

func (c *Client) GetInscriptionContent(ctx context.Context, inscriptionId string) (*InscriptionContent, error) {
	resp, err := c.client.Get(ctx, "/content/"+inscriptionId, httpclient.RequestOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch content of %s", inscriptionId)
	}
	if resp.StatusCode() == fasthttp.StatusNotFound {
		return nil, errors.Wrapf(errs.NotFound, "content of %s", inscriptionId)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, errors.Wrapf(errs.SomethingWentWrong, "got status %d for content of %s", resp.StatusCode(), inscriptionId)
	}
	body, err := resp.BodyUncompressed()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read content of %s", inscriptionId)
	}
	return &InscriptionContent{
		Body:        body,
		ContentType: string(resp.Header.ContentType()),
	}, nil
}

type getOutputResult struct {
	Address string `json:"address"`
}

func (c *Client) GetOutputAddress(ctx context.Context, txHash string, outputIndex uint32) (string, error) {
	resp, err := c.client.Get(ctx, fmt.Sprintf("/output/%s:%d", txHash, outputIndex), httpclient.RequestOptions{})
	if err != nil {
		return "", errors.Wrapf(err, "failed to fetch output %s:%d", txHash, outputIndex)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", errors.Wrapf(errs.SomethingWentWrong, "got status %d for output %s:%d", resp.StatusCode(), txHash, outputIndex)
	}
	var result getOutputResult
	if err := resp.UnmarshalBody(&result); err != nil {
		return "", errors.Wrapf(err, "failed to unmarshal output %s:%d", txHash, outputIndex)
	}
	return result.Address, nil
}

type getChildrenResult struct {
	Ids []string `json:"ids"`
}

func (c *Client) GetChildren(ctx context.Context, inscriptionId string) ([]string, error) {
	resp, err := c.client.Get(ctx, "/children/"+inscriptionId, httpclient.RequestOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch children of %s", inscriptionId)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, errors.Wrapf(errs.SomethingWentWrong, "got status %d for children of %s", resp.StatusCode(), inscriptionId)
	}
	var result getChildrenResult
	if err := resp.UnmarshalBody(&result); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal children of %s", inscriptionId)
	}
	return result.Ids, nil
}
