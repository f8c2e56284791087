package httphandler

import (
	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/modules/brc420/usecase"
	"github.com/cockroachdb/errors"
)

const (
	defaultLimit = 20
	maxLimit     = 1000
)

type HttpHandler struct {
	usecase *usecase.Usecase
}

func New(usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

type paginationRequest struct {
	Limit  int32 `query:"limit"`
	Offset int32 `query:"offset"`
}

func (req paginationRequest) Validate() error {
	var errList []error
	if req.Limit < 0 {
		errList = append(errList, errors.New("'limit' must be non-negative"))
	}
	if req.Limit > maxLimit {
		errList = append(errList, errors.Errorf("'limit' must be less than or equal to %d", maxLimit))
	}
	if req.Offset < 0 {
		errList = append(errList, errors.New("'offset' must be non-negative"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (req *paginationRequest) ParseDefault() error {
	if req.Limit == 0 {
		req.Limit = defaultLimit
	}
	return nil
}
