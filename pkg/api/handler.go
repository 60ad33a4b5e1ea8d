package api

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/huynhanx03/token-dispenser/pkg/common/apperr"
	"github.com/huynhanx03/token-dispenser/pkg/common/http/response"
	"github.com/huynhanx03/token-dispenser/pkg/dispenser"
)

// ServeInstruction is shown to the customer whose token was just served.
const ServeInstruction = "Please proceed to Counter 1"

type tokenService interface {
	IssueToken(ctx context.Context) (dispenser.Token, error)
	ServeNext(ctx context.Context) (dispenser.Token, error)
	PeekNext() (dispenser.Token, error)
	SnapshotWaiting() []dispenser.Token
	CurrentlyServing() (dispenser.Token, bool)
	Stats() dispenser.Stats
}

// TokenHandler exposes the dispenser operations as generic handlers.
type TokenHandler struct {
	service tokenService
}

func NewTokenHandler(service tokenService) *TokenHandler {
	return &TokenHandler{service: service}
}

type EmptyRequest struct{}

// ListRequest.Limit is a pointer so an explicit limit=0 fails validation
// instead of reading as "no limit".
type ListRequest struct {
	Limit *int `form:"limit" validate:"omitempty,min=1,max=1000"`
}

type ServeResponse struct {
	Token       dispenser.Token `json:"token"`
	Instruction string          `json:"instruction"`
}

type WaitingResponse struct {
	Count  int               `json:"count"`
	Tokens []dispenser.Token `json:"tokens"`
}

type ServingResponse struct {
	Token *dispenser.Token `json:"token"`
}

func (h *TokenHandler) Issue(ctx context.Context, _ *EmptyRequest) (dispenser.Token, error) {
	tok, err := h.service.IssueToken(ctx)
	if err != nil {
		return dispenser.Token{}, mapError(err, http.StatusConflict, apperr.MsgIssueFailed)
	}
	return tok, nil
}

func (h *TokenHandler) Serve(ctx context.Context, _ *EmptyRequest) (ServeResponse, error) {
	tok, err := h.service.ServeNext(ctx)
	if err != nil {
		return ServeResponse{}, mapError(err, http.StatusConflict, apperr.MsgServeFailed)
	}
	return ServeResponse{Token: tok, Instruction: ServeInstruction}, nil
}

func (h *TokenHandler) Next(_ context.Context, _ *EmptyRequest) (dispenser.Token, error) {
	tok, err := h.service.PeekNext()
	if err != nil {
		return dispenser.Token{}, mapError(err, http.StatusNotFound, apperr.MsgPeekFailed)
	}
	return tok, nil
}

func (h *TokenHandler) List(_ context.Context, req *ListRequest) (WaitingResponse, error) {
	tokens := h.service.SnapshotWaiting()
	count := len(tokens)
	if req.Limit != nil && *req.Limit < len(tokens) {
		tokens = tokens[:*req.Limit]
	}
	return WaitingResponse{Count: count, Tokens: tokens}, nil
}

func (h *TokenHandler) Serving(_ context.Context, _ *EmptyRequest) (ServingResponse, error) {
	tok, ok := h.service.CurrentlyServing()
	if !ok {
		return ServingResponse{}, nil
	}
	return ServingResponse{Token: &tok}, nil
}

func (h *TokenHandler) Stats(_ context.Context, _ *EmptyRequest) (dispenser.Stats, error) {
	return h.service.Stats(), nil
}

// mapError turns dispenser rejections into AppErrors. emptyStatus is the HTTP
// status for ErrQueueEmpty, which differs between serve and peek.
func mapError(err error, emptyStatus int, failMsg string) error {
	switch {
	case errors.Is(err, dispenser.ErrQueueFull):
		return apperr.MapError("queue", err, response.CodeQueueFull, apperr.MsgQueueFull, http.StatusConflict)
	case errors.Is(err, dispenser.ErrQueueEmpty):
		return apperr.MapError("queue", err, response.CodeQueueEmpty, apperr.MsgQueueEmpty, emptyStatus)
	default:
		return apperr.NewError("dispenser", response.CodeInternalServer, failMsg, http.StatusInternalServerError, err)
	}
}
