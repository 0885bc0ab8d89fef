// Package natsx exposes token verification and account events over NATS.
package natsx

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	nats "github.com/nats-io/nats.go"
)

// TokenVerifier checks an access token and returns its claims.
type TokenVerifier interface {
	Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error)
}

// VerifyHandler answers token verification requests so other services can
// authenticate callers without sharing the signing secret.
type VerifyHandler struct {
	verifier  TokenVerifier
	logger    logging.Logger
	respondFn func(msg *nats.Msg, resp VerifyResponse)
}

// VerifyRequest is the request payload.
type VerifyRequest struct {
	Token string `json:"token"`
}

// VerifyResponse is the reply payload.
type VerifyResponse struct {
	OK        bool     `json:"ok"`
	AccountID string   `json:"account_id,omitempty"`
	Email     string   `json:"email,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func NewVerifyHandler(verifier TokenVerifier, logger logging.Logger) *VerifyHandler {
	return &VerifyHandler{verifier: verifier, logger: logger.With("module", "nats_verify"), respondFn: respond}
}

// Subscribe joins queue on subject so replicas share the load.
func (h *VerifyHandler) Subscribe(conn *nats.Conn, subject, queue string) (*nats.Subscription, error) {
	if conn == nil {
		return nil, errors.New("nats connection is nil")
	}
	return conn.QueueSubscribe(subject, queue, h.handle)
}

func (h *VerifyHandler) handle(msg *nats.Msg) {
	ctx := context.Background()

	var req VerifyRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.Token == "" {
		h.respondFn(msg, VerifyResponse{Error: "invalid_payload"})
		return
	}

	claims, err := h.verifier.Authenticate(ctx, req.Token)
	if err != nil {
		h.logger.Debug(ctx, "token rejected", "error", err.Error())
		h.respondFn(msg, VerifyResponse{Error: "invalid_token"})
		return
	}

	h.respondFn(msg, VerifyResponse{OK: true, AccountID: claims.AccountID(), Email: claims.Email, Roles: claims.Roles})
}

func respond(msg *nats.Msg, resp VerifyResponse) {
	data, _ := json.Marshal(resp)
	_ = msg.Respond(data)
}
