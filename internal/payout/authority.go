package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const defaultTimeoutMs = 10_000

// Authority is the external party that actually moves money: it transfers
// the provider payout and retains the platform fee. Requests carry an
// idempotency key so a retried transfer settles at most once.
type Authority interface {
	Transfer(ctx context.Context, req TransferRequest) (*TransferConfirmation, error)
}

type TransferRequest struct {
	IdempotencyKey string    `json:"idempotencyKey"`
	PaymentID      uuid.UUID `json:"paymentId"`
	ProviderID     uuid.UUID `json:"providerId"`
	ProviderPayout int64     `json:"providerPayout"`
	PlatformFee    int64     `json:"platformFee"`
}

type TransferConfirmation struct {
	Confirmed bool   `json:"confirmed"`
	Reference string `json:"reference"`
}

// HTTPAuthority talks to the payment authority over HTTP. The client
// timeout bounds every call; a timed-out transfer is reported as an error
// and the payment stays in its resumable state.
type HTTPAuthority struct {
	client  *http.Client
	baseURL string
}

func NewHTTPAuthority(baseURL string, timeoutMs int) *HTTPAuthority {
	if timeoutMs <= 0 {
		timeoutMs = defaultTimeoutMs
	}
	return &HTTPAuthority{
		client:  &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
		baseURL: baseURL,
	}
}

func (a *HTTPAuthority) Transfer(ctx context.Context, transfer TransferRequest) (*TransferConfirmation, error) {
	body, err := json.Marshal(transfer)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling transfer request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/transfers", bytes.NewBuffer(body))
	if err != nil {
		return nil, errors.Wrap(err, "creating transfer request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", transfer.IdempotencyKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "sending transfer request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, errors.Errorf("transfer request failed: %s", resp.Status)
	}

	var confirmation TransferConfirmation
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
		return nil, errors.Wrap(err, "decoding transfer confirmation")
	}

	return &confirmation, nil
}
