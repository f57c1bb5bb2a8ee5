package payout_test

import (
	"context"
	"testing"
	"time"

	"booking-admin-service/internal/payout"
	"github.com/google/uuid"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
)

func TestHTTPAuthority_Transfer(t *testing.T) {
	tests := []struct {
		name           string
		mockResponse   func()
		expectedError  bool
		expectedErrMsg string
		confirmed      bool
	}{
		{
			name: "Confirmed",
			mockResponse: func() {
				gock.New("http://authority.example.com").
					Post("/transfers").
					MatchHeader("Idempotency-Key", ".+").
					Reply(200).
					JSON(map[string]interface{}{"confirmed": true, "reference": "ref-123"})
			},
			confirmed: true,
		},
		{
			name: "Declined",
			mockResponse: func() {
				gock.New("http://authority.example.com").
					Post("/transfers").
					Reply(200).
					JSON(map[string]interface{}{"confirmed": false})
			},
			confirmed: false,
		},
		{
			name: "ServerError",
			mockResponse: func() {
				gock.New("http://authority.example.com").
					Post("/transfers").
					Reply(500).
					JSON(map[string]string{"error": "internal server error"})
			},
			expectedError:  true,
			expectedErrMsg: "transfer request failed",
		},
		{
			name: "Timeout",
			mockResponse: func() {
				gock.New("http://authority.example.com").
					Post("/transfers").
					Reply(200).
					Delay(2 * time.Second)
			},
			expectedError:  true,
			expectedErrMsg: "Client.Timeout exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer gock.Off()
			tt.mockResponse()

			authority := payout.NewHTTPAuthority("http://authority.example.com", 1000)

			confirmation, err := authority.Transfer(context.Background(), payout.TransferRequest{
				IdempotencyKey: uuid.New().String(),
				PaymentID:      uuid.New(),
				ProviderID:     uuid.New(),
				ProviderPayout: 1050,
				PlatformFee:    450,
			})

			if tt.expectedError {
				assert.Error(t, err)
				if tt.expectedErrMsg != "" {
					assert.Contains(t, err.Error(), tt.expectedErrMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.confirmed, confirmation.Confirmed)
			}
			assert.True(t, gock.IsDone())
		})
	}
}
