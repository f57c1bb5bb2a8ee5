package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"booking-admin-service/internal/booking"
	"booking-admin-service/internal/db"
	"booking-admin-service/internal/httpapi"
	"booking-admin-service/internal/payout"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubActions struct {
	result *booking.ActionResult
	err    error
}

func (s *stubActions) ApplyAction(context.Context, uuid.UUID, string, uuid.UUID) (*booking.ActionResult, error) {
	return s.result, s.err
}

type stubPayouts struct {
	payment *db.PaymentEntity
	err     error
}

func (s *stubPayouts) ProcessPayout(context.Context, uuid.UUID) (*db.PaymentEntity, error) {
	return s.payment, s.err
}

type stubBookings struct {
	booking *db.BookingEntity
	err     error
}

func (s *stubBookings) GetByID(context.Context, uuid.UUID) (*db.BookingEntity, error) {
	return s.booking, s.err
}

type stubPayments struct {
	payment *db.PaymentEntity
	err     error
}

func (s *stubPayments) GetByBookingID(context.Context, uuid.UUID) (*db.PaymentEntity, error) {
	return s.payment, s.err
}

type stubActivities struct {
	activities []*db.ActivityEntity
	err        error
}

func (s *stubActivities) ListByBookingID(context.Context, uuid.UUID) ([]*db.ActivityEntity, error) {
	return s.activities, s.err
}

type stubStats struct {
	stats *db.AdminStats
	err   error
}

func (s *stubStats) Collect(context.Context) (*db.AdminStats, error) {
	return s.stats, s.err
}

type fixture struct {
	actions    *stubActions
	payouts    *stubPayouts
	bookings   *stubBookings
	payments   *stubPayments
	activities *stubActivities
	stats      *stubStats
	app        *fiber.App
}

func newFixture() *fixture {
	f := &fixture{
		actions:    &stubActions{},
		payouts:    &stubPayouts{},
		bookings:   &stubBookings{},
		payments:   &stubPayments{},
		activities: &stubActivities{},
		stats:      &stubStats{},
	}
	f.app = fiber.New()
	handler := httpapi.NewHandler(f.actions, f.payouts, f.bookings, f.payments,
		f.activities, f.stats, slog.Default())
	handler.Register(f.app)
	return f
}

func (f *fixture) request(t *testing.T, method, target string, body interface{}) (*http.Response, httpapi.APIResponse) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.app.Test(req)
	assert.NoError(t, err)

	var parsed httpapi.APIResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func actionBody(action string) map[string]string {
	return map[string]string{"action": action, "actorId": uuid.New().String()}
}

func TestApplyBookingAction_Success(t *testing.T) {
	f := newFixture()
	f.actions.result = &booking.ActionResult{
		Booking: &db.BookingEntity{ID: uuid.New(), Status: "ACCEPTED", PaymentStatus: "HELD", QuotedAmount: 1500},
		Payment: &db.PaymentEntity{ID: uuid.New(), Amount: 1500, PlatformFee: 450, ProviderPayout: 1050, Status: "HELD"},
	}

	resp, parsed := f.request(t, http.MethodPatch, "/api/admin/bookings/"+uuid.New().String(), actionBody("accept"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, parsed.Success)
	assert.Contains(t, parsed.Message, "accept")
}

func TestApplyBookingAction_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"not found", booking.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"invalid transition", booking.ErrInvalidTransition, http.StatusBadRequest, "INVALID_TRANSITION"},
		{"unknown action", booking.ErrUnknownAction, http.StatusBadRequest, "UNKNOWN_ACTION"},
		{"persistence failure", io.ErrUnexpectedEOF, http.StatusInternalServerError, "PERSISTENCE_FAILURE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.actions.err = tt.err

			resp, parsed := f.request(t, http.MethodPatch, "/api/admin/bookings/"+uuid.New().String(), actionBody("accept"))

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.False(t, parsed.Success)
			assert.Equal(t, tt.expectedCode, parsed.Error.Code)
			assert.NotEmpty(t, parsed.Error.Message)
		})
	}
}

func TestApplyBookingAction_InvalidBookingID(t *testing.T) {
	f := newFixture()

	resp, parsed := f.request(t, http.MethodPatch, "/api/admin/bookings/not-a-uuid", actionBody("accept"))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", parsed.Error.Code)
}

func TestProcessPayout_Success(t *testing.T) {
	f := newFixture()
	f.payouts.payment = &db.PaymentEntity{ID: uuid.New(), Status: "COMPLETED", Amount: 1500}

	resp, parsed := f.request(t, http.MethodPost, "/api/admin/payments/"+uuid.New().String()+"/process", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, parsed.Success)
}

func TestProcessPayout_TransferUnconfirmedIsRetryable(t *testing.T) {
	f := newFixture()
	f.payouts.err = payout.ErrTransferUnconfirmed

	resp, parsed := f.request(t, http.MethodPost, "/api/admin/payments/"+uuid.New().String()+"/process", nil)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "TRANSFER_UNCONFIRMED", parsed.Error.Code)
	assert.True(t, parsed.Error.Retryable)
}

func TestProcessPayout_InvalidPaymentState(t *testing.T) {
	f := newFixture()
	f.payouts.err = payout.ErrInvalidPaymentState

	resp, parsed := f.request(t, http.MethodPost, "/api/admin/payments/"+uuid.New().String()+"/process", nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_PAYMENT_STATE", parsed.Error.Code)
}

func TestGetBooking_NotFound(t *testing.T) {
	f := newFixture()

	resp, parsed := f.request(t, http.MethodGet, "/api/admin/bookings/"+uuid.New().String(), nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", parsed.Error.Code)
}

func TestGetStats(t *testing.T) {
	f := newFixture()
	f.stats.stats = &db.AdminStats{TotalBookings: 12, TotalRevenue: 45_000, PlatformFees: 13_500}

	resp, parsed := f.request(t, http.MethodGet, "/api/admin/stats", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, parsed.Success)

	data, err := json.Marshal(parsed.Data)
	assert.NoError(t, err)

	var stats db.AdminStats
	assert.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, int64(12), stats.TotalBookings)
	assert.Equal(t, int64(13_500), stats.PlatformFees)
}
