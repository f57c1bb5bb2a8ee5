package httpapi

import (
	"context"
	"log/slog"

	"booking-admin-service/internal/booking"
	"booking-admin-service/internal/db"
	"booking-admin-service/internal/logcontext"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BookingActions interface {
	ApplyAction(ctx context.Context, bookingID uuid.UUID, action string, actorID uuid.UUID) (*booking.ActionResult, error)
}

type PayoutProcessor interface {
	ProcessPayout(ctx context.Context, paymentID uuid.UUID) (*db.PaymentEntity, error)
}

type BookingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*db.BookingEntity, error)
}

type PaymentReader interface {
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*db.PaymentEntity, error)
}

type ActivityReader interface {
	ListByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*db.ActivityEntity, error)
}

type StatsCollector interface {
	Collect(ctx context.Context) (*db.AdminStats, error)
}

type Handler struct {
	actions    BookingActions
	payouts    PayoutProcessor
	bookings   BookingReader
	payments   PaymentReader
	activities ActivityReader
	stats      StatsCollector
	logger     *slog.Logger
}

func NewHandler(
	actions BookingActions,
	payouts PayoutProcessor,
	bookings BookingReader,
	payments PaymentReader,
	activities ActivityReader,
	stats StatsCollector,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		actions:    actions,
		payouts:    payouts,
		bookings:   bookings,
		payments:   payments,
		activities: activities,
		stats:      stats,
		logger:     logger,
	}
}

func (h *Handler) Register(app *fiber.App) {
	admin := app.Group("/api/admin")
	admin.Get("/bookings/:id", h.GetBooking)
	admin.Patch("/bookings/:id", h.ApplyBookingAction)
	admin.Get("/bookings/:id/activity", h.ListBookingActivity)
	admin.Post("/payments/:id/process", h.ProcessPayout)
	admin.Get("/stats", h.GetStats)
}

type actionRequest struct {
	Action  string `json:"action"`
	ActorID string `json:"actorId"`
}

func (h *Handler) ApplyBookingAction(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorStatus(c, fiber.StatusBadRequest, "INVALID_REQUEST", "Invalid booking id", false)
	}

	var req actionRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WarnContext(c.UserContext(), "Rejected malformed action request", "error", err)
		return errorStatus(c, fiber.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", false)
	}

	actorID, err := uuid.Parse(req.ActorID)
	if err != nil {
		return errorStatus(c, fiber.StatusBadRequest, "INVALID_REQUEST", "Invalid actor id", false)
	}

	ctx := logcontext.AppendCtx(c.UserContext(), slog.String("requestId", uuid.New().String()))

	result, err := h.actions.ApplyAction(ctx, bookingID, req.Action, actorID)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return SuccessResponse(c, "Booking "+req.Action+" applied successfully", actionResultView(result))
}

func (h *Handler) GetBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorStatus(c, fiber.StatusBadRequest, "INVALID_REQUEST", "Invalid booking id", false)
	}

	entity, err := h.bookings.GetByID(c.UserContext(), bookingID)
	if err != nil {
		return ErrorResponse(c, err)
	}
	if entity == nil {
		return errorStatus(c, fiber.StatusNotFound, "NOT_FOUND", "Booking not found", false)
	}

	payment, err := h.payments.GetByBookingID(c.UserContext(), bookingID)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return SuccessResponse(c, "", bookingDetailView{
		Booking: bookingView(entity),
		Payment: paymentView(payment),
	})
}

func (h *Handler) ListBookingActivity(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorStatus(c, fiber.StatusBadRequest, "INVALID_REQUEST", "Invalid booking id", false)
	}

	activities, err := h.activities.ListByBookingID(c.UserContext(), bookingID)
	if err != nil {
		return ErrorResponse(c, err)
	}

	views := make([]*activityJSON, 0, len(activities))
	for _, activity := range activities {
		views = append(views, activityView(activity))
	}
	return SuccessResponse(c, "", views)
}

func (h *Handler) ProcessPayout(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorStatus(c, fiber.StatusBadRequest, "INVALID_REQUEST", "Invalid payment id", false)
	}

	ctx := logcontext.AppendCtx(c.UserContext(), slog.String("requestId", uuid.New().String()))

	payment, err := h.payouts.ProcessPayout(ctx, paymentID)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return SuccessResponse(c, "Payout processed successfully", paymentView(payment))
}

func (h *Handler) GetStats(c *fiber.Ctx) error {
	stats, err := h.stats.Collect(c.UserContext())
	if err != nil {
		return ErrorResponse(c, err)
	}
	return SuccessResponse(c, "", stats)
}
