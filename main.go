package main

import (
	"log"

	"booking-admin-service/internal/booking"
	"booking-admin-service/internal/config"
	"booking-admin-service/internal/db"
	"booking-admin-service/internal/event"
	"booking-admin-service/internal/fees"
	"booking-admin-service/internal/httpapi"
	"booking-admin-service/internal/kafka"
	"booking-admin-service/internal/logging"
	"booking-admin-service/internal/metrics"
	"booking-admin-service/internal/payout"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoadConfig("./config")

	logger := logging.GetLogger(cfg.Logs)
	metrics.Setup(cfg.Metrics)

	connStr := cfg.Database.ConnString()
	db.RunMigrations(connStr, "./migrations")

	dbpool, err := db.GetPool(connStr)
	if err != nil {
		log.Fatal(err)
	}
	defer dbpool.Close()

	bookingRepo := db.NewBookingRepository(dbpool)
	paymentRepo := db.NewPaymentRepository(dbpool)
	activityRepo := db.NewActivityRepository(dbpool)
	statsRepo := db.NewStatsRepository(dbpool)

	activityWriter := kafka.NewWriter(cfg.Kafka, cfg.Kafka.Topic.BookingActivity)
	defer activityWriter.Close()
	publisher := event.NewPublisher(activityWriter, logger)

	calculator := fees.NewCalculator(cfg.Fees.PlatformFeePercentage)

	bookingService := booking.NewService(bookingRepo, paymentRepo, activityRepo, calculator, publisher, logger)

	authority := payout.NewHTTPAuthority(cfg.Payout.AuthorityURL, cfg.Payout.TimeoutMs)
	payoutService := payout.NewService(paymentRepo, bookingRepo, activityRepo, authority, cfg.Payout.TimeoutMs, logger)

	payoutReader := kafka.NewReader(cfg.Kafka.Broker.URL, cfg.Kafka.Topic.PayoutRequests, cfg.Kafka.Reader.GroupID)
	defer payoutReader.Close()
	kafka.ReadPayoutRequests(payoutReader, payoutService, logger)

	app := fiber.New()
	app.Get("/liveness", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	handler := httpapi.NewHandler(bookingService, payoutService, bookingRepo, paymentRepo, activityRepo, statsRepo, logger)
	handler.Register(app)

	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
