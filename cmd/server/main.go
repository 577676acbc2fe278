package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/suraja9/ocl-services/internal/auth"
	"github.com/suraja9/ocl-services/internal/booking/model"
	"github.com/suraja9/ocl-services/internal/booking/router"
	"github.com/suraja9/ocl-services/internal/booking/service"
	"github.com/suraja9/ocl-services/internal/booking/wizard"
	"github.com/suraja9/ocl-services/internal/config"
	"github.com/suraja9/ocl-services/internal/database"
	"github.com/suraja9/ocl-services/internal/events"
	"github.com/suraja9/ocl-services/internal/intake"
	"github.com/suraja9/ocl-services/internal/middleware"
	"github.com/suraja9/ocl-services/internal/otp"
	"github.com/suraja9/ocl-services/internal/pincode"
	"github.com/suraja9/ocl-services/internal/uploads"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"db_sslmode", cfg.Database.SSLMode,
	)

	slog.Info("server configuration",
		"port", cfg.Server.Port,
		"kafka_enabled", cfg.Kafka.Enabled,
		"storage_type", cfg.Storage.Type,
	)

	// Initialize database connection
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	ctx := context.Background()

	// Document storage
	storage, err := uploads.NewStorageFromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}
	uploadService := uploads.NewService(storage, db)

	// Event bus, with an optional Kafka sink behind it
	var sink events.Sink
	var kafkaSink *events.KafkaSink
	if cfg.Kafka.Enabled {
		kafkaSink = events.NewKafkaSink(cfg.Kafka.BrokerAddr, cfg.Kafka.Topic)
		sink = kafkaSink
		slog.Info("kafka sink enabled", "broker", cfg.Kafka.BrokerAddr, "topic", cfg.Kafka.Topic)
	}
	bus := events.NewBus(sink)

	// Booking flow
	bookingService := service.NewBookingService(db)
	submitter := wizard.NewSubmitter(bookingService, uploadService, service.Numbers{}, bus)
	sessionService := wizard.NewSessionService(db, submitter)
	pincodeService := pincode.NewService(db)
	otpService := otp.NewService(db, otp.LogSender{}, cfg.OTP.TTL)
	bookingRouter := router.NewBookingRouter(bookingService, sessionService, pincodeService, otpService)

	// Intake scan desks
	intakeStore := intake.NewStore(db)
	adminLog := intake.NewReceivedLog(db, intake.ChannelAdmin)
	medicineLog := intake.NewReceivedLog(db, intake.ChannelMedicine)
	adminResolver := intake.NewResolver(intakeStore.Sources(model.StatusReceived), adminLog, bus)
	medicineResolver := intake.NewResolver(intakeStore.Sources(model.StatusArrivedAtHub), medicineLog, bus)
	intakeHandler := intake.NewHandler(adminResolver, medicineResolver, map[string]*intake.ReceivedLog{
		intake.ChannelAdmin:    adminLog,
		intake.ChannelMedicine: medicineLog,
	}, intakeStore, bus)

	// Auth
	authService := auth.NewAuthService(db)
	uploadHandler := uploads.NewHTTPHandler(uploadService)

	// Set up HTTP routes
	mux := http.NewServeMux()

	// Booking wizard and lookups
	mux.HandleFunc("GET /api/pincodes/{pincode}", bookingRouter.HandleLookupPincode)
	mux.HandleFunc("GET /api/addresses", bookingRouter.HandleSearchAddresses)
	mux.HandleFunc("POST /api/otp/send", bookingRouter.HandleSendOTP)
	mux.HandleFunc("POST /api/otp/verify", bookingRouter.HandleVerifyOTP)
	mux.HandleFunc("POST /api/wizard/sessions", bookingRouter.HandleCreateSession)
	mux.HandleFunc("GET /api/wizard/sessions/{sessionID}", bookingRouter.HandleGetSession)
	mux.HandleFunc("POST /api/wizard/sessions/{sessionID}/actions", bookingRouter.HandleApplyAction)
	mux.HandleFunc("POST /api/wizard/sessions/{sessionID}/next", bookingRouter.HandleNextStep)
	mux.HandleFunc("POST /api/wizard/sessions/{sessionID}/previous", bookingRouter.HandlePreviousStep)
	mux.HandleFunc("POST /api/wizard/sessions/{sessionID}/reset", bookingRouter.HandleResetSession)
	mux.HandleFunc("POST /api/wizard/sessions/{sessionID}/submit", bookingRouter.HandleSubmitSession)
	mux.HandleFunc("GET /api/office-bookings/{bookingID}", bookingRouter.HandleGetBooking)
	mux.HandleFunc("GET /api/office-bookings/{bookingID}/invoice", bookingRouter.HandleGetInvoice)
	mux.HandleFunc("GET /api/assignees", bookingRouter.HandleListAssignees)

	// Uploads
	mux.HandleFunc("POST /api/uploads", uploadHandler.Upload)
	mux.HandleFunc("GET /api/uploads/{key...}", uploadHandler.Download)

	// Scan desks; role checks guard the medicine desk separately
	officeOnly := auth.RequireRole(auth.RoleOffice)
	medicineOnly := auth.RequireRole(auth.RoleMedicine)
	mux.Handle("POST /api/intake/scan", officeOnly(http.HandlerFunc(intakeHandler.HandleScan)))
	mux.Handle("POST /api/intake/medicine/scan", medicineOnly(http.HandlerFunc(intakeHandler.HandleMedicineScan)))
	mux.Handle("GET /api/intake/received", officeOnly(http.HandlerFunc(intakeHandler.HandleListReceived)))
	mux.Handle("GET /api/intake/received/recent", officeOnly(http.HandlerFunc(intakeHandler.HandleRecentReceived)))
	mux.Handle("DELETE /api/intake/medicine/received", medicineOnly(http.HandlerFunc(intakeHandler.HandleClearMedicineReceived)))
	mux.Handle("PATCH /api/tracking/{consignmentNumber}/weight", officeOnly(http.HandlerFunc(intakeHandler.HandleUpdateWeight)))

	// Wrap with auth resolution and CORS
	handler := middleware.CORS(&cfg.CORS)(auth.Middleware(authService)(mux))

	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: handler,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			slog.Error("failed to close kafka sink", "error", err)
		}
	}

	slog.Info("server stopped")
}
