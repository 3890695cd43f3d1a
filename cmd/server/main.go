package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	accountrepo "eduplatform/backend/internal/account/repository"
	"eduplatform/backend/internal/audit"
	"eduplatform/backend/internal/audit/producer"
	auditrepo "eduplatform/backend/internal/audit/repository"
	"eduplatform/backend/internal/config"
	"eduplatform/backend/internal/credential/service"
	"eduplatform/backend/internal/db"
	"eduplatform/backend/internal/devotc"
	httphandler "eduplatform/backend/internal/handler/http"
	"eduplatform/backend/internal/notifier"
	"eduplatform/backend/internal/otc/store"
	"eduplatform/backend/internal/security"
	"eduplatform/backend/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "eduplatform-backend", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	// Redis holds verification codes when configured; Postgres otherwise, so a
	// single-node deployment needs no extra infrastructure.
	var codes service.CodeStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer client.Close()
		codes = store.NewRedisStore(client)
	} else {
		codes = store.NewPostgresStore(conn)
	}

	var send service.Notifier
	if cfg.MailAPIKey != "" {
		send = notifier.NewMailHTTPClient(cfg.MailAPIKey, cfg.MailBaseURL, cfg.MailSender)
	} else {
		log.Println("MAIL_API_KEY is not set; verification codes are logged, not delivered")
		send = notifier.LogNotifier{}
	}

	var devSink *devotc.MemorySink
	if cfg.CodeReturnToClient {
		log.Println("dev OTC mode enabled; codes are readable at GET /dev/otc")
		devSink = devotc.NewMemorySink()
	}

	kafkaProducer, err := producer.NewKafkaProducer(cfg.AuditKafkaBrokersList(), cfg.AuditKafkaTopic)
	if err != nil {
		log.Fatalf("kafka: %v", err)
	}
	auditLogger := audit.NewLogger(
		auditrepo.NewPostgresRepository(conn),
		kafkaProducer,
		otel.NewEventEmitter(providers.LoggerProvider),
	)

	svc := service.NewService(
		accountrepo.NewPostgresRepository(conn),
		codes,
		security.NewHasher(cfg.PBKDF2Iterations),
		send,
		sinkOrNil(devSink),
		auditLogger,
		cfg.CodeTTLDuration(),
	)

	router := httphandler.NewRouter(httphandler.NewHandler(svc), devSink, "eduplatform-backend")
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// Give in-flight async audit emits time to land before closing their sinks.
	time.Sleep(producer.ShutdownDrainDuration)
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			log.Printf("kafka close: %v", err)
		}
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}

// sinkOrNil converts a typed nil sink into an untyped nil so the service skips it.
func sinkOrNil(s *devotc.MemorySink) service.DevCodeSink {
	if s == nil {
		return nil
	}
	return s
}
