package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-outreach/internal/config"
	"github.com/xavierca1/ligue-outreach/internal/infra/database"
	"github.com/xavierca1/ligue-outreach/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-outreach/internal/infra/integration/groq"
	"github.com/xavierca1/ligue-outreach/internal/infra/integration/messenger"
	"github.com/xavierca1/ligue-outreach/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-outreach/internal/infra/mail"
	"github.com/xavierca1/ligue-outreach/internal/infra/queue"
	"github.com/xavierca1/ligue-outreach/internal/usecase"
)

func main() {
	godotenv.Load()

	// Configuração/credencial faltando é fatal: melhor abortar do que
	// degradar em silêncio.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Falha ao conectar no Postgres: %v", err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.Rabbit.User, cfg.Rabbit.Pass, cfg.Rabbit.Host, cfg.Rabbit.Port)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	followupRepo := database.NewFollowupRepository(db)
	historyRepo := database.NewHistoryRepository(db)

	// 2. Canais e gerador
	phoneChannel, err := whatsapp.NewClient(cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneID, cfg.WhatsApp.BaseURL)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	socialChannel, err := messenger.NewClient(cfg.Messenger.BridgeURL)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	generator, err := groq.NewClient(cfg.Groq.APIKey, cfg.Groq.Model, cfg.Groq.Temperature)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	alertSender := mail.NewAlertSender(
		cfg.Alert.Host, cfg.Alert.Port, cfg.Alert.User, cfg.Alert.Pass, cfg.Alert.Recipient,
	)

	// 3. Núcleo
	composer := usecase.NewMessageComposer(generator, historyRepo, cfg.MaxHistoryEntries)
	scheduler := usecase.NewFollowupScheduler(followupRepo, historyRepo, composer, phoneChannel, cfg.FollowupGrace)
	dispatcher := usecase.NewDispatcher(leadRepo, historyRepo, scheduler, phoneChannel, socialChannel)
	orchestrator := usecase.NewOrchestrator(
		leadRepo, dispatcher, scheduler, composer, alertSender,
		cfg.PassInterval, cfg.DailyWindowStart, cfg.DailyWindowEnd,
	)

	// 4. Ingest worker (posts classificados → leads)
	worker := queue.NewWorker(rabbitMQ.Ch, leadRepo, cfg.ClassifyMinConfidence)
	go worker.Start(queue.QueueName)

	// 5. HTTP (health, followups, reply webhook, metrics)
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)
	followupHandler := handlers.NewFollowupHandler(followupRepo)
	replyHandler := handlers.NewReplyHandler(scheduler)

	r.Get("/health", healthHandler.Handle)
	r.Get("/followups", followupHandler.HandleListPending)
	r.Post("/webhook/reply", replyHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: r}
	go func() {
		log.Printf("🔥 API de status rodando na porta :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Servidor HTTP: %v", err)
		}
	}()

	// 6. Loop principal, até SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchestrator.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)
}
