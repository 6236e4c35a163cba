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

	"github.com/letterdraw/letterdraw-backend/api/routes"
	"github.com/letterdraw/letterdraw-backend/internal/config"
	"github.com/letterdraw/letterdraw-backend/internal/handlers"
	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/internal/repositories"
	memrepo "github.com/letterdraw/letterdraw-backend/internal/repositories/memory"
	mongorepo "github.com/letterdraw/letterdraw-backend/internal/repositories/mongodb"
	"github.com/letterdraw/letterdraw-backend/internal/services"
	"github.com/letterdraw/letterdraw-backend/pkg/jwt"
	"github.com/letterdraw/letterdraw-backend/pkg/mongodb"
	"github.com/letterdraw/letterdraw-backend/pkg/paygate"
	"github.com/letterdraw/letterdraw-backend/pkg/vrfclient"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type repoSet struct {
	rounds   repositories.RoundRepository
	tickets  repositories.TicketRepository
	pending  repositories.PendingRequestRepository
	claims   repositories.ClaimRepository
	fees     repositories.FeeLedgerRepository
	events   repositories.EventRepository
	settings repositories.SettingsRepository
	users    repositories.AdminUserRepository
}

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	seed := &models.EngineSettings{
		TicketPrice:       cfg.Engine.TicketPrice,
		TicketThreshold:   cfg.Engine.TicketThreshold,
		FeeSplitPercent:   cfg.Engine.FeeSplitPercent,
		FeeReceiver1:      cfg.Engine.FeeReceiver1,
		FeeReceiver2:      cfg.Engine.FeeReceiver2,
		VRFSubscriptionID: cfg.Engine.VRFSubscriptionID,
	}

	var repos repoSet
	if cfg.MongoDB.InMemory {
		log.Println("Using in-memory repositories")
		repos = repoSet{
			rounds:   memrepo.NewRoundRepository(),
			tickets:  memrepo.NewTicketRepository(),
			pending:  memrepo.NewPendingRequestRepository(),
			claims:   memrepo.NewClaimRepository(),
			fees:     memrepo.NewFeeLedgerRepository(),
			events:   memrepo.NewEventRepository(),
			settings: memrepo.NewSettingsRepository(seed),
			users:    memrepo.NewAdminUserRepository(),
		}
	} else {
		mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Printf("Error disconnecting from MongoDB: %v", err)
			}
		}()

		db := mongoClient.Database(cfg.MongoDB.Database)
		repos = repoSet{
			rounds:   mongorepo.NewRoundRepository(db),
			tickets:  mongorepo.NewTicketRepository(db),
			pending:  mongorepo.NewPendingRequestRepository(db),
			claims:   mongorepo.NewClaimRepository(db),
			fees:     mongorepo.NewFeeLedgerRepository(db),
			events:   mongorepo.NewEventRepository(db),
			settings: mongorepo.NewSettingsRepository(db),
			users:    mongorepo.NewAdminUserRepository(db),
		}

		if err := seedSettings(repos.settings, seed); err != nil {
			log.Fatalf("Failed to seed engine settings: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("Redis unreachable, rate limiting disabled: %v", err)
			redisClient = nil
		}
	}

	vrf := vrfclient.NewClient(cfg.VRF.BaseURL, cfg.VRF.APIKey, cfg.VRF.Mock)

	var gateway paygate.Gateway
	if cfg.Paygate.Mock {
		gateway = paygate.NewMockGateway()
	} else {
		gateway = paygate.NewHTTPGateway(cfg.Paygate.BaseURL, cfg.Paygate.APIKey)
	}

	if cfg.JWT.Secret == "" {
		log.Fatal("JWT secret is not configured")
	}
	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	broadcaster := services.NewWSBroadcaster()
	eventService := services.NewEventService(repos.events, broadcaster)
	roundService := services.NewRoundService(
		repos.rounds, repos.tickets, repos.pending, repos.settings,
		vrf,
		services.VRFParams{
			KeyHash:          cfg.VRF.KeyHash,
			Confirmations:    cfg.VRF.Confirmations,
			CallbackGasLimit: cfg.VRF.CallbackGasLimit,
		},
		eventService,
	)
	feeService := services.NewFeeService(repos.fees, repos.settings, gateway, eventService)
	claimService := services.NewClaimService(repos.rounds, repos.claims, gateway, feeService, eventService)
	authService := services.NewAuthService(repos.users, tokens)

	seedUsers(authService, cfg)

	h := routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService),
		Ticket: handlers.NewTicketHandler(roundService),
		Claim:  handlers.NewClaimHandler(claimService),
		Oracle: handlers.NewOracleHandler(roundService, cfg.VRF.CallbackToken),
		Admin:  handlers.NewAdminHandler(roundService),
		Round:  handlers.NewRoundHandler(roundService, claimService, feeService, eventService),
		WS:     handlers.NewWSHandler(broadcaster),
	}

	router := routes.SetupRouter(cfg, tokens, redisClient, h)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}

// seedSettings writes the configured defaults once; an existing
// settings document wins.
func seedSettings(repo repositories.SettingsRepository, seed *models.EngineSettings) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return repo.Update(ctx, seed)
}

// seedUsers creates the configured admin and authority accounts when
// their passwords are set. Missing passwords skip seeding; accounts
// can then only come from the database directly.
func seedUsers(auth services.AuthService, cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.Admin.Password != "" {
		if err := auth.EnsureUser(ctx, cfg.Admin.Email, cfg.Admin.Password, models.RoleAdmin); err != nil {
			log.Printf("Failed to seed admin user: %v", err)
		}
	}
	if cfg.Admin.AuthorityPassword != "" {
		if err := auth.EnsureUser(ctx, cfg.Admin.AuthorityEmail, cfg.Admin.AuthorityPassword, models.RoleAuthority); err != nil {
			log.Printf("Failed to seed authority user: %v", err)
		}
	}
}
