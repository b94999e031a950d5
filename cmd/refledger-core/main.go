package main

// @title           Refledger Core API
// @version         1.0
// @description     Tamper-evident bibliographic journal. Refledger Core keeps an append-only, hash-chained journal of library records and serves a materialized read API over it.

// @contact.name   Refledger OSS
// @contact.url    https://github.com/refledger/refledger-core/issues

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/refledger/refledger-core/internal/adapters/driven/auth"
	"github.com/refledger/refledger-core/internal/adapters/driven/journalfile"
	"github.com/refledger/refledger-core/internal/adapters/driven/memory"
	"github.com/refledger/refledger-core/internal/adapters/driven/postgres"
	redisadapter "github.com/refledger/refledger-core/internal/adapters/driven/redis"
	"github.com/refledger/refledger-core/internal/adapters/driven/sourcefile"
	httpserver "github.com/refledger/refledger-core/internal/adapters/driving/http"
	"github.com/refledger/refledger-core/internal/core/ports/driven"
	"github.com/refledger/refledger-core/internal/core/ports/driving"
	"github.com/refledger/refledger-core/internal/core/services"
	"github.com/refledger/refledger-core/internal/worker"
)

var version = "dev"

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Get run mode from environment (RUN_MODE) or command line arg
	mode := getEnv("RUN_MODE", "api")
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	log.Printf("refledger-core %s starting in %s mode", version, mode)

	// Configuration from environment
	journalPath := getEnv("JOURNAL_PATH", "data/journal.jsonl")
	lookupPath := getEnv("LOOKUP_PATH", "data/lookup.json")
	sourcePath := getEnv("SOURCE_EXPORT_PATH", "")
	jwtSecret := getEnv("JWT_SECRET", "development-secret-change-in-production")
	adminEmail := getEnv("ADMIN_EMAIL", "admin@localhost")
	adminHash := getEnv("ADMIN_PASSWORD_HASH", "")
	port := getEnvInt("PORT", 8080)
	host := getEnv("HOST", "0.0.0.0")
	databaseURL := getEnv("DATABASE_URL", "")
	redisURL := getEnv("REDIS_URL", "")
	syncIntervalMin := getEnvInt("SYNC_INTERVAL_MIN", 0)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Journal store (system of record) =====
	journal, err := journalfile.Open(journalPath, slog.Default())
	if err != nil {
		log.Fatalf("Failed to open journal: %v", err)
	}
	defer journal.Close()
	log.Printf("Journal open at %s (last sequence %d)", journalPath, journal.LastSequence())

	lookup, err := journalfile.OpenLookup(lookupPath)
	if err != nil {
		log.Fatalf("Failed to open lookup: %v", err)
	}

	// ===== Postgres mirror (optional, write-behind) =====
	var mirror driven.JournalMirror
	if databaseURL != "" {
		log.Println("Connecting to PostgreSQL mirror...")
		db, err := postgres.Connect(ctx, postgres.DefaultConfig(databaseURL))
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		pgMirror := postgres.NewMirror(db)
		if err := pgMirror.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize mirror schema: %v", err)
		}
		mirror = pgMirror
		log.Println("PostgreSQL mirror connected")
	}

	// ===== Redis (optional) =====
	var redisClient *redis.Client
	if redisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	// ===== Session store (Redis if available, otherwise in-memory) =====
	var sessionStore driven.SessionStore
	if redisClient != nil {
		sessionStore = redisadapter.NewSessionStore(redisClient)
		log.Println("Using Redis session store")
	} else {
		sessionStore = memory.NewSessionStore()
		log.Println("Using in-memory session store")
	}

	// ===== Auth =====
	authAdapter := auth.NewAdapter(jwtSecret)
	if adminHash == "" {
		// Dev fallback; real deployments set ADMIN_PASSWORD_HASH
		adminHash, err = authAdapter.HashPassword(getEnv("ADMIN_PASSWORD", "admin"))
		if err != nil {
			log.Fatalf("Failed to hash fallback admin password: %v", err)
		}
		log.Println("Warning: ADMIN_PASSWORD_HASH not set, using development credentials")
	}
	authService := services.NewAuthService(adminEmail, adminHash, sessionStore, authAdapter)

	// ===== Library service =====
	library := services.NewLibrary(services.LibraryConfig{
		Journal: journal,
		Lookup:  lookup,
		Mirror:  mirror,
	})

	// ===== Source (optional) =====
	var source *sourcefile.Source
	if sourcePath != "" {
		source = sourcefile.New(sourcePath)
	}

	switch mode {
	case "api":
		runAPI(ctx, library, authService, source, host, port, syncIntervalMin)

	case "import":
		if source == nil {
			log.Fatal("import mode requires SOURCE_EXPORT_PATH")
		}
		importer := services.NewImporter(services.ImporterConfig{
			Reader:  source,
			Journal: journal,
			Lookup:  lookup,
		})
		stats, err := importer.Run(ctx)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Import complete: %d collections, %d items, %d attachments, %d notes, %d memberships (%d entries)",
			stats.Collections, stats.Items, stats.Attachments, stats.Notes, stats.Memberships, stats.Entries)

	case "sync":
		if source == nil {
			log.Fatal("sync mode requires SOURCE_EXPORT_PATH")
		}
		if err := library.Load(ctx); err != nil {
			log.Fatalf("Failed to load index: %v", err)
		}
		reconciler := services.NewReconciler(services.ReconcilerConfig{
			Source:  source,
			Library: library,
		})
		result, err := reconciler.Run(ctx)
		if err != nil {
			log.Fatalf("Sync failed: %v", err)
		}
		log.Printf("Sync complete: %d appended, %d skipped, %d conflicts (version %d)",
			result.Stats.Appended(), result.Stats.Skipped, result.Stats.TypeConflicts, result.LastVersion)

	case "verify":
		if err := journal.Verify(ctx); err != nil {
			log.Fatalf("Journal verification FAILED: %v", err)
		}
		log.Printf("Journal verified: %d entries, chain intact", journal.LastSequence())

	default:
		log.Fatalf("Unknown mode: %s (expected api, import, sync, or verify)", mode)
	}
}

// runAPI replays the journal, starts the optional sync worker, and serves
// HTTP until shutdown.
func runAPI(
	ctx context.Context,
	library *services.Library,
	authService driving.AuthService,
	source *sourcefile.Source,
	host string,
	port int,
	syncIntervalMin int,
) {
	log.Println("Replaying journal...")
	start := time.Now()
	if err := library.Load(ctx); err != nil {
		log.Fatalf("Failed to replay journal: %v", err)
	}
	log.Printf("Journal replayed in %v (version %d)", time.Since(start), library.Version(ctx))

	var reconciler driving.SyncReconciler
	if source != nil {
		reconciler = services.NewReconciler(services.ReconcilerConfig{
			Source:  source,
			Library: library,
		})
	}

	// Optional periodic sync
	if reconciler != nil && syncIntervalMin > 0 {
		w := worker.New(worker.Config{
			Reconciler: reconciler,
			Interval:   time.Duration(syncIntervalMin) * time.Minute,
		})
		w.Start(ctx)
		defer w.Stop()
	}

	server := httpserver.NewServer(httpserver.Config{
		Host:    host,
		Port:    port,
		Version: version,
	}, library, authService, reconciler)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = server.Stop(shutdownCtx)
	}()

	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
