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

	"bhraman/admin"
	"bhraman/auth"
	"bhraman/booking"
	"bhraman/catalog"
	"bhraman/config"
	"bhraman/db"
	"bhraman/filemgr"
	"bhraman/home"
	"bhraman/memstore"
	"bhraman/middleware"
	"bhraman/mq"
	"bhraman/ratelim"
	"bhraman/rdx"
	"bhraman/routes"
	"bhraman/users"
	"bhraman/utils"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

const eventsChannel = "bhraman-events"

type stores struct {
	users    users.Store
	packages catalog.Store
	bookings booking.Store
	home     home.Store
}

func openStores(ctx context.Context, cfg config.Config) (stores, *db.Pool, error) {
	if cfg.DBDriver == "memory" {
		log.Println("[DB] using in-memory stores; data is lost on exit")
		return stores{
			users:    memstore.NewUsers(),
			packages: memstore.NewPackages(),
			bookings: memstore.NewBookings(),
			home:     memstore.NewHome(),
		}, nil, nil
	}

	pool := db.NewPool(db.Options{
		URI:         cfg.MongoURI,
		Database:    cfg.MongoDB,
		MaxAttempts: cfg.DBMaxAttempts,
		Cooldown:    cfg.DBCooldown,
	})
	// the pool connects lazily, so a database that is down at boot only
	// costs the index bootstrap
	if err := db.EnsureIndexes(ctx, pool); err != nil {
		log.Printf("[DB] index bootstrap failed: %v", err)
	}
	return stores{
		users:    users.NewMongoStore(pool),
		packages: catalog.NewMongoStore(pool),
		bookings: booking.NewMongoStore(pool),
		home:     home.NewMongoStore(pool),
	}, pool, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 20*time.Second)
	st, pool, err := openStores(bootCtx, cfg)
	cancelBoot()
	if err != nil {
		log.Fatalf("stores: %v", err)
	}

	// events: log always, plus redis and rabbitmq when configured, plus the
	// live admin feed
	hub := booking.NewHub(cfg.CORSOrigins)
	publishers := mq.Fanout{mq.LogPublisher{}, hub}

	var cache home.Cache
	var redisClient *rdx.Client
	if cfg.RedisAddr != "" {
		redisClient = rdx.New(cfg.RedisAddr, cfg.RedisPassword)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx); err != nil {
			log.Printf("[Redis] ping failed, continuing without cache: %v", err)
			redisClient.Close()
			redisClient = nil
		} else {
			cache = redisClient
			publishers = append(publishers, mq.NewRedisPublisher(redisClient, eventsChannel))
			log.Printf("[Redis] connected addr=%s", cfg.RedisAddr)
		}
		cancel()
	}
	if cfg.DBDriver == "memory" && cache == nil {
		cache = memstore.NewCache()
	}

	var amqpPub *mq.AMQPPublisher
	if cfg.AMQPURL != "" {
		if amqpPub, err = mq.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange); err != nil {
			log.Printf("[AMQP] disabled: %v", err)
		} else {
			publishers = append(publishers, amqpPub)
		}
	}

	provider := auth.NewJWTProvider(cfg.JWTSecret, cfg.JWTIssuer)
	dir := users.NewDirectory(st.users)
	catalogSvc := catalog.NewService(st.packages)
	bookingSvc := booking.NewService(st.bookings, st.packages, st.users, publishers)
	homeSvc := home.NewService(st.home, cache, publishers)
	uploads := filemgr.NewStore(cfg.UploadDir, cfg.PublicBaseURL)

	limiter := ratelim.NewRateLimiter(cfg.RateLimitPerMinute)
	stopSweep := make(chan struct{})
	go limiter.Run(stopSweep)

	router := routes.NewRouter(routes.Deps{
		Provider:  provider,
		Gate:      admin.NewGate(provider, dir),
		Directory: dir,
		Limiter:   limiter,
		Users:     users.NewHandler(dir),
		Catalog:   catalog.NewHandler(catalogSvc),
		Bookings:  booking.NewHandler(bookingSvc, booking.NewInvoicer(cfg.InvoiceSecret)),
		Live:      hub,
		Home:      home.NewHandler(homeSvc),
		Uploads:   filemgr.NewHandler(uploads),
		Dashboard: admin.NewDashboard(bookingSvc, catalogSvc.Count, dir.Count),
		UploadDir: uploads.Root(),
		Health:    healthHandler(pool),
	})

	// CORS → security headers → request id → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
	}).Handler(router)
	handler := middleware.SecurityHeaders(middleware.RequestID(middleware.Logging(corsHandler)))

	server := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	server.RegisterOnShutdown(func() {
		log.Println("Closing live booking feed...")
		hub.Close()
	})

	go func() {
		log.Printf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
	close(stopSweep)
	if amqpPub != nil {
		if err := amqpPub.Close(); err != nil {
			log.Printf("[AMQP] close: %v", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("[Redis] close: %v", err)
		}
	}
	if pool != nil {
		if err := pool.Shutdown(ctx); err != nil {
			log.Printf("[DB] shutdown: %v", err)
		}
	}
	log.Println("Server stopped cleanly")
}

func healthHandler(pool *db.Pool) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if pool == nil {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "ok", "db": "memory"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			utils.RespondWithJSON(w, http.StatusServiceUnavailable, utils.M{"status": "degraded", "db": err.Error()})
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "ok", "db": "mongo"})
	}
}
