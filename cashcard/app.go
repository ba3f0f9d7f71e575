package cashcard

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Laieb786/tutorial-spring-boot/cashcard/models"
	"github.com/Laieb786/tutorial-spring-boot/internal/auth"
	"github.com/Laieb786/tutorial-spring-boot/internal/middleware"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slog"
)

// App is the main application, it contains all the components of the cash
// card service and is responsible for starting and stopping them.
type App struct {
	srv    *http.Server
	wg     *sync.WaitGroup
	Addr   string
	logger *slog.Logger
	config *Config
	db     *sql.DB
}

func NewApp(logger *slog.Logger, config *Config) *App {
	logger = logger.With(slog.String("app", "cashcard"))

	if config == nil {
		config = DefaultConfig()
	}

	return &App{
		wg:     &sync.WaitGroup{},
		logger: logger,
		config: config,
	}
}

func (a *App) Start() error {
	a.logger.Info("starting app...")

	router := chi.NewRouter()
	router.Use(middleware.NewStructuredLogger(a.logger))

	var repository *Repository
	switch a.config.RepoBackend {
	case "pg":
		if a.config.DatabaseDSN == "" {
			return fmt.Errorf("DB_DSN is required for pg backend")
		}
		db, err := sql.Open("postgres", a.config.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxIdleConns(5)
		db.SetMaxOpenConns(10)
		if err := db.Ping(); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		a.db = db
		repository = NewPGRepository(db)
		if err := repository.Migrate(context.Background()); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	case "mem":
		repository = NewRepository()
	default:
		return fmt.Errorf("unsupported REPO_BACKEND=%s", a.config.RepoBackend)
	}

	if a.config.SeedDemoData {
		if err := repository.Seed(context.Background(), demoCards()); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
	}

	credentials, err := auth.NewStore(a.config.Users)
	if err != nil {
		return fmt.Errorf("building credential store: %w", err)
	}

	api := NewAPI(NewService(repository))

	// Health endpoints stay outside the auth boundary.
	router.Get("/-/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Get("/-/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := repository.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.RequireBasicAuth(credentials))
		api.AppendRoutes(r)
	})

	l, err := net.Listen("tcp", a.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening tcp port: %w", err)
	}

	a.Addr = l.Addr().String()

	a.srv = &http.Server{
		Handler: router,
	}

	a.wg.Add(1)
	go func() {
		a.logger.Info("http server started", slog.String("addr", a.Addr))

		if err := a.srv.Serve(l); err != nil {
			if err != http.ErrServerClosed {
				a.logger.Error("starting http server", "err", err)
			}

			a.logger.Info("http server stopped")
		}

		a.wg.Done()
	}()

	return nil
}

func (a *App) Shutdown() {
	a.logger.Info("shutting down app...")

	a.srv.Shutdown(context.Background())

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("closing db", "err", err)
		}
	}

	a.wg.Wait()

	a.logger.Info("app stopped")
}

// demoCards are the fixtures loaded when SeedDemoData is set.
func demoCards() []models.CashCard {
	return []models.CashCard{
		{ID: 99, Amount: decimal.RequireFromString("123.45"), OwnerID: "sarah1"},
		{ID: 100, Amount: decimal.RequireFromString("1.00"), OwnerID: "sarah1"},
		{ID: 101, Amount: decimal.RequireFromString("150.00"), OwnerID: "sarah1"},
		{ID: 102, Amount: decimal.RequireFromString("200.00"), OwnerID: "kumar2"},
	}
}
