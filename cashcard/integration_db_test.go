package cashcard_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/Laieb786/tutorial-spring-boot/cashcard"
	"github.com/Laieb786/tutorial-spring-boot/cashcard/models"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// TestPGRepositoryRoundTrip exercises the db-backed record store.
// Skips unless DB_DSN is provided and REPO_BACKEND=pg.
func TestPGRepositoryRoundTrip(t *testing.T) {
	if os.Getenv("REPO_BACKEND") != "pg" {
		t.Skip("REPO_BACKEND != pg; skipping DB integration test")
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		t.Skip("DB_DSN not set; skipping DB integration test")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Fatalf("ping db: %v", err)
	}

	ctx := context.Background()
	repo := cashcard.NewPGRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	owner := "it-owner-" + t.Name()

	created, err := repo.Create(ctx, decimal.RequireFromString("250.00"), owner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("create returned zero id")
	}

	got, err := repo.Get(ctx, created.ID, owner)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Amount.Equal(decimal.RequireFromString("250.00")) {
		t.Fatalf("amount mismatch: got %s want 250.00", got.Amount)
	}

	// Another owner must not be able to see the card.
	if _, err := repo.Get(ctx, created.ID, "someone-else"); err != cashcard.ErrNotFound {
		t.Fatalf("cross-owner get: got %v want ErrNotFound", err)
	}

	items, total, err := repo.List(ctx, owner, models.DefaultPageRequest())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != created.ID {
		t.Fatalf("list mismatch: total=%d items=%d", total, len(items))
	}
}

// TestPGRepositoryListSnapshot lists an owner's cards while a writer keeps
// inserting for the same owner; within a single List call the items and the
// total must describe the same snapshot, so with a page large enough to hold
// everything their sizes must agree.
// Skips unless DB_DSN is provided and REPO_BACKEND=pg.
func TestPGRepositoryListSnapshot(t *testing.T) {
	if os.Getenv("REPO_BACKEND") != "pg" {
		t.Skip("REPO_BACKEND != pg; skipping DB integration test")
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		t.Skip("DB_DSN not set; skipping DB integration test")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := cashcard.NewPGRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	owner := "it-owner-" + t.Name()
	one := decimal.RequireFromString("1.00")

	done := make(chan struct{})
	writerErr := make(chan error, 1)
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			if _, err := repo.Create(ctx, one, owner); err != nil {
				writerErr <- err
				return
			}
		}
	}()

	page := models.DefaultPageRequest()
	page.Size = models.MaxPageSize

	for i := 0; i < 50; i++ {
		items, total, err := repo.List(ctx, owner, page)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(items) != total {
			t.Fatalf("items and total disagree within one call: items=%d total=%d", len(items), total)
		}
	}

	<-done
	select {
	case err := <-writerErr:
		t.Fatalf("writer: %v", err)
	default:
	}
}
