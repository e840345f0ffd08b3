package bike

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

var bikeColumns = []string{"id", "name", "type", "price", "description"}

func TestList_RoundTripsRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(bikeColumns).
		AddRow(1, "City Cruiser", "City", "299.99", "Perfect for urban commuting").
		AddRow(2, "Mystery", "Road", 1000.5, nil)
	mock.ExpectQuery("SELECT id, name, type, price, description FROM bikes").WillReturnRows(rows)

	bikes, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(bikes) != 2 {
		t.Fatalf("expected 2 bikes, got %d", len(bikes))
	}
	first := bikes[0]
	if first.ID != 1 || first.Name != "City Cruiser" || first.Category != "City" || first.Price != 299.99 {
		t.Fatalf("unexpected first bike %+v", first)
	}
	if first.Description == nil || *first.Description != "Perfect for urban commuting" {
		t.Fatalf("unexpected description %v", first.Description)
	}
	if bikes[1].Description != nil {
		t.Fatalf("expected NULL description to stay nil, got %q", *bikes[1].Description)
	}
	if bikes[1].Price != 1000.5 {
		t.Fatalf("unexpected price %v", bikes[1].Price)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestList_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM bikes").WillReturnError(errors.New("no such table"))

	bikes, err := repo.List(context.Background())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if bikes != nil {
		t.Fatalf("expected no bikes on failure, got %v", bikes)
	}
}

func TestList_RowErrorReturnsNoPartialList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(bikeColumns).
		AddRow(1, "City Cruiser", "City", 299.99, "ok").
		AddRow(2, "Road Racer", "Road", 899.99, "ok").
		RowError(1, errors.New("connection reset"))
	mock.ExpectQuery("FROM bikes").WillReturnRows(rows)

	bikes, err := repo.List(context.Background())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if len(bikes) != 0 {
		t.Fatalf("expected no partial list, got %d bikes", len(bikes))
	}
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS bikes").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSeedIfEmpty_InsertsWhenEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bikes`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	for i, b := range SeedBikes {
		mock.ExpectExec("INSERT INTO bikes").
			WithArgs(b.Name, b.Category, b.Price, *b.Description).
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	mock.ExpectCommit()

	n, err := repo.SeedIfEmpty(context.Background(), SeedBikes)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 inserted rows, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSeedIfEmpty_SkipsWhenPopulated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bikes`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.SeedIfEmpty(context.Background(), SeedBikes)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no inserts, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSeedIfEmpty_RollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bikes`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bikes").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if _, err := repo.SeedIfEmpty(context.Background(), SeedBikes); err == nil {
		t.Fatalf("expected seed error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
