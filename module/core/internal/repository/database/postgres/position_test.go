package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/egebilir/ship-display/module/core/domain"
)

var positionColumns = []string{"latitude", "longitude", "heading", "display_heading", "speed", "satellites", "captured_at"}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS ship_positions`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := NewPositionRepo(db).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestInsert_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	ts := time.Unix(1715003456, 0)
	mock.ExpectExec(`INSERT INTO ship_positions`).
		WithArgs(35.1028, 129.0403, 135.0, 90.0, 12.5, "9", ts).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewPositionRepo(db)
	err = repo.Insert(context.Background(), &domain.PositionRecord{
		Latitude:       35.1028,
		Longitude:      129.0403,
		Heading:        135,
		DisplayHeading: 90,
		Speed:          12.5,
		Satellites:     "9",
		Timestamp:      ts,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestInsert_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec(`INSERT INTO ship_positions`).
		WillReturnError(sqlmock.ErrCancelled)

	repo := NewPositionRepo(db)
	err = repo.Insert(context.Background(), &domain.PositionRecord{Latitude: 1, Longitude: 2, Satellites: "N/A"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestLatest_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	ts := time.Unix(1715003456, 0)
	rows := sqlmock.NewRows(positionColumns).
		AddRow(35.1028, 129.0403, 135.0, 90.0, 12.5, "9", ts)

	mock.ExpectQuery(`SELECT (.+) FROM ship_positions ORDER BY captured_at DESC LIMIT 1`).
		WillReturnRows(rows)

	rec, err := NewPositionRepo(db).Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Latitude != 35.1028 {
		t.Errorf("expected 35.1028, got %f", rec.Latitude)
	}
	if rec.Satellites != "9" {
		t.Errorf("expected 9, got %s", rec.Satellites)
	}
	if !rec.Timestamp.Equal(ts) {
		t.Errorf("expected %v, got %v", ts, rec.Timestamp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestLatest_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT (.+) FROM ship_positions`).
		WillReturnRows(sqlmock.NewRows(positionColumns))

	_, err = NewPositionRepo(db).Latest(context.Background())
	if err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestHistory_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	ts1 := time.Unix(1715005000, 0)
	ts2 := time.Unix(1715000000, 0)
	rows := sqlmock.NewRows(positionColumns).
		AddRow(35.2, 129.1, 0.0, 315.0, 0.0, "N/A", ts1).
		AddRow(35.1, 129.0, 45.0, 0.0, 3.0, "7", ts2)

	mock.ExpectQuery(`SELECT (.+) FROM ship_positions ORDER BY captured_at DESC LIMIT (.+)`).
		WithArgs(100).
		WillReturnRows(rows)

	results, err := NewPositionRepo(db).History(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Latitude != 35.2 {
		t.Errorf("expected newest first, got %f", results[0].Latitude)
	}
	if results[1].Satellites != "7" {
		t.Errorf("expected 7, got %s", results[1].Satellites)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestHistory_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT (.+) FROM ship_positions`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(positionColumns))

	results, err := NewPositionRepo(db).History(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", results)
	}
}

func TestHistory_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT (.+) FROM ship_positions`).
		WithArgs(10).
		WillReturnError(sqlmock.ErrCancelled)

	if _, err := NewPositionRepo(db).History(context.Background(), 10); err == nil {
		t.Fatal("expected error")
	}
}
