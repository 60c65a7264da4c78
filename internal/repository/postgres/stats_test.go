package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestStatsRepository_CountAndRevenue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewStatsRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT count\\(\\*\\), COALESCE").
		WithArgs(testDate(2025, 6, 15), testDate(2025, 6, 16)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "revenue"}).AddRow(3, 1500))

	count, revenue, err := repo.CountAndRevenue(ctx, testDate(2025, 6, 15), testDate(2025, 6, 16))
	assert.NoError(t, err)
	assert.Equal(t, int32(3), count)
	assert.Equal(t, int64(1500), revenue)
}

func TestStatsRepository_CreationCountsByDay(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewStatsRepository(db)
	ctx := context.Background()

	// Two creations on one local day, one on the day before. The driver hands
	// them back as UTC instants, the way a TimeZone=UTC session would; they
	// must still land on local-day keys so the trend labels find them.
	d1 := time.Date(2025, 6, 15, 1, 0, 0, 0, time.Local)
	d2 := time.Date(2025, 6, 15, 23, 0, 0, 0, time.Local)
	d3 := time.Date(2025, 6, 14, 10, 0, 0, 0, time.Local)

	rows := sqlmock.NewRows([]string{"created_on"}).
		AddRow(d1.UTC()).
		AddRow(d2.UTC()).
		AddRow(d3.UTC())

	mock.ExpectQuery("SELECT created_on FROM bookings").
		WithArgs(testDate(2025, 6, 9), testDate(2025, 6, 16)).
		WillReturnRows(rows)

	counts, err := repo.CreationCountsByDay(ctx, testDate(2025, 6, 9), testDate(2025, 6, 16))
	assert.NoError(t, err)
	assert.Equal(t, map[string]int32{
		"2025-06-14": 1,
		"2025-06-15": 2,
	}, counts)
}
