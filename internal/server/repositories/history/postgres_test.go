package history

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/scankeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var created = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

var historyColumns = []string{"device_id", "id", "raw_text", "display_type", "kind", "symbology", "source", "created_at", "received_at"}

func TestUpsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.QuoteMeta(`INSERT INTO history (device_id, id, raw_text, display_type, kind, symbology, source, created_at)`) +
		`(?s).*ON CONFLICT \(device_id, id\) DO NOTHING;`

	mock.ExpectExec(q).
		WithArgs("d1", "i1", "TEL:123", "Phone", "phone", "qr", "scanned", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.HistoryItem{
		DeviceID: "d1", ID: "i1", RawText: "TEL:123", DisplayType: "Phone",
		Kind: "phone", Symbology: "qr", Source: "scanned", CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsert_AlreadyStoredIsNotAnError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO history`).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Upsert(context.Background(), &models.HistoryItem{DeviceID: "d1", ID: "i1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpsert_DBExecError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	boom := errors.New("boom")
	mock.ExpectExec(`INSERT INTO history`).WillReturnError(boom)

	err := repo.Upsert(context.Background(), &models.HistoryItem{DeviceID: "d1", ID: "i1"})
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped boom, got %v", err)
	}
}

func TestListByDevice_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	received := created.Add(time.Minute)
	rows := sqlmock.NewRows(historyColumns).
		AddRow("d1", "i2", "hello", "Text", "text", "", "generated", created.Add(time.Second), received).
		AddRow("d1", "i1", "TEL:123", "Phone", "phone", "qr", "scanned", created, received)

	mock.ExpectQuery(`SELECT .* FROM history\s+WHERE device_id = \$1\s+ORDER BY created_at DESC\s+LIMIT \$2`).
		WithArgs("d1", 10).
		WillReturnRows(rows)

	got, err := repo.ListByDevice(context.Background(), "d1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "i2" || got[1].Symbology != "qr" || !got[1].ReceivedAt.Equal(received) {
		t.Fatalf("unexpected rows: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListByDevice_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM history`).WillReturnError(errors.New("down"))

	if _, err := repo.ListByDevice(context.Background(), "d1", 10); err == nil {
		t.Fatal("expected error")
	}
}

func TestListByDevice_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"device_id"}).AddRow("d1")
	mock.ExpectQuery(`SELECT .* FROM history`).WillReturnRows(rows)

	if _, err := repo.ListByDevice(context.Background(), "d1", 10); err == nil {
		t.Fatal("expected scan error")
	}
}

func TestListByDevice_RowsError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(historyColumns).
		AddRow("d1", "i1", "x", "Text", "text", "", "scanned", created, created).
		RowError(0, errors.New("row broken"))
	mock.ExpectQuery(`SELECT .* FROM history`).WillReturnRows(rows)

	if _, err := repo.ListByDevice(context.Background(), "d1", 10); err == nil {
		t.Fatal("expected rows error")
	}
}

func TestDeleteByDevice(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM history WHERE device_id = \$1`).
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteByDevice(context.Background(), "d1")
	if err != nil || n != 3 {
		t.Fatalf("got n=%d err=%v", n, err)
	}
}

func TestDeleteByDevice_RowsAffectedError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM history`).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("ra")))

	if _, err := repo.DeleteByDevice(context.Background(), "d1"); err == nil {
		t.Fatal("expected error")
	}
}
