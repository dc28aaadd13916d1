package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"supplychain-wallet-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntry(accountID string) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:            uuid.New(),
		AccountID:     accountID,
		TransactionID: "mock-tx-" + uuid.NewString(),
		Kind:          domain.KindCryptoTransfer,
		Status:        domain.ReceiptStatusSuccess,
		Simulated:     true,
		Details:       `{"type":"cryptoTransfer"}`,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func receiptColumns() []string {
	return []string{"id", "account_id", "transaction_id", "kind", "status", "simulated", "details", "created_at"}
}

func TestReceiptRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReceiptRepo(mock)
	e := newTestEntry("0.0.1111")

	mock.ExpectExec("INSERT INTO wallet_receipts").
		WithArgs(e.ID, e.AccountID, e.TransactionID, e.Kind, e.Status, e.Simulated, e.Details, e.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptRepo_Create_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReceiptRepo(mock)
	e := newTestEntry("0.0.1111")

	mock.ExpectExec("INSERT INTO wallet_receipts").
		WithArgs(e.ID, e.AccountID, e.TransactionID, e.Kind, e.Status, e.Simulated, e.Details, e.CreatedAt).
		WillReturnError(errors.New("connection refused"))

	err = repo.Create(context.Background(), e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert receipt")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptRepo_ListByAccount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReceiptRepo(mock)
	first := newTestEntry("0.0.2222")
	second := newTestEntry("0.0.2222")
	second.Kind = domain.KindTokenMint

	rows := pgxmock.NewRows(receiptColumns()).
		AddRow(first.ID, first.AccountID, first.TransactionID, first.Kind, first.Status, first.Simulated, first.Details, first.CreatedAt).
		AddRow(second.ID, second.AccountID, second.TransactionID, second.Kind, second.Status, second.Simulated, second.Details, second.CreatedAt)

	mock.ExpectQuery("SELECT .+ FROM wallet_receipts WHERE account_id").
		WithArgs("0.0.2222", 10).
		WillReturnRows(rows)

	entries, err := repo.ListByAccount(context.Background(), "0.0.2222", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.TransactionID, entries[0].TransactionID)
	assert.Equal(t, domain.KindTokenMint, entries[1].Kind)
	assert.True(t, entries[1].Simulated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptRepo_ListByAccount_ClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, 50},
		{"negative uses default", -3, 50},
		{"over max is clamped", 10_000, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectQuery("SELECT .+ FROM wallet_receipts").
				WithArgs("0.0.1", tt.want).
				WillReturnRows(pgxmock.NewRows(receiptColumns()))

			entries, err := NewReceiptRepo(mock).ListByAccount(context.Background(), "0.0.1", tt.limit)
			require.NoError(t, err)
			assert.Empty(t, entries)
			assert.NotNil(t, entries)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReceiptRepo_ListByAccount_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM wallet_receipts").
		WithArgs("0.0.1", 50).
		WillReturnError(errors.New("timeout"))

	_, err = NewReceiptRepo(mock).ListByAccount(context.Background(), "0.0.1", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list receipts")
}

func TestEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS wallet_receipts").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCommit()

	require.NoError(t, EnsureSchema(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_RollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS wallet_receipts").
		WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err = EnsureSchema(context.Background(), mock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply schema")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("SELECT 1").WillReturnResult(pgxmock.NewResult("SELECT", 1))

	hc := NewHealthCheck(mock)
	assert.Equal(t, "postgresql", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
