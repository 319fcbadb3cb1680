package account_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/videovault/svc/account"
)

const testUserID = "6f1c2b2e-9a57-4c53-9d7e-0c3a1f2b4d5e"

var userCols = []string{
	"id", "email", "role", "subscription_status", "subscription_id",
	"stripe_customer_id", "created_at", "updated_at",
}

func newMockStore(t *testing.T) (*account.PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return account.NewPostgresStore(mock), mock
}

func ptr(s string) *string { return &s }

func TestPostgresStore_GetUserByID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT id, email, role, subscription_status, subscription_id, stripe_customer_id, created_at, updated_at FROM users WHERE id = $1",
		)).WithArgs(testUserID).WillReturnRows(
			mock.NewRows(userCols).AddRow(testUserID, "a@example.com", "USER", ptr("active"), ptr("sub_1"), nil, now, now),
		)

		u, err := store.GetUserByID(ctx, testUserID)
		require.NoError(t, err)
		assert.Equal(t, account.RoleUser, u.Role)
		assert.True(t, u.HasActiveSubscription())
		assert.Equal(t, "sub_1", *u.SubscriptionID)
		assert.Nil(t, u.BillingCustomerID)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStore(t)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs(testUserID).
			WillReturnError(pgx.ErrNoRows)

		_, err := store.GetUserByID(ctx, testUserID)
		assert.ErrorIs(t, err, account.ErrUserNotFound)
	})

	t.Run("non uuid id never hits the database", func(t *testing.T) {
		t.Parallel()
		store, _ := newMockStore(t)

		_, err := store.GetUserByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, account.ErrUserNotFound)
	})

	t.Run("query failure", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStore(t)

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(testUserID).
			WillReturnError(errors.New("connection reset"))

		_, err := store.GetUserByID(ctx, testUserID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, account.ErrUserNotFound)
	})
}

func TestPostgresStore_CreateUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().UTC()
	u := &account.User{ID: testUserID, Email: "a@example.com", Role: account.RoleUser, CreatedAt: now, UpdatedAt: now}

	t.Run("inserted", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStore(t)

		mock.ExpectExec(regexp.QuoteMeta(
			"INSERT INTO users (id,email,password_hash,role,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6)",
		)).WithArgs(testUserID, "a@example.com", "hash", "USER", now, now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, store.CreateUser(ctx, u, "hash"))
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStore(t)

		mock.ExpectExec("INSERT INTO users").
			WithArgs(testUserID, "a@example.com", "hash", "USER", now, now).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		assert.ErrorIs(t, store.CreateUser(ctx, u, "hash"), account.ErrEmailAlreadyExists)
	})
}

func TestPostgresStore_SetBillingCustomerID(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE users SET stripe_customer_id = COALESCE(stripe_customer_id, $1), updated_at = $2 WHERE id = $3 RETURNING stripe_customer_id",
	)).WithArgs("cus_new", pgxmock.AnyArg(), testUserID).
		WillReturnRows(mock.NewRows([]string{"stripe_customer_id"}).AddRow("cus_existing"))

	id, err := store.SetBillingCustomerID(context.Background(), testUserID, "cus_new")
	require.NoError(t, err)
	assert.Equal(t, "cus_existing", id)
}

func TestPostgresStore_SetSubscription(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("updated", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStore(t)

		mock.ExpectExec(regexp.QuoteMeta(
			"UPDATE users SET subscription_id = $1, subscription_status = $2, updated_at = $3 WHERE id = $4",
		)).WithArgs("sub_1", "active", pgxmock.AnyArg(), testUserID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, store.SetSubscription(ctx, testUserID, "sub_1", "active"))
	})

	t.Run("no such user", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStore(t)

		mock.ExpectExec("UPDATE users SET").
			WithArgs("sub_1", "active", pgxmock.AnyArg(), testUserID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, store.SetSubscription(ctx, testUserID, "sub_1", "active"), account.ErrUserNotFound)
	})
}

func TestPostgresStore_UpdateBySubscription(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("status update touches all matching rows", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStore(t)

		mock.ExpectExec(regexp.QuoteMeta(
			"UPDATE users SET subscription_status = $1, updated_at = $2 WHERE subscription_id = $3",
		)).WithArgs("past_due", pgxmock.AnyArg(), "sub_1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 2))

		n, err := store.UpdateStatusBySubscriptionID(ctx, "sub_1", "past_due")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("clear nulls the subscription id", func(t *testing.T) {
		t.Parallel()
		store, mock := newMockStore(t)

		mock.ExpectExec(regexp.QuoteMeta(
			"UPDATE users SET subscription_id = $1, subscription_status = $2, updated_at = $3 WHERE subscription_id = $4",
		)).WithArgs(nil, "canceled", pgxmock.AnyArg(), "sub_1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		n, err := store.ClearSubscription(ctx, "sub_1", account.StatusCanceled)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("empty subscription id is a no-op", func(t *testing.T) {
		t.Parallel()
		store, _ := newMockStore(t)

		n, err := store.ClearSubscription(ctx, "", account.StatusCanceled)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestPostgresStore_ListUsers(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, email, role, subscription_status, subscription_id, stripe_customer_id, created_at, updated_at FROM users WHERE subscription_status IS NULL AND role = $1 ORDER BY created_at DESC, id LIMIT 10 OFFSET 5",
	)).WithArgs("ADMIN").WillReturnRows(
		mock.NewRows(userCols).
			AddRow(testUserID, "admin@example.com", "ADMIN", nil, nil, nil, now, now),
	)

	users, err := store.ListUsers(context.Background(), account.ListFilter{
		Status: account.StatusNone,
		Role:   account.RoleAdmin,
		Limit:  10,
		Offset: 5,
	})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.True(t, users[0].IsAdmin())
	assert.Nil(t, users[0].SubscriptionStatus)
}
