package account

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/videovault/pkg/pg"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var userColumns = []string{
	"id", "email", "role", "subscription_status", "subscription_id",
	"stripe_customer_id", "created_at", "updated_at",
}

// PostgresStore implements Store on the users table.
type PostgresStore struct {
	db  pg.DBTX
	now func() time.Time
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore returns a store running queries on db.
func NewPostgresStore(db pg.DBTX) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	var role string
	if err := row.Scan(
		&u.ID, &u.Email, &role, &u.SubscriptionStatus, &u.SubscriptionID,
		&u.BillingCustomerID, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = Role(role)
	return u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *User, passwordHash string) error {
	query, args, err := psql.Insert("users").
		Columns("id", "email", "password_hash", "role", "created_at", "updated_at").
		Values(user.ID, user.Email, passwordHash, string(user.Role), user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) getUser(ctx context.Context, where squirrel.Sqlizer) (*User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user: %w", err)
	}

	u, err := scanUser(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	// Correlation tokens arrive from webhook metadata; anything that is not a
	// uuid cannot match a row.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}
	return s.getUser(ctx, squirrel.Eq{"id": id})
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.getUser(ctx, squirrel.Eq{"email": email})
}

func (s *PostgresStore) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return "", ErrUserNotFound
	}
	query, args, err := psql.Select("password_hash").From("users").
		Where(squirrel.Eq{"id": userID}).ToSql()
	if err != nil {
		return "", fmt.Errorf("build select password hash: %w", err)
	}

	var hash string
	if err := s.db.QueryRow(ctx, query, args...).Scan(&hash); err != nil {
		if pg.IsNotFoundError(err) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("select password hash: %w", err)
	}
	return hash, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context, filter ListFilter) ([]*User, error) {
	filter = filter.normalized()

	b := psql.Select(userColumns...).From("users").
		OrderBy("created_at DESC", "id").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))
	switch filter.Status {
	case "":
	case StatusNone:
		b = b.Where(squirrel.Eq{"subscription_status": nil})
	default:
		b = b.Where(squirrel.Eq{"subscription_status": filter.Status})
	}
	if filter.Role != "" {
		b = b.Where(squirrel.Eq{"role": string(filter.Role)})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0, filter.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *PostgresStore) SetBillingCustomerID(ctx context.Context, userID, customerID string) (string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return "", ErrUserNotFound
	}
	query, args, err := psql.Update("users").
		Set("stripe_customer_id", squirrel.Expr("COALESCE(stripe_customer_id, ?)", customerID)).
		Set("updated_at", s.now().UTC()).
		Where(squirrel.Eq{"id": userID}).
		Suffix("RETURNING stripe_customer_id").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build set customer id: %w", err)
	}

	var stored string
	if err := s.db.QueryRow(ctx, query, args...).Scan(&stored); err != nil {
		if pg.IsNotFoundError(err) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("set customer id: %w", err)
	}
	return stored, nil
}

func (s *PostgresStore) SetSubscription(ctx context.Context, userID, subscriptionID, status string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return ErrUserNotFound
	}
	query, args, err := psql.Update("users").
		Set("subscription_id", subscriptionID).
		Set("subscription_status", status).
		Set("updated_at", s.now().UTC()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set subscription: %w", err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateStatusBySubscriptionID(ctx context.Context, subscriptionID, status string) (int64, error) {
	return s.updateBySubscription(ctx, subscriptionID, map[string]any{
		"subscription_status": status,
	})
}

func (s *PostgresStore) ClearSubscription(ctx context.Context, subscriptionID, status string) (int64, error) {
	return s.updateBySubscription(ctx, subscriptionID, map[string]any{
		"subscription_status": status,
		"subscription_id":     nil,
	})
}

func (s *PostgresStore) updateBySubscription(ctx context.Context, subscriptionID string, set map[string]any) (int64, error) {
	if subscriptionID == "" {
		return 0, nil
	}
	set["updated_at"] = s.now().UTC()

	query, args, err := psql.Update("users").
		SetMap(set).
		Where(squirrel.Eq{"subscription_id": subscriptionID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update by subscription: %w", err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update by subscription: %w", err)
	}
	return tag.RowsAffected(), nil
}
