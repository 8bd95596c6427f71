package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func fastRetrier() *Retrier {
	return &Retrier{
		maxRetries:      3,
		initialInterval: time.Millisecond,
		maxInterval:     2 * time.Millisecond,
		maxElapsedTime:  time.Second,
	}
}

func TestRetrier_SucceedsAfterTransientFailure(t *testing.T) {
	attempts := 0
	err := fastRetrier().Retry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return &pgconn.PgError{Code: pgErrDeadlock}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetrier_PermanentErrorNotRetried(t *testing.T) {
	permanent := errors.New("constraint violation")
	attempts := 0

	err := fastRetrier().Retry(context.Background(), func() error {
		attempts++
		return permanent
	})

	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetrier_GivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	err := fastRetrier().Retry(context.Background(), func() error {
		attempts++
		return &pgconn.PgError{Code: pgErrSerializationFailure}
	})

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	// initial attempt plus maxRetries
	if attempts != 4 {
		t.Errorf("expected 4 attempts, got %d", attempts)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "deadlock", err: &pgconn.PgError{Code: pgErrDeadlock}, want: true},
		{name: "serialization failure", err: &pgconn.PgError{Code: pgErrSerializationFailure}, want: true},
		{name: "foreign key violation", err: &pgconn.PgError{Code: pgErrForeignKeyViolation}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
