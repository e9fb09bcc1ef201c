package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// mockSender is a mock implementation of the Sender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	wp.Dispatch(42)

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, int64(42), job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("sends notification with office name and status", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		officeID := int64(101)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				assert.Equal(t, "Office Acme: Working from home", string(payload))
				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions".*JOIN .*subscription_office_mapping.*WHERE .*som\.office_id = \$1`).
			WithArgs(officeID).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow("https://example.com/push", "test_p256dh", "test_auth", time.Now()))

		mock.ExpectQuery(`SELECT "name" FROM "offices" WHERE "offices"."id" = \$1 ORDER BY "offices"."id" LIMIT \$[0-9]+`).
			WithArgs(officeID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Acme"))

		mock.ExpectQuery(`SELECT "status_message" FROM "office_statuses" WHERE office_id = \$1 ORDER BY "office_statuses"."id" LIMIT \$[0-9]+`).
			WithArgs(officeID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"status_message"}).AddRow("Working from home"))

		wp.Dispatch(officeID)
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		officeID := int64(102)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions".*JOIN .*subscription_office_mapping.*WHERE .*som\.office_id = \$1`).
			WithArgs(officeID).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow("https://example.com/expired", "p", "a", time.Now()))

		mock.ExpectQuery(`SELECT "name" FROM "offices" WHERE "offices"."id" = \$1 ORDER BY "offices"."id" LIMIT \$[0-9]+`).
			WithArgs(officeID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Annex"))

		mock.ExpectQuery(`SELECT "status_message" FROM "office_statuses" WHERE office_id = \$1 ORDER BY "office_statuses"."id" LIMIT \$[0-9]+`).
			WithArgs(officeID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"status_message"}).AddRow("Closed"))

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.Dispatch(officeID)

		// Give the worker time to process the delete.
		time.Sleep(100 * time.Millisecond)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no subscribers means no sends", func(t *testing.T) {
		officeID := int64(103)

		sent := false
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				sent = true
				return &http.Response{StatusCode: http.StatusCreated, Body: io.NopCloser(bytes.NewBufferString(""))}, nil
			},
		}

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions".*JOIN .*subscription_office_mapping.*WHERE .*som\.office_id = \$1`).
			WithArgs(officeID).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}))

		wp.Dispatch(officeID)

		time.Sleep(100 * time.Millisecond)
		assert.False(t, sent, "no notification should go out without subscribers")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
