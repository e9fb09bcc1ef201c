package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"office-status-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans out status-change notifications to office subscribers.
// Jobs are dispatched per office from the update handler; this is
// request-driven fanout, not a scheduler.
type WorkerPool struct {
	size    int
	jobs    chan int64
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	for {
		select {
		case officeID := <-wp.jobs:
			log.Debug().Int("worker", id).Int64("office_id", officeID).Msg("processing status notification")
			wp.notifyOfficeSubscribers(ctx, officeID)
		case <-ctx.Done():
			log.Debug().Int("worker", id).Msg("worker shutting down")
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(officeID int64) {
	wp.jobs <- officeID
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan int64 {
	return wp.jobs
}

// notifyOfficeSubscribers fetches subscriptions and sends notifications for
// a given office.
func (wp *WorkerPool) notifyOfficeSubscribers(ctx context.Context, officeID int64) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_office_mapping som ON som.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("som.office_id = ?", officeID).
		Find(&subscriptions).Error
	if err != nil {
		log.Error().Err(err).Int64("office_id", officeID).Msg("fetch subscriptions")
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	officeLabel := fmt.Sprintf("%d", officeID)
	var office model.Office
	if err := wp.db.WithContext(ctx).
		Select("name").
		First(&office, officeID).Error; err != nil {
		log.Error().Err(err).Int64("office_id", officeID).Msg("fetch office")
	} else if office.Name != "" {
		officeLabel = office.Name
	}

	message := fmt.Sprintf("Office %s posted a new status", officeLabel)
	var status model.OfficeStatus
	if err := wp.db.WithContext(ctx).
		Select("status_message").
		Where("office_id = ?", officeID).
		First(&status).Error; err == nil {
		message = fmt.Sprintf("Office %s: %s", officeLabel, status.StatusMessage)
	}

	log.Info().Int("count", len(subscriptions)).Int64("office_id", officeID).Msg("sending notifications")
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("send notification")
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Info().Str("endpoint", sub.Endpoint).Msg("subscription expired, deleting")
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("delete expired subscription")
		}
	}
}
