package email

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrQueueFull = errors.New("email queue full")

type Message struct {
	To      string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier delivers queued emails from a single background worker so request
// handlers never wait on SMTP-grade latency.
type Notifier struct {
	sender Sender
	log    *slog.Logger
	queue  chan Message
	wg     sync.WaitGroup
	once   sync.Once
}

func NewNotifier(sender Sender, log *slog.Logger, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Notifier{
		sender: sender,
		log:    log,
		queue:  make(chan Message, queueSize),
	}
}

func (n *Notifier) Start() {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for msg := range n.queue {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := n.sender.Send(ctx, msg.To, msg.Subject, msg.Body); err != nil {
				n.log.Error("email_send_failed", "to", msg.To, "subject", msg.Subject, "error", err)
			} else {
				n.log.Info("email_sent", "to", msg.To, "subject", msg.Subject)
			}
			cancel()
		}
	}()
}

// Enqueue never blocks the caller; a full queue is reported, not waited on.
func (n *Notifier) Enqueue(msg Message) error {
	select {
	case n.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close drains the queue and stops the worker. Safe to call more than once.
func (n *Notifier) Close() {
	n.once.Do(func() {
		close(n.queue)
	})
	n.wg.Wait()
}
