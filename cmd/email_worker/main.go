package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/a704/dodream-backend/config"
	"github.com/a704/dodream-backend/pkg/helpers"
	"github.com/a704/dodream-backend/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.Mail.Enabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.Mail.RabbitMQURL == "" || cfg.Mail.Queue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.Mail.MailgunDomain == "" || cfg.Mail.MailgunAPIKey == "" || cfg.Mail.Sender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.Mail.RabbitMQURL)
	if err != nil {
		logger.WithError(err).Fatal("amqp dial")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.WithError(err).Fatal("amqp channel")
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch across workers
	if err := ch.Qos(16, 0, false); err != nil {
		logger.WithError(err).Fatal("qos")
	}
	if err := helpers.DeclareQueue(ch, cfg.Mail.Queue); err != nil {
		logger.WithError(err).Fatal("queue declare")
	}
	msgs, err := ch.Consume(cfg.Mail.Queue, "", false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	sender := mailer.NewMailgun(cfg.Mail.MailgunDomain, cfg.Mail.MailgunAPIKey, cfg.Mail.Sender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			handle(ctx, logger, sender, msg)
		}
	}()

	logger.Infof("email worker listening on queue=%s", cfg.Mail.Queue)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down...")
	cancel()
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// acker is the part of amqp.Delivery handle needs.
type acker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func handle(ctx context.Context, logger *logrus.Logger, sender mailer.Sender, msg amqp.Delivery) {
	process(ctx, logger, sender, msg.Body, &msg)
}

// process delivers one job. Malformed jobs are dropped; send failures are requeued.
func process(ctx context.Context, logger *logrus.Logger, sender mailer.Sender, body []byte, a acker) {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		logger.WithError(err).Warn("bad email job")
		_ = a.Nack(false, false)
		return
	}
	entry := logger.WithFields(logrus.Fields{"template": job.Template, "to": job.To})

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	err := mailer.Deliver(c, sender, job)
	switch {
	case err == nil:
		_ = a.Ack(false)
	case errors.Is(err, mailer.ErrNoRecipient) || errors.Is(err, mailer.ErrInvalidJob):
		entry.WithError(err).Warn("dropping email job")
		_ = a.Nack(false, false)
	default:
		entry.WithError(err).Error("send failed")
		_ = a.Nack(false, true)
	}
}
