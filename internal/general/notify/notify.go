package notify

import (
	"context"
	"encoding/json"
	"time"

	"delivery-dispatch/internal/general/contracts"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/general/rabbitmq"
	"delivery-dispatch/internal/ports"
)

// MQNotifier hands notifications to the broker; a worker delivers them.
// Senders treat failures as best-effort and never fail the operation that
// triggered the notification.
type MQNotifier struct {
	pub *rabbitmq.MQPublisher
	log *logger.Logger
}

func NewMQNotifier(pub *rabbitmq.MQPublisher, log *logger.Logger) ports.Notifier {
	return &MQNotifier{pub: pub, log: log}
}

func (n *MQNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	return n.publish(contracts.NotificationMessage{
		Channel: contracts.ChannelEmail,
		To:      to,
		Subject: subject,
		Body:    body,
	})
}

func (n *MQNotifier) SendSMS(ctx context.Context, phone, message string) error {
	return n.publish(contracts.NotificationMessage{
		Channel: contracts.ChannelSMS,
		To:      phone,
		Body:    message,
	})
}

func (n *MQNotifier) publish(msg contracts.NotificationMessage) error {
	msg.Producer = "dispatch-service"
	msg.SentAt = time.Now().UTC()

	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return n.pub.Publish(contracts.ExchangeNotifyTopic, contracts.RouteNotifyPrefix+msg.Channel, raw)
}

// LogNotifier writes notifications to the log instead of delivering them.
// Used when no broker is configured, and in tests.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) ports.Notifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	n.log.Info("email notification",
		logger.String("to", to), logger.String("subject", subject))
	return nil
}

func (n *LogNotifier) SendSMS(ctx context.Context, phone, message string) error {
	n.log.Info("sms notification", logger.String("to", phone))
	return nil
}
