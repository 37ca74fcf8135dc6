package contracts

// NotificationMessage asks a worker to deliver one message to a user.
// Routing key: "notify.{channel}" on ExchangeNotifyTopic.
type NotificationMessage struct {
	Channel string `json:"channel"` // email|sms
	To      string `json:"to"`      // email address or phone number
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
	Envelope
}

// Notification channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
