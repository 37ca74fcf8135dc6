package contracts

import "time"

// LocationUpdateMessage is broadcast on every driver position report.
// Exchange: ExchangeLocationFanout (fanout, no routing key).
type LocationUpdateMessage struct {
	DriverID  string    `json:"driver_id"`
	Location  GeoPoint  `json:"location"`
	Timestamp time.Time `json:"timestamp"`
	Envelope
}
