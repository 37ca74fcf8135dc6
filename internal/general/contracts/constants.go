package contracts

// Exchanges
const (
	ExchangeOrderTopic     = "order_topic"
	ExchangeNotifyTopic    = "notify_topic"
	ExchangeLocationFanout = "location_fanout"
)

// Queues
const (
	QueueOrderStatus         = "order_status"
	QueueNotifications       = "notifications"
	QueueLocationUpdatesDisp = "location_updates_dispatch"
)

// Routing patterns
const (
	RouteOrderStatusPrefix = "order.status." // {status}
	RouteNotifyPrefix      = "notify."       // {channel}
)
