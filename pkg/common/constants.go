package common

const (
	// RedisKeyAlertDedup is formatted with (entity type, entity id, alert kind).
	RedisKeyAlertDedup = "alert_dedup:%s:%d:%s"
)
