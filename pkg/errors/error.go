package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// InvalidOrderError is returned when an order fails validation before matching.
	InvalidOrderError ErrorCode = "invalid_order"
	// MalformedRecordError is returned when an ingestion record cannot be decoded.
	MalformedRecordError ErrorCode = "malformed_record"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisPushError represents an error when pushing onto a Redis list.
	RedisPushError ErrorCode = "redis_push_error"
	// RedisPopError represents an error when popping from a Redis list.
	RedisPopError ErrorCode = "redis_pop_error"
	// RedisPublishError represents an error when publishing messages to channels in Redis.
	RedisPublishError ErrorCode = "redis_publish_error"

	// KafkaReadError represents an error when reading from a Kafka topic.
	KafkaReadError ErrorCode = "kafka_read_error"
	// KafkaWriteError represents an error when writing to a Kafka topic.
	KafkaWriteError ErrorCode = "kafka_write_error"

	// QuestDBStoreError represents an error when writing trades to QuestDB.
	QuestDBStoreError ErrorCode = "questdb_store_error"
	// QuestDBQueryError represents an error when querying trades from QuestDB.
	QuestDBQueryError ErrorCode = "questdb_query_error"
)

// String returns the code as plain string.
func (c ErrorCode) String() string {
	return string(c)
}
