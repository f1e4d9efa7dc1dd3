package constvars

const (
	LoggingRequestIDKey  = "request_id"
	LoggingMethodKey     = "method"
	LoggingEndpointKey   = "endpoint"
	LoggingQueryKey      = "query_params"
	LoggingRemoteAddrKey = "remote_address"
	LoggingUserAgentKey  = "user_agent"
	LoggingStatusCodeKey = "status_code"
	LoggingDurationKey   = "duration"
	LoggingAddressKey    = "address"
	LoggingUserIDKey     = "user_id"
	LoggingSourceIPKey   = "source_ip"
)
