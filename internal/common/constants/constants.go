package constants

import "time"

const (
	NameMaxLength     = 64
	EmailMaxLength    = 254
	PasswordMinLength = 6
	PasswordMaxLength = 72

	TitleMinLength   = 3
	TitleMaxLength   = 200
	ContentMinLength = 5
	CommentMaxLength = 500
	MessageMaxLength = 500

	JWTSecretMinLength = 32

	DefaultMaxRequestSize = 1 << 20

	DefaultHTTPPort        = "8080"
	DefaultTokenTTL        = time.Hour
	DefaultRequestTimeout  = 5 * time.Second
	DefaultChatHistorySize = 500

	DefaultWebSocketWriteWait   = 10 * time.Second
	DefaultWebSocketPongWait    = 60 * time.Second
	DefaultWebSocketPingPeriod  = 54 * time.Second
	DefaultWebSocketMaxMsgSize  = 4096
	DefaultWebSocketSendBufSize = 256

	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DBPoolMaxAttempts = 10
	DBPoolRetryDelay  = time.Second

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
