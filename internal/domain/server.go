package domain

const (
	// ServerName identifies the server to protocol clients.
	ServerName = "multi-agent-debate-server"
	// ServerVersion is reported by health checks and the initialize handshake.
	ServerVersion = "0.1.0"
)
