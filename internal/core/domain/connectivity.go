package domain

// ConnectionStatus is the tri-state (plus idle) reachability of the backend.
type ConnectionStatus string

// Connection statuses.
const (
	ConnectionIdle      ConnectionStatus = "idle"
	ConnectionChecking  ConnectionStatus = "checking"
	ConnectionConnected ConnectionStatus = "connected"
	ConnectionError     ConnectionStatus = "error"
)

// Probe messages shown to the user.
const (
	MessageNotChecked    = "Not checked"
	MessageChecking      = "Checking..."
	MessageReachable     = "Reachable (network)"
	MessageUnreachable   = "Unreachable"
	MessageEmptyEndpoint = "Endpoint is empty"
)

// ConnectivityState is the latest probe result.
// A connected state only proves the network path is open, not that the
// endpoint would accept a conversion.
type ConnectivityState struct {
	Status  ConnectionStatus
	Message string
}

// IdleConnectivity is the state before any probe has run.
func IdleConnectivity() ConnectivityState {
	return ConnectivityState{Status: ConnectionIdle, Message: MessageNotChecked}
}
