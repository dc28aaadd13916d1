package domain

// Durable storage keys. The real-session key holds the wallet's pairing data,
// the simulated-session key holds a SimulatedConnection.
const (
	PairingStorageKey   = "hashconnect_pairing"
	SimulatedStorageKey = "hashpack_mock_connection"
)

// Mode tells which wallet implementation currently backs the session.
type Mode string

const (
	ModeUninitialized Mode = "uninitialized"
	ModeReal          Mode = "real"
	ModeSimulated     Mode = "simulated"
)

// State is the externally visible lifecycle state of the session client.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateRealPending   State = "real_pending"
	StateRealConnected State = "real_connected"
	StateSimulated     State = "simulated"
)

// Session is the client's record of an established (or simulated) wallet connection.
// AccountID is non-empty if and only if IsConnected is true.
type Session struct {
	Topic               string `json:"topic"`
	PairingString       string `json:"pairing_string"`
	AccountID           string `json:"account_id,omitempty"`
	IsConnected         bool   `json:"is_connected"`
	UsesSimulatedWallet bool   `json:"uses_simulated_wallet"`
}

// Connected reports whether the session holds a usable account.
func (s Session) Connected() bool {
	return s.IsConnected && s.AccountID != ""
}

// SimulatedConnection is what the simulated wallet persists.
type SimulatedConnection struct {
	IsConnected bool   `json:"isConnected"`
	AccountID   string `json:"accountId"`
}

// InitResult is returned by Initialize. FallbackReason is set when the real
// integration failed and the simulated wallet took over.
type InitResult struct {
	PairingString  string `json:"pairing_string"`
	Topic          string `json:"topic"`
	Mode           Mode   `json:"mode"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// ConnectResult is returned by ConnectWallet.
type ConnectResult struct {
	AccountID string `json:"account_id"`
	Mode      Mode   `json:"mode"`
	Role      Role   `json:"role"`
}
