package domain

// AppMetadata identifies this application to the wallet during pairing.
type AppMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// InitData is what the pairing integration hands back when it starts.
type InitData struct {
	Topic string `json:"topic"`
}

// PairingData is the wallet's pairing acknowledgment. It is persisted as-is
// under PairingStorageKey.
type PairingData struct {
	Topic         string       `json:"topic"`
	AccountIDs    []string     `json:"accountIds"`
	Network       string       `json:"network,omitempty"`
	Origin        string       `json:"origin,omitempty"`
	EncryptionKey string       `json:"encryptionKey,omitempty"`
	Metadata      *AppMetadata `json:"metadata,omitempty"`
}

// PrimaryAccount returns the first paired account, or "" if none.
func (p PairingData) PrimaryAccount() string {
	if len(p.AccountIDs) == 0 {
		return ""
	}
	return p.AccountIDs[0]
}

// EventKind enumerates the wallet lifecycle events.
type EventKind string

const (
	EventExtensionFound   EventKind = "extension_found"
	EventConnectionStatus EventKind = "connection_status"
	EventPairing          EventKind = "pairing"
	EventAcknowledge      EventKind = "acknowledge"
)

// Acknowledgement confirms the wallet received a message.
type Acknowledgement struct {
	Topic  string `json:"topic"`
	MsgID  string `json:"msgId"`
	Result bool   `json:"result"`
}

// WalletEvent is a single lifecycle notification from the pairing integration.
// Exactly one payload field matches Kind.
type WalletEvent struct {
	Kind      EventKind        `json:"kind"`
	Extension *AppMetadata     `json:"extension,omitempty"`
	Status    string           `json:"status,omitempty"`
	Pairing   *PairingData     `json:"pairing,omitempty"`
	Ack       *Acknowledgement `json:"ack,omitempty"`
}
