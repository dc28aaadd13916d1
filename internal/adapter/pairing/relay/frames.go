package relay

import (
	"encoding/json"

	"supplychain-wallet-gateway/internal/core/domain"
)

// Frame types exchanged with the relay. Requests carry an ID that the relay
// echoes on the matching result frame. Frames without an ID are events.
const (
	frameInit         = "init"
	frameConnectLocal = "connect_local"
	frameTransaction  = "transaction"
	frameDisconnect   = "disconnect"
	frameResult       = "result"

	frameExtensionFound   = "extension_found"
	frameConnectionStatus = "connection_status"
	framePairing          = "pairing"
	frameAcknowledge      = "acknowledge"
)

// StatusRelayDisconnected is reported as a connection status event when the
// relay socket drops.
const StatusRelayDisconnected = "RelayDisconnected"

type frame struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type initPayload struct {
	Metadata domain.AppMetadata `json:"metadata"`
	Network  string             `json:"network"`
	Debug    bool               `json:"debug"`
}

type connectPayload struct {
	PairingString string `json:"pairingString"`
}

type transactionPayload struct {
	Network   string                    `json:"network"`
	AccountID string                    `json:"accountId"`
	Request   domain.TransactionRequest `json:"transaction"`
}

type statusPayload struct {
	Status string `json:"status"`
}

// pairingOffer is what a pairing string encodes.
type pairingOffer struct {
	Topic    string             `json:"topic"`
	Network  string             `json:"network"`
	Relay    string             `json:"relay"`
	Metadata domain.AppMetadata `json:"metadata"`
	Debug    bool               `json:"debug,omitempty"`
}

// toEvent converts an event frame. ok is false for unknown or malformed frames.
func toEvent(f frame) (domain.WalletEvent, bool) {
	switch f.Type {
	case frameExtensionFound:
		var meta domain.AppMetadata
		if err := json.Unmarshal(f.Payload, &meta); err != nil {
			return domain.WalletEvent{}, false
		}
		return domain.WalletEvent{Kind: domain.EventExtensionFound, Extension: &meta}, true
	case frameConnectionStatus:
		var st statusPayload
		if err := json.Unmarshal(f.Payload, &st); err != nil {
			return domain.WalletEvent{}, false
		}
		return domain.WalletEvent{Kind: domain.EventConnectionStatus, Status: st.Status}, true
	case framePairing:
		var data domain.PairingData
		if err := json.Unmarshal(f.Payload, &data); err != nil {
			return domain.WalletEvent{}, false
		}
		if data.Topic == "" {
			data.Topic = f.Topic
		}
		return domain.WalletEvent{Kind: domain.EventPairing, Pairing: &data}, true
	case frameAcknowledge:
		var ack domain.Acknowledgement
		if err := json.Unmarshal(f.Payload, &ack); err != nil {
			return domain.WalletEvent{}, false
		}
		return domain.WalletEvent{Kind: domain.EventAcknowledge, Ack: &ack}, true
	default:
		return domain.WalletEvent{}, false
	}
}
