package domain

import "regexp"

// Role is the supply-chain role attached to a ledger account.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleManufacturer Role = "manufacturer"
	RoleDistributor  Role = "distributor"
	RoleRetailer     Role = "retailer"
	RoleUser         Role = "user"
)

// CannedAccount is one of the fixed accounts offered by the simulated wallet.
type CannedAccount struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Role  Role   `json:"role"`
}

// SimulatedAccounts lists the simulated wallet's accounts in prompt order.
// The first entry is the default choice.
var SimulatedAccounts = []CannedAccount{
	{ID: "0.0.1111", Label: "Admin", Role: RoleAdmin},
	{ID: "0.0.2222", Label: "Manufacturer", Role: RoleManufacturer},
	{ID: "0.0.3333", Label: "Distributor", Role: RoleDistributor},
	{ID: "0.0.4444", Label: "Retailer", Role: RoleRetailer},
}

// RoleForAccount maps a ledger account to its supply-chain role.
func RoleForAccount(accountID string) Role {
	for _, a := range SimulatedAccounts {
		if a.ID == accountID {
			return a.Role
		}
	}
	return RoleUser
}

var accountIDPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// IsAccountID reports whether s looks like a shard.realm.num ledger account.
func IsAccountID(s string) bool {
	return accountIDPattern.MatchString(s)
}
