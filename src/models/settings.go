package models

import (
	"atrips/src/types"

	"github.com/google/uuid"
)

// PaymentSetting is the process-wide payment configuration, read-only
// from the booking engine's perspective and loaded once per checkout
// session.
type PaymentSetting struct {
	ID                  uuid.UUID         `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Mode                types.GatewayMode `gorm:"default:'sandbox'" json:"mode"`
	SandboxClientKey    string            `json:"sandbox_client_key,omitempty"`
	SandboxServerKey    string            `json:"sandbox_server_key,omitempty"`
	ProductionClientKey string            `json:"production_client_key,omitempty"`
	ProductionServerKey string            `json:"production_server_key,omitempty"`
	TaxPercentage       float64           `json:"tax_percentage"`
	BankAccounts        types.JSONBArray  `gorm:"type:jsonb" json:"bank_accounts,omitempty"`

	types.Timestamps
}

// ServerKey returns the gateway secret for the active mode.
func (p *PaymentSetting) ServerKey() string {
	if p.Mode == types.GATEWAY_PRODUCTION {
		return p.ProductionServerKey
	}
	return p.SandboxServerKey
}
