package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBArray []any
type Metadata map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a Metadata) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *Metadata) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

// Participant is one traveller on a booking.
type Participant struct {
	Name           string `json:"name" binding:"required"`
	IdentityNumber string `json:"identity_number,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	Gender         string `json:"gender,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
}

type ParticipantList []Participant

func (p ParticipantList) Value() (driver.Value, error) {
	valueString, err := json.Marshal(p)
	return string(valueString), err
}
func (p *ParticipantList) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	return nil
}

type ProductCategory string

const (
	PRODUCT_TRIP      ProductCategory = "trip"
	PRODUCT_STAY      ProductCategory = "stay"
	PRODUCT_TRANSPORT ProductCategory = "transport"
)

type TransactionStatus string

const (
	TRANSACTION_PENDING              TransactionStatus = "pending"
	TRANSACTION_WAITING_PROOF        TransactionStatus = "waiting_proof"
	TRANSACTION_VERIFICATION_PENDING TransactionStatus = "verification_pending"
	TRANSACTION_CONFIRMED            TransactionStatus = "confirmed"
	TRANSACTION_CANCELLED            TransactionStatus = "cancelled"
	TRANSACTION_REFUNDED             TransactionStatus = "refunded"
	TRANSACTION_EXPIRED              TransactionStatus = "expired"
	TRANSACTION_FAILED               TransactionStatus = "failed"
)

type PaymentMode string

const (
	PAYMENT_FULL PaymentMode = "full"
	PAYMENT_DP   PaymentMode = "dp"
)

type PaymentMethod string

const (
	METHOD_WALLET  PaymentMethod = "wallet"
	METHOD_MANUAL  PaymentMethod = "manual_transfer"
	METHOD_GATEWAY PaymentMethod = "gateway"
)

type LedgerEntryType string

const (
	LEDGER_DEBIT  LedgerEntryType = "debit"
	LEDGER_CREDIT LedgerEntryType = "credit"
)

type GatewayMode string

const (
	GATEWAY_SANDBOX    GatewayMode = "sandbox"
	GATEWAY_PRODUCTION GatewayMode = "production"
)

type Env string

const (
	Local      Env = "local"
	Test       Env = "test"
	Production Env = "production"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type TransactionURIParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type RegisterUserRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateProductRequestBody struct {
	Category     ProductCategory `json:"category" binding:"required,oneof=trip stay transport"`
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description,omitempty"`
	Price        int64           `json:"price" binding:"required,gt=0"`
	DiscountPct  float64         `json:"discount_pct,omitempty" binding:"omitempty,gte=0,lte=100"`
	Duration     string          `json:"duration,omitempty"`
	MeetingPoint *string         `json:"meeting_point,omitempty"`
}

type ScheduleItem struct {
	Date          string              `json:"date" binding:"required,bookabledate" time_format:"2006-01-02"`
	Quota         int                 `json:"quota" binding:"required,gt=0"`
	Price         int64               `json:"price" binding:"required,gt=0"`
	MeetingPoints []MeetingPointInput `json:"meeting_points,omitempty"`
}

type MeetingPointInput struct {
	Name  string `json:"name" binding:"required"`
	Price *int64 `json:"price,omitempty" binding:"omitempty,gt=0"`
}

type ReplaceSchedulesRequestBody struct {
	Schedules []ScheduleItem `json:"schedules" binding:"required,min=1,dive"`
}

type CreatePackageRequestBody struct {
	Name  string `json:"name" binding:"required"`
	Price int64  `json:"price" binding:"required,gt=0"`
}

type AvailabilityQuery struct {
	Date      string `form:"date" binding:"required" time_format:"2006-01-02"`
	PartySize int    `form:"party_size,default=1" binding:"omitempty,gte=1"`
	Nights    int    `form:"nights,default=1" binding:"omitempty,gte=1"`
}

type QuoteRequestBody struct {
	Date         string      `json:"date" binding:"required" time_format:"2006-01-02"`
	PartySize    int         `json:"party_size" binding:"required,gte=1"`
	MeetingPoint *string     `json:"meeting_point,omitempty"`
	PackageIDs   []uint      `json:"packages,omitempty"`
	PaymentMode  PaymentMode `json:"payment_mode" binding:"required,oneof=full dp"`
	Nights       int         `json:"nights,omitempty" binding:"omitempty,gte=1"`
}

type CheckoutRequestBody struct {
	ProductID    uint            `json:"product_id" binding:"required"`
	Date         string          `json:"date" binding:"required,bookabledate" time_format:"2006-01-02"`
	PartySize    int             `json:"party_size" binding:"required,gte=1"`
	MeetingPoint *string         `json:"meeting_point,omitempty"`
	PackageIDs   []uint          `json:"packages,omitempty"`
	PaymentMode  PaymentMode     `json:"payment_mode" binding:"required,oneof=full dp"`
	Participants ParticipantList `json:"participants" binding:"required,min=1,dive"`
	Nights       int             `json:"nights,omitempty" binding:"omitempty,gte=1"`
	Metadata     Metadata        `json:"metadata,omitempty"`
}

type ChoosePaymentRequestBody struct {
	Method PaymentMethod `json:"method" binding:"required,oneof=wallet manual_transfer gateway"`
}

type VerifyTransactionRequestBody struct {
	Accept bool    `json:"accept"`
	Note   *string `json:"note,omitempty"`
}

type WalletTopupRequestBody struct {
	UserID      uint   `json:"user_id" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description" binding:"required"`
}

type UpdatePaymentSettingsRequestBody struct {
	Mode                GatewayMode `json:"mode" binding:"required,oneof=sandbox production"`
	SandboxClientKey    string      `json:"sandbox_client_key,omitempty"`
	SandboxServerKey    string      `json:"sandbox_server_key,omitempty"`
	ProductionClientKey string      `json:"production_client_key,omitempty"`
	ProductionServerKey string      `json:"production_server_key,omitempty"`
	TaxPercentage       float64     `json:"tax_percentage" binding:"gte=0,lte=100"`
	BankAccounts        JSONBArray  `json:"bank_accounts,omitempty"`
}

type TransactionsQueryFilters struct {
	Status string `form:"status,omitempty"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
