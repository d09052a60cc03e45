package lib

import (
	"log"

	"atrips/src/models"
	"atrips/src/types"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

var snapClient *snap.Client

// GetSnapClient builds a Snap client from the payment settings, picking
// the server key for the active mode.
func GetSnapClient(settings *models.PaymentSetting) *snap.Client {
	if snapClient != nil {
		return snapClient
	}
	env := midtrans.Sandbox
	if settings.Mode == types.GATEWAY_PRODUCTION {
		env = midtrans.Production
	}
	c := &snap.Client{}
	c.New(settings.ServerKey(), env)
	snapClient = c
	return c
}

// NewSnapClient Replace gateway instance with custom client implementation
func NewSnapClient(c *snap.Client) {
	snapClient = c
}

// GatewayToken is the redirect handle returned by the payment gateway.
type GatewayToken struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// CreateGatewayToken requests a payment token for an order. The provider
// error message is propagated untouched so the caller can surface it.
func CreateGatewayToken(settings *models.PaymentSetting, orderID string, grossAmount int64, items string, customerName, customerEmail string) (*GatewayToken, error) {
	c := GetSnapClient(settings)
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: grossAmount,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    orderID,
				Name:  items,
				Price: grossAmount,
				Qty:   1,
			},
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customerName,
			Email: customerEmail,
		},
	}
	resp, err := c.CreateTransaction(req)
	if err != nil {
		log.Printf("[Gateway] Error creating token for order [%s]: %s\n", orderID, err.Error())
		return nil, err
	}
	return &GatewayToken{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}
