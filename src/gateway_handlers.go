package main

import (
	"crypto/sha512"
	"encoding/hex"
	"io"
	"log"
	"net/http"

	"atrips/src/lifecycle"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

func gatewayWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/midtrans", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		settings, err := lifecycle.LoadPaymentSettings()
		if err != nil {
			log.Printf("Error loading payment settings: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		orderId := gjson.GetBytes(payload, "order_id").String()
		statusCode := gjson.GetBytes(payload, "status_code").String()
		grossAmount := gjson.GetBytes(payload, "gross_amount").String()
		signature := gjson.GetBytes(payload, "signature_key").String()
		if !validSignature(orderId, statusCode, grossAmount, settings.ServerKey(), signature) {
			log.Printf("Invalid webhook signature for order [%s]\n", orderId)
			ctx.Status(http.StatusBadRequest)
			return
		}
		txnId, err := uuid.Parse(orderId)
		if err != nil {
			log.Printf("Webhook order_id is not a transaction id: %s\n", orderId)
			ctx.Status(http.StatusBadRequest)
			return
		}

		txnStatus := gjson.GetBytes(payload, "transaction_status").String()
		fraudStatus := gjson.GetBytes(payload, "fraud_status").String()
		log.Printf("[GatewayEvent] order=%s status=%s fraud=%s\n", orderId, txnStatus, fraudStatus)
		switch txnStatus {
		case "settlement":
			if _, err := lifecycle.MarkPaid(txnId); err != nil {
				log.Printf("Error confirming transaction [%s]: %s\n", orderId, err.Error())
			}
		case "capture":
			if fraudStatus == "accept" {
				if _, err := lifecycle.MarkPaid(txnId); err != nil {
					log.Printf("Error confirming transaction [%s]: %s\n", orderId, err.Error())
				}
			}
		case "deny":
			if _, err := lifecycle.Fail(txnId); err != nil {
				log.Printf("Error failing transaction [%s]: %s\n", orderId, err.Error())
			}
		case "cancel", "expire":
			if _, err := lifecycle.Fail(txnId); err != nil {
				log.Printf("Error failing transaction [%s]: %s\n", orderId, err.Error())
			}
		case "pending":
			// Payment not completed yet; nothing to apply.
		default:
			log.Printf("Unhandled gateway status [%s] for order [%s]\n", txnStatus, orderId)
		}
		// Always 200 so the gateway does not retry events we chose to skip.
		ctx.Status(http.StatusOK)
	})
	return apiv1
}

// validSignature checks the sha512(order_id + status_code + gross_amount
// + server_key) notification signature.
func validSignature(orderId, statusCode, grossAmount, serverKey, signature string) bool {
	if signature == "" {
		return false
	}
	h := sha512.New()
	h.Write([]byte(orderId + statusCode + grossAmount + serverKey))
	expected := hex.EncodeToString(h.Sum(nil))
	return expected == signature
}
