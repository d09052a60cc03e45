package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"atrips/src/availability"
	"atrips/src/config"
	"atrips/src/db"
	"atrips/src/lib"
	"atrips/src/lib/aws"
	"atrips/src/lifecycle"
	"atrips/src/models"
	"atrips/src/pricing"
	"atrips/src/types"
	"atrips/src/wallet"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func transactionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/checkout", func(ctx *gin.Context) {
			var body types.CheckoutRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if len(body.Participants) != body.PartySize {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "participant count must match party size"})
				return
			}
			date, err := time.Parse(config.DATE_FORMAT, body.Date)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			product, err := loadProductForBooking(body.ProductID)
			if err != nil {
				ctx.Status(http.StatusNotFound)
				return
			}
			settings, err := lifecycle.LoadPaymentSettings()
			if err != nil {
				log.Printf("Error loading payment settings: %s\n", err.Error())
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				return
			}
			res := availability.Resolve(product, availability.Request{
				Date:           date,
				PartySize:      body.PartySize,
				DurationNights: body.Nights,
			})
			if !res.Bookable {
				ctx.JSON(http.StatusConflict, gin.H{"error": lifecycle.ErrNotBookable.Error()})
				return
			}
			unitBase := availability.UnitPriceFor(res, body.MeetingPoint)
			packages := selectPackages(product, body.PackageIDs)
			breakdown, err := pricing.Price(unitBase, packages, body.PartySize, product.DiscountPct, settings.TaxPercentage, body.PaymentMode)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			txn, err := lifecycle.Create(lifecycle.CreateParams{
				UserID:       ctx.GetUint("id"),
				ProductID:    body.ProductID,
				Date:         date,
				PartySize:    body.PartySize,
				MeetingPoint: body.MeetingPoint,
				PaymentMode:  body.PaymentMode,
				Participants: body.Participants,
				Metadata:     body.Metadata,
			}, breakdown, product, res, pickScheduleID(product, date, body.PartySize, body.MeetingPoint, res))
			if err != nil {
				if errors.Is(err, lifecycle.ErrNotBookable) {
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{
				"data":       txn,
				"breakdown":  breakdown,
				"expires_at": txn.CreatedAt.Add(config.PaymentWindow()),
			})
		}).
		GET("/transactions", func(ctx *gin.Context) {
			var filters types.TransactionsQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			d := db.GetDb()
			var txns []models.Transaction
			q := d.
				Model(&models.Transaction{}).
				Where("user_id = ?", userId).
				Preload("Product").
				Order("created_at DESC")
			if filters.Status != "" {
				q = q.Where("status = ?", filters.Status)
			}
			if err := q.Find(&txns).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			data := make([]gin.H, 0, len(txns))
			for _, t := range txns {
				row := gin.H{"transaction": t}
				if t.Status == types.TRANSACTION_PENDING || t.Status == types.TRANSACTION_WAITING_PROOF {
					if deadline := lib.GetPaymentDeadline(t.ID.String()); deadline != nil {
						row["expires_at"] = deadline
					}
				}
				data = append(data, row)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		GET("/transactions/:id", func(ctx *gin.Context) {
			txn, ok := ownTransaction(ctx)
			if !ok {
				return
			}
			out := gin.H{"data": txn}
			if deadline := lib.GetPaymentDeadline(txn.ID.String()); deadline != nil {
				out["expires_at"] = deadline
			}
			ctx.JSON(http.StatusOK, out)
		}).
		GET("/transactions/:id/receipt", func(ctx *gin.Context) {
			txn, ok := ownTransaction(ctx)
			if !ok {
				return
			}
			settings, err := lifecycle.LoadPaymentSettings()
			if err != nil {
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				return
			}
			var product models.Product
			d := db.GetDb()
			if err := d.First(&product, txn.ProductID).Error; err != nil {
				ctx.Status(http.StatusNotFound)
				return
			}
			receipt := pricing.ReverseReceipt(txn.Amount, product.DiscountPct, settings.TaxPercentage)
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"transaction": txn,
				"receipt":     receipt,
			}})
		}).
		POST("/transactions/:id/payment", func(ctx *gin.Context) {
			txn, ok := ownTransaction(ctx)
			if !ok {
				return
			}
			var body types.ChoosePaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			switch body.Method {
			case types.METHOD_WALLET:
				updated, err := lifecycle.PayWithWallet(txn.ID)
				if err != nil {
					if errors.Is(err, wallet.ErrInsufficientBalance) {
						ctx.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
						return
					}
					if errors.Is(err, lifecycle.ErrInvalidTransition) {
						ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
						return
					}
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"data": updated})
			case types.METHOD_MANUAL:
				updated, err := lifecycle.ChooseManualTransfer(txn.ID)
				if err != nil {
					if errors.Is(err, lifecycle.ErrInvalidTransition) {
						ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
						return
					}
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
					return
				}
				settings, err := lifecycle.LoadPaymentSettings()
				if err != nil {
					ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusOK, gin.H{
					"data":          updated,
					"bank_accounts": settings.BankAccounts,
				})
			case types.METHOD_GATEWAY:
				if txn.Status != types.TRANSACTION_PENDING {
					ctx.JSON(http.StatusConflict, gin.H{"error": lifecycle.ErrInvalidTransition.Error()})
					return
				}
				settings, err := lifecycle.LoadPaymentSettings()
				if err != nil {
					ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
					return
				}
				token, err := lib.CreateGatewayToken(settings, txn.ID.String(), txn.Amount, txn.Items, ctx.GetString("name"), ctx.GetString("email"))
				if err != nil {
					ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
					return
				}
				d := db.GetDb()
				err = d.Transaction(func(tx *gorm.DB) error {
					md := types.Metadata{}
					if txn.Metadata != nil {
						md = *txn.Metadata
					}
					md["gateway_token"] = token.Token
					md["gateway_redirect_url"] = token.RedirectURL
					return tx.
						Model(&models.Transaction{}).
						Where("id = ?", txn.ID).
						Updates(map[string]any{"payment_method": "gateway", "metadata": md}).
						Error
				})
				if err != nil {
					log.Printf("Error storing gateway token for [%s]: %s\n", txn.ID, err.Error())
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"data": token})
			}
		}).
		POST("/transactions/:id/proof", func(ctx *gin.Context) {
			txn, ok := ownTransaction(ctx)
			if !ok {
				return
			}
			file, err := ctx.FormFile("proof")
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			f, err := file.Open()
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			defer f.Close()
			content, err := io.ReadAll(f)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			key := fmt.Sprintf("proofs/%s/%s", txn.ID, file.Filename)
			url, err := aws.S3UploadPaymentProof(key, content, file.Header.Get("Content-Type"))
			if err != nil {
				log.Printf("Error uploading proof for [%s]: %s\n", txn.ID, err.Error())
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not store payment proof"})
				return
			}
			updated, err := lifecycle.SubmitProof(txn.ID, *url)
			if err != nil {
				if errors.Is(err, lifecycle.ErrInvalidTransition) {
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": updated})
		})
	return g
}

// ownTransaction binds the :id param, loads the transaction and refuses
// access when it does not belong to the authenticated user.
func ownTransaction(ctx *gin.Context) (*models.Transaction, bool) {
	var params types.TransactionURIParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	id, err := uuid.Parse(params.ID)
	if err != nil {
		ctx.Status(http.StatusBadRequest)
		return nil, false
	}
	d := db.GetDb()
	var txn models.Transaction
	if err := d.
		Model(&models.Transaction{}).
		Where("id = ?", id).
		First(&txn).
		Error; err != nil {
		ctx.Status(http.StatusNotFound)
		return nil, false
	}
	userId := ctx.GetUint("id")
	if txn.UserID == nil || *txn.UserID != userId {
		ctx.Status(http.StatusForbidden)
		return nil, false
	}
	return &txn, true
}

// pickScheduleID chooses the schedule row whose quota the booking should
// reserve. Nil when the product has no schedules (unlimited capacity).
// Preference order: the chosen meeting point's schedule, then the first
// schedule for the date that can hold the whole party.
func pickScheduleID(product *models.Product, date time.Time, partySize int, meetingPoint *string, res availability.Resolution) *uint {
	if len(product.Schedules) == 0 {
		return nil
	}
	if meetingPoint != nil && *meetingPoint != "" {
		for _, mp := range res.MeetingPoints {
			if mp.Name != *meetingPoint || mp.ScheduleIndex < 0 {
				continue
			}
			s := product.Schedules[mp.ScheduleIndex]
			if s.Remaining() >= partySize {
				return &s.ID
			}
		}
	}
	target := date.Format(config.DATE_FORMAT)
	for _, s := range product.Schedules {
		if s.Date.Format(config.DATE_FORMAT) != target {
			continue
		}
		if s.Remaining() >= partySize {
			id := s.ID
			return &id
		}
	}
	// No single schedule fits; the conditional update will refuse it.
	id := uint(0)
	for _, s := range product.Schedules {
		if s.Date.Format(config.DATE_FORMAT) == target {
			id = s.ID
			break
		}
	}
	if id == 0 {
		return nil
	}
	return &id
}
