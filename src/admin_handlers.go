package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"atrips/src/config"
	"atrips/src/db"
	"atrips/src/lifecycle"
	"atrips/src/models"
	"atrips/src/types"
	"atrips/src/wallet"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func adminProductHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/products", func(ctx *gin.Context) {
			var body types.CreateProductRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			product := models.Product{
				Category:     body.Category,
				Slug:         slug.Make(body.Title),
				Title:        body.Title,
				Price:        body.Price,
				DiscountPct:  body.DiscountPct,
				Duration:     body.Duration,
				MeetingPoint: body.MeetingPoint,
			}
			if body.Description != "" {
				product.Description = &body.Description
			}
			d := db.GetDb()
			if err := d.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&product).Error
			}); err != nil {
				log.Printf("Error creating product: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": product})
		}).
		PUT("/products/:id/schedules", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.ReplaceSchedulesRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			d := db.GetDb()
			var schedules []models.Schedule
			err := d.Transaction(func(tx *gorm.DB) error {
				var product models.Product
				if err := tx.First(&product, params.ID).Error; err != nil {
					return err
				}
				// Carry booked counts forward so replacing a schedule does
				// not release seats already sold for the same date.
				var existing []models.Schedule
				if err := tx.
					Where(&models.Schedule{ProductID: params.ID}).
					Find(&existing).
					Error; err != nil {
					return err
				}
				bookedByDate := map[string]int{}
				for _, s := range existing {
					bookedByDate[s.Date.Format(config.DATE_FORMAT)] += s.Booked
				}
				var existingIds []uint
				for _, s := range existing {
					existingIds = append(existingIds, s.ID)
				}
				if len(existingIds) > 0 {
					if err := tx.
						Where("schedule_id IN (?)", existingIds).
						Delete(&models.MeetingPoint{}).
						Error; err != nil {
						return err
					}
					if err := tx.
						Where("id IN (?)", existingIds).
						Delete(&models.Schedule{}).
						Error; err != nil {
						return err
					}
				}
				for _, item := range body.Schedules {
					date, err := time.Parse(config.DATE_FORMAT, item.Date)
					if err != nil {
						return err
					}
					s := models.Schedule{
						ProductID: params.ID,
						Date:      date,
						Quota:     item.Quota,
						Booked:    bookedByDate[item.Date],
						Price:     item.Price,
					}
					for _, mp := range item.MeetingPoints {
						s.MeetingPoints = append(s.MeetingPoints, models.MeetingPoint{
							Name:  mp.Name,
							Price: mp.Price,
						})
					}
					if err := tx.Create(&s).Error; err != nil {
						return err
					}
					schedules = append(schedules, s)
				}
				return nil
			})
			if err != nil {
				log.Printf("Error replacing schedules for product [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": schedules, "count": len(schedules)})
		}).
		POST("/products/:id/packages", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreatePackageRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			pkg := models.Package{
				ProductID: params.ID,
				Name:      body.Name,
				Price:     body.Price,
			}
			d := db.GetDb()
			if err := d.Transaction(func(tx *gorm.DB) error {
				if err := tx.First(&models.Product{}, params.ID).Error; err != nil {
					return err
				}
				return tx.Create(&pkg).Error
			}); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": pkg})
		}).
		DELETE("/products/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			d := db.GetDb()
			err := d.Transaction(func(tx *gorm.DB) error {
				var count int64
				if err := tx.
					Model(&models.Transaction{}).
					Where("product_id = ?", params.ID).
					Count(&count).
					Error; err != nil {
					return err
				}
				if count > 0 {
					return errProductReferenced
				}
				var scheduleIds []uint
				if err := tx.
					Model(&models.Schedule{}).
					Where("product_id = ?", params.ID).
					Pluck("id", &scheduleIds).
					Error; err != nil {
					return err
				}
				if len(scheduleIds) > 0 {
					if err := tx.
						Where("schedule_id IN (?)", scheduleIds).
						Delete(&models.MeetingPoint{}).
						Error; err != nil {
						return err
					}
				}
				if err := tx.
					Where("product_id = ?", params.ID).
					Delete(&models.Schedule{}).
					Error; err != nil {
					return err
				}
				if err := tx.
					Where("product_id = ?", params.ID).
					Delete(&models.Package{}).
					Error; err != nil {
					return err
				}
				return tx.Delete(&models.Product{}, params.ID).Error
			})
			if err != nil {
				if errors.Is(err, errProductReferenced) {
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

var errProductReferenced = errors.New("product has transactions and cannot be deleted")

func adminTransactionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/transactions", func(ctx *gin.Context) {
			var filters types.TransactionsQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			d := db.GetDb()
			var txns []models.Transaction
			q := d.
				Model(&models.Transaction{}).
				Preload("Product").
				Order("created_at DESC")
			if filters.Status != "" {
				q = q.Where("status = ?", filters.Status)
			}
			if err := q.Find(&txns).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": txns, "count": len(txns)})
		}).
		PUT("/transactions/:id/verify", func(ctx *gin.Context) {
			id, ok := transactionIDParam(ctx)
			if !ok {
				return
			}
			var body types.VerifyTransactionRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			txn, err := lifecycle.Verify(id, body.Accept)
			if err != nil {
				respondLifecycleError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": txn})
		}).
		PUT("/transactions/:id/paid", func(ctx *gin.Context) {
			id, ok := transactionIDParam(ctx)
			if !ok {
				return
			}
			txn, err := lifecycle.MarkPaid(id)
			if err != nil {
				respondLifecycleError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": txn})
		}).
		PUT("/transactions/:id/refund", func(ctx *gin.Context) {
			id, ok := transactionIDParam(ctx)
			if !ok {
				return
			}
			txn, err := lifecycle.Refund(id)
			if err != nil {
				respondLifecycleError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": txn})
		}).
		DELETE("/transactions/:id", func(ctx *gin.Context) {
			id, ok := transactionIDParam(ctx)
			if !ok {
				return
			}
			if err := lifecycle.Purge(id); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/transactions", func(ctx *gin.Context) {
			var body struct {
				IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ids := make([]uuid.UUID, 0, len(body.IDs))
			for _, raw := range body.IDs {
				id, err := uuid.Parse(raw)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				ids = append(ids, id)
			}
			if err := lifecycle.Purge(ids...); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

func adminSettingsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/settings/payments", func(ctx *gin.Context) {
			settings, err := lifecycle.LoadPaymentSettings()
			if err != nil {
				if errors.Is(err, lifecycle.ErrMissingSettings) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": settings})
		}).
		PUT("/settings/payments", func(ctx *gin.Context) {
			var body types.UpdatePaymentSettingsRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			d := db.GetDb()
			var settings models.PaymentSetting
			err := d.Transaction(func(tx *gorm.DB) error {
				err := tx.Model(&models.PaymentSetting{}).First(&settings).Error
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				settings.Mode = body.Mode
				settings.SandboxClientKey = body.SandboxClientKey
				settings.SandboxServerKey = body.SandboxServerKey
				settings.ProductionClientKey = body.ProductionClientKey
				settings.ProductionServerKey = body.ProductionServerKey
				settings.TaxPercentage = body.TaxPercentage
				settings.BankAccounts = body.BankAccounts
				return tx.Save(&settings).Error
			})
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": settings})
		}).
		POST("/wallets/topup", func(ctx *gin.Context) {
			var body types.WalletTopupRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			d := db.GetDb()
			err := d.Transaction(func(tx *gorm.DB) error {
				if err := tx.First(&models.User{}, body.UserID).Error; err != nil {
					return err
				}
				return wallet.Credit(tx, body.UserID, body.Amount, body.Description)
			})
			if err != nil {
				log.Printf("Error topping up wallet for user [%d]: %s\n", body.UserID, err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			balance, err := wallet.Balance(d, body.UserID)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"balance": balance}})
		})
	return g
}

func transactionIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	var params types.TransactionURIParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(params.ID)
	if err != nil {
		ctx.Status(http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func respondLifecycleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrTransactionNotFound):
		ctx.Status(http.StatusNotFound)
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	}
}
