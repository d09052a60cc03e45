package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"atrips/src/availability"
	"atrips/src/config"
	"atrips/src/db"
	"atrips/src/lifecycle"
	"atrips/src/models"
	"atrips/src/pricing"
	"atrips/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func productHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/products", func(ctx *gin.Context) {
			var query struct {
				Category string `form:"category,omitempty" binding:"omitempty,oneof=trip stay transport"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			d := db.GetDb()
			var products []models.Product
			q := d.Model(&models.Product{})
			if query.Category != "" {
				q = q.Where(&models.Product{Category: types.ProductCategory(query.Category)})
			}
			if err := q.Preload("Packages").Find(&products).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": products, "count": len(products)})
		}).
		GET("/products/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			d := db.GetDb()
			var product models.Product
			if err := d.
				Model(&models.Product{}).
				Where(&models.Product{ID: params.ID}).
				Preload("Schedules", func(db *gorm.DB) *gorm.DB {
					return db.Order("schedules.date ASC")
				}).
				Preload("Schedules.MeetingPoints").
				Preload("Packages").
				First(&product).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": product})
		}).
		GET("/products/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query types.AvailabilityQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			date, err := time.Parse(config.DATE_FORMAT, query.Date)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			product, err := loadProductForBooking(params.ID)
			if err != nil {
				ctx.Status(http.StatusNotFound)
				return
			}
			res := availability.Resolve(product, availability.Request{
				Date:           date,
				PartySize:      query.PartySize,
				DurationNights: query.Nights,
			})
			ctx.JSON(http.StatusOK, gin.H{"data": res})
		}).
		POST("/products/:id/quote", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.QuoteRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			date, err := time.Parse(config.DATE_FORMAT, body.Date)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			product, err := loadProductForBooking(params.ID)
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
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"availability": res,
				"breakdown":    breakdown,
			}})
		})
	return g
}

// loadProductForBooking pulls the product with everything availability
// and pricing need in one query.
func loadProductForBooking(id uint) (*models.Product, error) {
	d := db.GetDb()
	var product models.Product
	err := d.
		Model(&models.Product{}).
		Where(&models.Product{ID: id}).
		Preload("Schedules.MeetingPoints").
		Preload("Packages").
		First(&product).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// selectPackages filters the product's add-ons down to the chosen IDs.
// Unknown IDs are ignored rather than rejected.
func selectPackages(product *models.Product, ids []uint) []models.Package {
	if len(ids) == 0 {
		return nil
	}
	wanted := map[uint]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	var selected []models.Package
	for _, p := range product.Packages {
		if wanted[p.ID] {
			selected = append(selected, p)
		}
	}
	return selected
}
