package main

import (
	"net/http"

	"atrips/src/db"
	"atrips/src/wallet"

	"github.com/gin-gonic/gin"
)

func walletHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/wallet", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			d := db.GetDb()
			balance, err := wallet.Balance(d, userId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"balance": balance}})
		}).
		GET("/wallet/ledger", func(ctx *gin.Context) {
			var query struct {
				Limit int `form:"limit,default=50" binding:"omitempty,gte=1,lte=200"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			d := db.GetDb()
			entries, err := wallet.Entries(d, userId, query.Limit)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": entries, "count": len(entries)})
		})
	return g
}
