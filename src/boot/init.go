package boot

import (
	"log"

	"atrips/src/config"
	"atrips/src/db"
	"atrips/src/lib"
	"atrips/src/lifecycle"
	"atrips/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Schedule{},
		&models.MeetingPoint{},
		&models.Package{},
		&models.Transaction{},
		&models.Wallet{},
		&models.BalanceLedgerEntry{},
		&models.PaymentSetting{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	if config.ExpirySweepEnabled() {
		window := config.PaymentWindow()
		id, err := lib.CreateCronJob(func() {
			if _, err := lifecycle.ExpireOverdue(window); err != nil {
				log.Printf("Error running expiry sweep: %s\n", err.Error())
			}
		}, window/4)
		if err != nil {
			log.Printf("Error scheduling expiry sweep: %s\n", err.Error())
			return
		}
		log.Printf("Expiry sweep scheduled as job [%s]\n", *id)
	}
	sched.Start()
}
