package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/armandomtz/fraccionet/internal/config"
	"github.com/armandomtz/fraccionet/internal/model"
)

var buildings = []string{"Torre A", "Torre B", "Torre C"}

func main() {
	cfg := config.Load()

	// Force DB logging off to avoid noise
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to Database")

	// Common password for all seeded accounts
	password := "password123"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	log.Println("🌱 Seeding admin and 9 residents...")

	users := seedUsers(db, string(hashedPassword), password)
	seedGeneralChat(db, users)
	seedBuildingChats(db)
	seedPayments(db, users, cfg.Scheduler.DaysAhead)
	seedRules(db)

	log.Println("🎉 Seeding completed!")
}

func seedUsers(db *gorm.DB, hashedPassword, plainPassword string) []model.User {
	var created []model.User

	for i := 1; i <= 10; i++ {
		email := fmt.Sprintf("residente%d@fraccionet.local", i)
		role := model.RoleResidente
		if i == 1 {
			email = "admin@fraccionet.local"
			role = model.RoleAdministrador
		} else if i == 2 {
			email = "vigilante@fraccionet.local"
			role = model.RoleVigilante
		}

		var existing model.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			created = append(created, existing)
			continue
		}

		user := model.User{
			ID:        uuid.New(),
			FullName:  fmt.Sprintf("Residente Número %d", i),
			Building:  buildings[i%len(buildings)],
			Apartment: fmt.Sprintf("%d0%d", i%len(buildings)+1, i),
			Phone:     fmt.Sprintf("555000%04d", i),
			Email:     email,
			Password:  hashedPassword,
			Role:      role,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("❌ Failed to create user %s: %v", email, err)
			continue
		}
		created = append(created, user)
		log.Printf("✅ Created user: %s | Pass: %s | Role: %s", email, plainPassword, role)
	}
	return created
}

func seedGeneralChat(db *gorm.DB, users []model.User) {
	var count int64
	db.Model(&model.Chat{}).Where("kind = ?", model.ChatKindGeneral).Count(&count)
	if count > 0 || len(users) == 0 {
		return
	}

	admin := users[0]
	chat := model.Chat{
		ID:        uuid.New(),
		Kind:      model.ChatKindGeneral,
		CreatorID: &admin.ID,
	}
	if err := db.Create(&chat).Error; err != nil {
		log.Printf("❌ Failed to create general chat: %v", err)
		return
	}
	log.Println("✅ Created general chat")

	// Leave a greeting so the room isn't empty on first open
	db.Create(&model.Message{
		ID:       uuid.New(),
		ChatID:   chat.ID,
		SenderID: admin.ID,
		Content:  "¡Bienvenidos al chat general del fraccionamiento!",
		SentAt:   time.Now().UTC(),
	})
}

func seedBuildingChats(db *gorm.DB) {
	for _, building := range buildings {
		var count int64
		db.Model(&model.Chat{}).
			Where("kind = ? AND building_name = ?", model.ChatKindBuilding, building).
			Count(&count)
		if count > 0 {
			continue
		}

		chat := model.Chat{
			ID:           uuid.New(),
			Kind:         model.ChatKindBuilding,
			BuildingName: building,
		}
		if err := db.Create(&chat).Error; err != nil {
			log.Printf("❌ Failed to create chat for %s: %v", building, err)
			continue
		}
		log.Printf("✅ Created building chat: %s", building)
	}
}

// seedPayments gives every resident a payment whose vigencia lands exactly
// daysAhead days out, so the next scheduled scan has something to notify.
func seedPayments(db *gorm.DB, users []model.User, daysAhead int) {
	var count int64
	db.Model(&model.Payment{}).Count(&count)
	if count > 0 {
		return
	}

	vigencia := time.Now().AddDate(0, 0, daysAhead)
	for _, u := range users {
		payment := model.Payment{
			ID:            uuid.New(),
			UserID:        u.ID,
			UserName:      u.FullName,
			Building:      u.Building,
			Apartment:     u.Apartment,
			PaymentType:   "mantenimiento",
			PaymentMethod: "efectivo",
			Amount:        850,
			PaidAt:        time.Now().AddDate(0, -1, 0),
			Vigencia:      vigencia,
			Status:        "pagado",
			ProcessedBy:   "seeder",
		}
		if err := db.Create(&payment).Error; err != nil {
			log.Printf("❌ Failed to create payment for %s: %v", u.Email, err)
		}
	}
	log.Printf("✅ Seeded %d payments with vigencia %s", len(users), vigencia.Format("2006-01-02"))
}

func seedRules(db *gorm.DB) {
	var count int64
	db.Model(&model.Rule{}).Count(&count)
	if count > 0 {
		return
	}

	texts := []string{
		"Respetar los horarios de silencio de 22:00 a 07:00.",
		"Las áreas comunes deben quedar limpias después de usarse.",
		"Los pagos de mantenimiento vencen el día 5 de cada mes.",
	}
	for _, t := range texts {
		db.Create(&model.Rule{ID: uuid.New(), Text: t})
	}
	log.Printf("✅ Seeded %d rules", len(texts))
}
