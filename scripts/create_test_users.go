package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/database"
	"github.com/anujdevsingh/gram-panchayat/pkg/config"
	pkgjwt "github.com/anujdevsingh/gram-panchayat/pkg/jwt"
)

func main() {
	log.Println("🚀 Starting test users creation...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Println("✅ Database connected successfully")

	// Initialize JWT manager
	jwtManager := pkgjwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Seed panchayat for the test users
	panchayat := entities.NewPanchayat("Rampur", "Uttar Pradesh", "Sitapur", "hindi")

	log.Println("🗑️  Cleaning up existing test data...")
	db.Where("phone_number LIKE ?", "+9199999%").Delete(&entities.User{})
	db.Where("name = ? AND district = ?", panchayat.Name, panchayat.District).Delete(&entities.Panchayat{})

	if err := db.Create(panchayat).Error; err != nil {
		log.Fatalf("Failed to create test panchayat: %v", err)
	}
	log.Printf("🏡 Test panchayat created: %s (%s)\n", panchayat.Name, panchayat.ID)

	// Define test users. The face descriptor stands in for the vector the
	// client app would compute from a camera frame.
	testUsers := []struct {
		Phone      string
		Name       string
		Role       entities.UserRole
		Descriptor string
	}{
		{Phone: "+919999900001", Name: "Asha Devi", Role: entities.UserRoleCitizen, Descriptor: "test-face-asha"},
		{Phone: "+919999900002", Name: "Ramesh Kumar", Role: entities.UserRoleCitizen, Descriptor: "test-face-ramesh"},
		{Phone: "+919999900003", Name: "Sunita Sharma", Role: entities.UserRoleOfficial, Descriptor: "test-face-sunita"},
		{Phone: "+919999900004", Name: "Vijay Singh", Role: entities.UserRoleAdmin, Descriptor: "test-face-vijay"},
	}

	log.Println("🔑 Creating test users and tokens...")

	for i, testUser := range testUsers {
		sum := sha256.Sum256([]byte(testUser.Descriptor))
		user := &entities.User{
			ID:                 uuid.New(),
			Name:               testUser.Name,
			PhoneNumber:        testUser.Phone,
			Role:               testUser.Role,
			PanchayatID:        &panchayat.ID,
			FaceDescriptorHash: hex.EncodeToString(sum[:]),
		}

		if err := db.Create(user).Error; err != nil {
			log.Printf("❌ Failed to create user %s: %v", testUser.Phone, err)
			continue
		}

		accessToken, err := jwtManager.GenerateAccessToken(user.ID, user.PhoneNumber, string(user.Role))
		if err != nil {
			log.Printf("❌ Failed to generate access token for %s: %v", testUser.Phone, err)
			continue
		}

		refreshToken, err := jwtManager.GenerateRefreshToken(user.ID)
		if err != nil {
			log.Printf("❌ Failed to generate refresh token for %s: %v", testUser.Phone, err)
			continue
		}

		fmt.Printf("═══════════════════════════════════════════════════════\n")
		fmt.Printf("🟢 User %d: %s (%s)\n", i+1, testUser.Name, user.Role)
		fmt.Printf("═══════════════════════════════════════════════════════\n")
		fmt.Printf("Phone:        %s\n", user.PhoneNumber)
		fmt.Printf("User ID:      %s\n", user.ID)
		fmt.Printf("Descriptor:   %s\n", testUser.Descriptor)
		fmt.Printf("\n📋 Access Token (Copy to Postman):\n%s\n", accessToken)
		fmt.Printf("\n🔄 Refresh Token:\n%s\n", refreshToken)
		fmt.Printf("───────────────────────────────────────────────────────\n\n")
	}

	log.Println("✅ All test users created successfully!")
	log.Println("💡 Usage:")
	log.Println("   1. Copy the Access Token above")
	log.Println("   2. In Postman, set header: Authorization: Bearer <access_token>")
	log.Println("   3. Token expiry:", cfg.JWT.AccessExpiry)
	log.Println("🧹 To clean up, run: DELETE FROM users WHERE phone_number LIKE '+9199999%'")
}
