package config

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/martindev-ke/fieldops/models"
)

// zoneStaff mirrors the sector/zone staffing sheet issued by the regional
// office. Seeded users log in with their staff number and the default PIN
// until they change it.
type zoneStaff struct {
	Zone              string
	MeterReaders      []string
	RevenueCollectors []string
	IIUInspectors     []string
}

type sectorStaff struct {
	Sector     string
	Supervisor string
	Zones      []zoneStaff
}

var staffDirectory = []sectorStaff{
	{
		Sector:     "Kakamega West",
		Supervisor: "Paul Odhiambo",
		Zones: []zoneStaff{
			{
				Zone:              "Shimanyiro",
				MeterReaders:      []string{"Martin Mackenzie", "Samwel Nyamori"},
				RevenueCollectors: []string{"Linda Njambi"},
				IIUInspectors:     []string{"Elijah Toroitich"},
			},
			{
				Zone:              "Shinyalu",
				MeterReaders:      []string{"Jeremiah Kiprop", "Ronald Muhavi"},
				RevenueCollectors: []string{"Kevin Barasa"},
				IIUInspectors:     []string{"Erick Kiplagat"},
			},
			{
				Zone:              "Musoli",
				MeterReaders:      []string{"Arnold Chogo", "Obed Muchache"},
				RevenueCollectors: []string{"Joseph Ongeri"},
				IIUInspectors:     []string{"John Migeni"},
			},
		},
	},
	{Sector: "Kakamega East"},
	{Sector: "Mumias"},
}

// SeedAll populates the staff directory and a billing approver account.
// It is idempotent: if any users exist the seeding is skipped.
func SeedAll(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Seeding skipped: users already present")
		return nil
	}

	pin := os.Getenv("DEFAULT_PIN")
	if pin == "" {
		pin = "1234"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default pin: %w", err)
	}

	var users []models.User
	next := 85001
	add := func(name, role, position, zone, sector string) {
		users = append(users, models.User{
			StaffNo:  fmt.Sprintf("%d", next),
			Name:     name,
			PinHash:  string(hash),
			Role:     role,
			Position: position,
			Zone:     zone,
			Sector:   sector,
			IsActive: true,
		})
		next++
	}

	for _, sector := range staffDirectory {
		if sector.Supervisor != "" {
			add(sector.Supervisor, models.RoleSupervisor, "Supervisor", "All Zones", sector.Sector)
		}
		for _, zone := range sector.Zones {
			for _, name := range zone.MeterReaders {
				add(name, models.RoleOfficer, "Meter Reader", zone.Zone, sector.Sector)
			}
			for _, name := range zone.RevenueCollectors {
				add(name, models.RoleOfficer, "Revenue Collector", zone.Zone, sector.Sector)
			}
			for _, name := range zone.IIUInspectors {
				add(name, models.RoleOfficer, "IIU Inspector", zone.Zone, sector.Sector)
			}
		}
	}

	// Rebilling requests at level 3 need a "final" approver from billing.
	add("Billing Manager", models.RoleFinal, "Billing Manager", "All Zones", "Regional Office")

	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Printf("Seeded %d staff accounts (default PIN in effect, change on first login)", len(users))
	return nil
}
