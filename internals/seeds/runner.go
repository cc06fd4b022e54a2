package seeds

import (
	"log"

	"dochadzka_backend/internals/configs"
	devices "dochadzka_backend/internals/seeds/devices"

	"gorm.io/gorm"
)

const DefaultDevicesFile = "internals/seeds/devices/data_devices.json"

func RunAllSeeds(db *gorm.DB) {
	//* Device allow-list
	path := configs.GetEnv("SEED_DEVICES_FILE", DefaultDevicesFile)
	if err := devices.SeedDevicesFromJSON(db, path); err != nil {
		log.Printf("❌ Seed devices gagal: %v", err)
	}
}
