package devices

import (
	"fmt"
	"log"
	"os"
	"strings"

	"dochadzka_backend/internals/features/devices/model"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

type DeviceSeed struct {
	Code  string  `json:"code"`
	Label *string `json:"label"`
}

// LoadDeviceSeeds membaca file JSON; kode kosong dan duplikat dibuang.
func LoadDeviceSeeds(filePath string) ([]DeviceSeed, error) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("baca %s: %w", filePath, err)
	}

	var raw []DeviceSeed
	if err := sonic.Unmarshal(file, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}

	seen := make(map[string]bool, len(raw))
	out := make([]DeviceSeed, 0, len(raw))
	for _, s := range raw {
		s.Code = strings.TrimSpace(s.Code)
		if s.Code == "" || seen[s.Code] {
			continue
		}
		seen[s.Code] = true
		out = append(out, s)
	}
	return out, nil
}

func SeedDevicesFromJSON(db *gorm.DB, filePath string) error {
	log.Println("📥 Membaca file:", filePath)

	seeds, err := LoadDeviceSeeds(filePath)
	if err != nil {
		return err
	}

	var existing []string
	if err := db.Model(&model.DeviceModel{}).Pluck("code", &existing).Error; err != nil {
		return fmt.Errorf("ambil kode existing: %w", err)
	}
	existingMap := make(map[string]bool, len(existing))
	for _, c := range existing {
		existingMap[c] = true
	}

	var rows []model.DeviceModel
	for _, s := range seeds {
		if existingMap[s.Code] {
			log.Printf("ℹ️ Device '%s' sudah ada, dilewati.", s.Code)
			continue
		}
		rows = append(rows, model.DeviceModel{DeviceCode: s.Code, DeviceLabel: s.Label})
	}

	if len(rows) == 0 {
		log.Println("ℹ️ Tidak ada device baru untuk diinsert.")
		return nil
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("bulk insert devices: %w", err)
	}
	log.Printf("✅ Berhasil insert %d device", len(rows))
	return nil
}
