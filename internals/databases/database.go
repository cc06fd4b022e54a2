package database

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/url"
	"time"

	"dochadzka_backend/internals/configs"
	attendanceModel "dochadzka_backend/internals/features/attendance/model"
	deviceModel "dochadzka_backend/internals/features/devices/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// BuildDSN: URL lengkap + statement_timeout (lihat DB_STATEMENT_TIMEOUT_MS).
// User/password di-escape, jadi password boleh berisi @ / # dsb.
func BuildDSN() string {
	q := url.Values{}
	q.Set("sslmode", configs.GetEnv("DB_SSLMODE", "require"))
	q.Set("application_name", "dochadzka")
	q.Set("options", fmt.Sprintf("-c statement_timeout=%d", configs.GetEnvInt("DB_STATEMENT_TIMEOUT_MS", 3000)))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(configs.GetEnv("DB_USER"), configs.GetEnv("DB_PASSWORD")),
		Host:     net.JoinHostPort(configs.GetEnv("DB_HOST"), configs.GetEnv("DB_PORT", "5432")),
		Path:     "/" + configs.GetEnv("DB_NAME"),
		RawQuery: q.Encode(),
	}
	return u.String()
}

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL (Supabase)...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: BuildDSN(),
		// PgBouncer (transaction pooling) tidak suka prepared statements
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	// kiosk traffic kecil; jaga di bawah limit Supabase/PgBouncer
	sqlDB.SetMaxOpenConns(configs.GetEnvInt("DB_MAX_OPEN_CONNS", 10))
	sqlDB.SetMaxIdleConns(configs.GetEnvInt("DB_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := Ping(ctx, DB); err != nil {
			log.Printf("warm-up ping err: %v", err)
			return
		}
		// allow-list lookup adalah query paling sering
		var n int64
		if err := DB.WithContext(ctx).Model(&deviceModel.DeviceModel{}).Count(&n).Error; err != nil {
			log.Printf("warm-up devices err: %v", err)
			return
		}
		log.Printf("[INFO] warm-up ok, %d device(s) in allow-list", n)
	}()
}

// AutoMigrate membuat tabel devices + attendance bila belum ada.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		log.Printf("[WARN] pgcrypto extension: %v", err)
	}
	return db.AutoMigrate(&deviceModel.DeviceModel{}, &attendanceModel.AttendanceModel{})
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
