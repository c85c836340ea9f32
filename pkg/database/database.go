package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"task-manager-api/configs"

	_ "github.com/lib/pq"
)

// ConnectDB membuka koneksi Postgres dan melakukan retry
// setiap 5 detik sampai database siap menerima koneksi.
func ConnectDB(cfg configs.Config) *sql.DB {
	psqlconn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	for {
		db, err := sql.Open("postgres", psqlconn)
		if err == nil {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(time.Hour)
			if err = db.Ping(); err == nil {
				return db
			}
			db.Close()
		}
		log.Printf("Database connection error: %v. Retrying in 5 seconds...", err)
		time.Sleep(5 * time.Second)
	}
}
