// config/config.go
package config

import (
	"log"
	"os"
	"strings"
	"time"
)

var (
	Port           string
	MongoURI       string
	DatabaseName   string
	JWTKey         []byte
	JWTExpiration  time.Duration
	NotifyInterval time.Duration
	UpdateWeekday  time.Weekday
	NotifyDedup    bool
)

func LoadConfig() {
	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017"
	}

	DatabaseName = os.Getenv("MONGO_DB")
	if DatabaseName == "" {
		DatabaseName = "pmohub"
	}

	JWTKey = []byte(os.Getenv("JWT_SECRET"))
	if len(JWTKey) == 0 {
		JWTKey = []byte("secret")
	}

	JWTExpiration = parseDuration(os.Getenv("JWT_EXPIRE"), 24*time.Hour)
	NotifyInterval = parseDuration(os.Getenv("NOTIFY_INTERVAL"), time.Minute)
	NotifyDedup = os.Getenv("NOTIFY_DEDUP") == "true"
	UpdateWeekday = parseWeekday(os.Getenv("UPDATE_WEEKDAY"), time.Thursday)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if raw == "7d" {
		return 7 * 24 * time.Hour
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid duration %q, using %s", raw, fallback)
		return fallback
	}
	return dur
}

func parseWeekday(raw string, fallback time.Weekday) time.Weekday {
	if raw == "" {
		return fallback
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(raw, d.String()) {
			return d
		}
	}
	log.Printf("Invalid UPDATE_WEEKDAY %q, using %s", raw, fallback)
	return fallback
}
