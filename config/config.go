package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Booking BookingConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// BookingConfig tunes the scheduling engine.
type BookingConfig struct {
	// Maximum non-cancelled future bookings a patient may hold across all resources.
	MaxAppointmentsPerPatient int
	// Iteration failsafe when expanding an availability into slots.
	MaxSlotsPerAvailability int
	// Maximum date range accepted by availability stats.
	StatsMaxPeriodDays int
	// How long a caller waits to acquire a resource/queue lock.
	LockWait time.Duration
	// TTL on a held lock key; stale locks expire on their own.
	LockTTL time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	lockWait, err := time.ParseDuration(viper.GetString("BOOKING_LOCK_WAIT"))
	if err != nil {
		lockWait = 5 * time.Second
	}

	lockTTL, err := time.ParseDuration(viper.GetString("BOOKING_LOCK_TTL"))
	if err != nil {
		lockTTL = 30 * time.Second
	}

	maxAppointments := viper.GetInt("BOOKING_MAX_APPOINTMENTS_PER_PATIENT")
	if maxAppointments <= 0 {
		maxAppointments = 10
	}

	maxSlots := viper.GetInt("BOOKING_MAX_SLOTS_PER_AVAILABILITY")
	if maxSlots <= 0 {
		maxSlots = 1000
	}

	statsMaxPeriod := viper.GetInt("BOOKING_STATS_MAX_PERIOD_DAYS")
	if statsMaxPeriod <= 0 {
		statsMaxPeriod = 32
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Booking: BookingConfig{
			MaxAppointmentsPerPatient: maxAppointments,
			MaxSlotsPerAvailability:   maxSlots,
			StatsMaxPeriodDays:        statsMaxPeriod,
			LockWait:                  lockWait,
			LockTTL:                   lockTTL,
		},
	}

	return config, nil
}
