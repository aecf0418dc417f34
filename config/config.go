package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr  string `default:"" env:"APP_HOST"`
		Port        int    `default:"8080"  env:"APP_PORT"`
		BodyLimitMb int    `default:"10" env:"APP_BODY_LIMIT_MB"`
		FrontendURL string `default:"http://localhost:3000" env:"APP_FRONTEND_URL"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"schoolconnect" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret             string `default:"change-me" env:"JWT_SECRET"`
		JWTExpireInSec        int    `default:"3600" env:"JWT_EXPIRE_IN_SEC"`
		JWTRefreshExpireInSec int    `default:"1209600" env:"JWT_REFRESH_EXPIRE_IN_SEC"`
		BcryptCost            int    `default:"10" env:"AUTH_BCRYPT_COST"`
		ResetCodeTTLInHours   int    `default:"24" env:"AUTH_RESET_CODE_TTL_IN_HOURS"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"minioadmin" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"minioadmin" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"schoolconnect" env:"S3_BUCKET_NAME"`
		MaxResumeSizeMb int    `default:"5" env:"S3_MAX_RESUME_SIZE_MB"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		EmailFrom  string `default:"no-reply@schoolconnect.local" env:"SMTP_EMAIL_FROM"`
	}
	Redis struct {
		Addr              string `default:"" env:"REDIS_ADDR"`
		Password          string `default:"" env:"REDIS_PASSWORD"`
		DB                int    `default:"0" env:"REDIS_DB"`
		LoginLimit        int    `default:"10" env:"REDIS_LOGIN_LIMIT"`
		LoginWindowSec    int    `default:"60" env:"REDIS_LOGIN_WINDOW_SEC"`
		RegisterLimit     int    `default:"5" env:"REDIS_REGISTER_LIMIT"`
		RegisterWindowSec int    `default:"600" env:"REDIS_REGISTER_WINDOW_SEC"`
	}
	Admin struct {
		Email     string `default:"" env:"ADMIN_EMAIL"`
		Password  string `default:"" env:"ADMIN_PASSWORD"`
		FirstName string `default:"School" env:"ADMIN_FIRST_NAME"`
		LastName  string `default:"Admin" env:"ADMIN_LAST_NAME"`
	}
	Workers struct {
		CleanupIntervalMin        int `default:"60" env:"WORKER_CLEANUP_INTERVAL_MIN"`
		NotificationRetentionDays int `default:"30" env:"WORKER_NOTIFICATION_RETENTION_DAYS"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
