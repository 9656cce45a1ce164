package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Session  SessionSettings
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// SessionSettings holds the timing policy for test sessions. The join buffer
// widens the window in which a session still counts as active, so a request
// that arrives moments after the deadline is not bounced. The auto-submit
// grace only tags how late a server-validated auto-submit arrived.
type SessionSettings struct {
	JoinBufferSeconds      int
	AutoSubmitGraceSeconds int
}

func (s SessionSettings) JoinBuffer() time.Duration {
	return time.Duration(s.JoinBufferSeconds) * time.Second
}

func (s SessionSettings) AutoSubmitGrace() time.Duration {
	return time.Duration(s.AutoSubmitGraceSeconds) * time.Second
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SESSION_JOIN_BUFFER_SECONDS", 60)
	viper.SetDefault("SESSION_AUTO_SUBMIT_GRACE_SECONDS", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Session.JoinBufferSeconds = viper.GetInt("SESSION_JOIN_BUFFER_SECONDS")
	config.Session.AutoSubmitGraceSeconds = viper.GetInt("SESSION_AUTO_SUBMIT_GRACE_SECONDS")

	log.Info().Str("port", config.Server.Port).
		Int("joinBufferSeconds", config.Session.JoinBufferSeconds).
		Int("autoSubmitGraceSeconds", config.Session.AutoSubmitGraceSeconds).
		Msg("Config loaded")
	return &config, nil
}
