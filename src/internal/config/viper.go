package config

import (
	"github.com/spf13/viper"
)

func NewViper() *viper.Viper {
	config := viper.New()
	config.SetConfigName("config")
	config.SetConfigType("yaml")
	config.AddConfigPath("./")
	config.AddConfigPath("./config")
	config.AutomaticEnv()
	_ = config.ReadInConfig()
	return config
}
