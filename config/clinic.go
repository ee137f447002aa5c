package config

import (
	"github.com/spf13/viper"

	"jyotikabilling/models"
)

// LoadClinicProfile reads the [clinic] table of a TOML file. It is the
// letterhead used until one is saved through the API.
func LoadClinicProfile(path string) (*models.ClinicProfile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetDefault("clinic.default_bill_address", models.DefaultBillAddress)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var profile models.ClinicProfile
	if err := v.UnmarshalKey("clinic", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
