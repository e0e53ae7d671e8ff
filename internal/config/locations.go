package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/bobby-s-dev/life-dashboard/internal/models"
)

// LoadLocations reads the dashboard location list from a YAML file:
//
//	locations:
//	  - name: Castlemaine
//	    city: Castlemaine
//	    country: AU
//	    bom_url: https://www.bom.gov.au/location/australia/victoria/north-central/bvic_pt012-castlemaine
//	    fire_district: North Central
//	    show_fire_danger: true
func LoadLocations(path string) ([]models.Location, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read locations file %s: %w", path, err)
	}

	var locations []models.Location
	if err := v.UnmarshalKey("locations", &locations); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}

	for i, loc := range locations {
		if loc.City == "" {
			return nil, fmt.Errorf("location %d: city is required", i)
		}
		if locations[i].Country == "" {
			locations[i].Country = "AU"
		}
	}
	return locations, nil
}
