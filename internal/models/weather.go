package models

// DangerDay is one calendar day of fire danger forecast for a district.
type DangerDay struct {
	Day    string `json:"day"`
	Rating string `json:"rating"`
	Index  *int   `json:"index"`
}

// DistrictFireStatus is the merged view of one district.
// A nil FireDanger means no data; callers treat nil and empty the same.
type DistrictFireStatus struct {
	TotalFireBan bool        `json:"total_fire_ban"`
	FireDanger   []DangerDay `json:"fire_danger"`
}

// FireDataSnapshot maps the feed-defined district name to its status.
type FireDataSnapshot map[string]DistrictFireStatus

type DayForecast struct {
	Day     string `json:"day"`
	TempMin int    `json:"temp_min"`
	TempMax int    `json:"temp_max"`
}

type WeatherResponse struct {
	Location     string        `json:"location"`
	Temperature  float64       `json:"temperature"`
	Description  string        `json:"description"`
	Humidity     int           `json:"humidity"`
	WindSpeed    float64       `json:"wind_speed"`
	TempMin      float64       `json:"temp_min"`
	TempMax      float64       `json:"temp_max"`
	Forecast7Day []DayForecast `json:"forecast_7day"`
	BomTodayURL  string        `json:"bom_today_url"`
	Bom7DayURL   string        `json:"bom_7day_url"`
	TotalFireBan bool          `json:"total_fire_ban"`
	FireDanger   []DangerDay   `json:"fire_danger"`
}

// Location is one configured dashboard entry.
type Location struct {
	Name           string   `mapstructure:"name"`
	City           string   `mapstructure:"city"`
	Country        string   `mapstructure:"country"`
	BomURL         string   `mapstructure:"bom_url"`
	FireDistrict   string   `mapstructure:"fire_district"`
	ShowFireDanger bool     `mapstructure:"show_fire_danger"`
	Latitude       *float64 `mapstructure:"latitude"`
	Longitude      *float64 `mapstructure:"longitude"`
}

type GeoLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Forecast is the subset of an open-meteo forecast response the dashboard uses.
type Forecast struct {
	Current struct {
		Temperature2M      float64 `json:"temperature_2m"`
		RelativeHumidity2M int     `json:"relative_humidity_2m"`
		WindSpeed10M       float64 `json:"wind_speed_10m"`
		WeatherCode        int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Time             []string  `json:"time"`
		Temperature2MMax []float64 `json:"temperature_2m_max"`
		Temperature2MMin []float64 `json:"temperature_2m_min"`
		WeatherCode      []int     `json:"weather_code"`
	} `json:"daily"`
}
