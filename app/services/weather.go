package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lidosole/lidosole/config"
	"github.com/lidosole/lidosole/pkg/apperr"
	"github.com/lidosole/lidosole/pkg/cache"
	"github.com/lidosole/lidosole/pkg/httpclient"
)

const (
	weatherTTL      = 5 * time.Minute
	weatherCacheKey = "weather:current"
)

// Weather is the reading shown on the resort homepage.
type Weather struct {
	Temperature float64   `json:"temperature"`
	WindSpeed   float64   `json:"windSpeed"`
	Code        int       `json:"code"`
	Time        time.Time `json:"time"`
}

type openMeteoResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// WeatherService proxies the third-party weather API for the resort's
// coordinates, caching the last reading briefly so the upstream is not hit
// on every page load.
type WeatherService struct {
	client *httpclient.Client
	cache  *cache.Cache
}

func NewWeatherService(client *httpclient.Client, c *cache.Cache) *WeatherService {
	return &WeatherService{client: client, cache: c}
}

// Current returns the cached reading or fetches a fresh one. Upstream
// failures surface as Unavailable.
func (s *WeatherService) Current(ctx context.Context) (Weather, error) {
	var cached Weather
	if s.cache.Get(ctx, weatherCacheKey, &cached) {
		return cached, nil
	}

	url := fmt.Sprintf("%s/v1/forecast?latitude=%s&longitude=%s&current_weather=true",
		config.WeatherAPIBase(), config.WeatherLatitude(), config.WeatherLongitude())

	var raw openMeteoResponse
	if err := s.client.GetJSON(ctx, url, &raw); err != nil {
		return Weather{}, apperr.Wrap(apperr.Unavailable, err, "weather service unavailable")
	}

	reading := Weather{
		Temperature: raw.CurrentWeather.Temperature,
		WindSpeed:   raw.CurrentWeather.WindSpeed,
		Code:        raw.CurrentWeather.WeatherCode,
		Time:        time.Now(),
	}
	_ = s.cache.Set(ctx, weatherCacheKey, reading, weatherTTL)
	return reading, nil
}
