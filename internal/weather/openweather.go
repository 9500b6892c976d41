package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type OpenWeatherProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type openWeatherResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneH float64 `json:"1h"`
	} `json:"rain"`
	Snow struct {
		OneH float64 `json:"1h"`
	} `json:"snow"`
}

func (p *OpenWeatherProvider) Current(ctx context.Context, lat, lon float64) (Conditions, error) {
	if p.Client == nil {
		p.Client = &http.Client{Timeout: 5 * time.Second}
	}
	if p.BaseURL == "" {
		p.BaseURL = "https://api.openweathermap.org"
	}
	if p.APIKey == "" {
		return Conditions{}, ErrUnavailable
	}

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("appid", p.APIKey)
	q.Set("units", "metric")
	endpoint := p.BaseURL + "/data/2.5/weather?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Conditions{}, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return Conditions{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Conditions{}, fmt.Errorf("openweather http error: %s", resp.Status)
	}

	var body openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Conditions{}, err
	}

	cond := Conditions{
		Temperature: body.Main.Temp,
		RainMMH:     body.Rain.OneH,
		SnowMMH:     body.Snow.OneH,
		WindSpeed:   body.Wind.Speed,
	}
	if len(body.Weather) > 0 {
		cond.Condition = body.Weather[0].Main
		cond.Description = body.Weather[0].Description
	}
	return cond, nil
}
