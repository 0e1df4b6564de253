package tide

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// APISource fetches hourly readings from a REST endpoint that answers
// GET {base}/api/v1/readings?station={station}&hours={hours} with
// {"readings": [ ... ]} in meters above sea level.
type APISource struct {
	BaseURL string
	APIKey  string
	Station string
	Hours   int
	Client  *http.Client
}

// NewAPISource creates a source with optional proxy support.
func NewAPISource(baseURL, apiKey, station string, hours int, proxyURL string) *APISource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &APISource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Station: station,
		Hours:   hours,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (s *APISource) Name() string { return "api:" + s.Station }

func (s *APISource) Levels() ([]float64, error) {
	endpoint := fmt.Sprintf("%s/api/v1/readings?station=%s&hours=%d",
		s.BaseURL, url.QueryEscape(s.Station), s.Hours)
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tide readings: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch tide readings: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Readings []float64 `json:"readings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode tide readings: %w", err)
	}
	if len(result.Readings) == 0 {
		return nil, fmt.Errorf("station %s returned no readings", s.Station)
	}
	return result.Readings, nil
}
