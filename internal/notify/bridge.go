// In file: internal/notify/bridge.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/dileep-u-k/weather-agent/internal/api"
	"github.com/dileep-u-k/weather-agent/internal/tools"
)

const DefaultRunToolURL = "http://localhost:3000/run-tool"

// runnerConfig mirrors the options a tool runner would be given. The gateway
// accepts and ignores it.
var runnerConfig = json.RawMessage(`{"strictValidation":true,"maxRecursiveToolRuns":1,"streamFinalResponse":false,"verbose":true}`)

// Bridge fetches weather reports from a running gateway over POST /run-tool.
type Bridge struct {
	url        string
	httpClient *http.Client
}

var _ WeatherFetcher = (*Bridge)(nil)

func NewBridge(url string, timeout time.Duration) *Bridge {
	if url == "" {
		url = DefaultRunToolURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Bridge{url: url, httpClient: &http.Client{Timeout: timeout}}
}

// FetchWeather asks the gateway for the current weather in city.
func (b *Bridge) FetchWeather(ctx context.Context, city string) (*tools.WeatherReport, error) {
	payload := api.RunToolRequest{
		Messages: []api.Message{{Role: api.RoleUser, Content: fmt.Sprintf("Get the weather information for %s", city)}},
		Tools:    []tools.Tool{tools.WeatherToolSchema()},
		Config:   runnerConfig,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run-tool request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create run-tool request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Printf("Sending run-tool request for %s to %s", city, b.url)
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr api.ErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("gateway returned %d (%s): %s", resp.StatusCode, apiErr.Kind, apiErr.Error)
		}
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(respBody))
	}

	var report tools.WeatherReport
	if err := json.Unmarshal(respBody, &report); err != nil {
		return nil, fmt.Errorf("failed to parse weather report: %w", err)
	}
	return &report, nil
}
