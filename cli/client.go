package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ApiClient handles API requests to the maitred engine
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
	SessionID  string
}

// ChatResult mirrors the engine's per-utterance response
type ChatResult struct {
	SessionID  string `json:"session_id"`
	Reply      string `json:"reply"`
	Candidates []struct {
		Name       string   `json:"name"`
		Rating     float64  `json:"rating"`
		DistanceKm *float64 `json:"distance_km"`
	} `json:"candidates"`
	Intent *struct {
		Action string `json:"action"`
		Items  []struct {
			Name     string  `json:"name"`
			Price    float64 `json:"price"`
			Quantity int     `json:"quantity"`
		} `json:"items"`
	} `json:"intent"`
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("MAITRED_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
		BaseURL: baseURL,
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() bool {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Chat sends one utterance and returns the engine result. The session id is
// remembered across calls so the conversation accumulates slots.
func (c *ApiClient) Chat(text string, lat, lng *float64) (*ChatResult, error) {
	payload, err := json.Marshal(map[string]any{
		"session_id": c.SessionID,
		"text":       text,
		"lat":        lat,
		"lng":        lng,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(c.BaseURL+"/api/v1/chat", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat request failed: %s", body)
	}

	var result ChatResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	c.SessionID = result.SessionID
	return &result, nil
}

// ClearSession resets the current conversation on the server
func (c *ApiClient) ClearSession() error {
	if c.SessionID == "" {
		return nil
	}
	req, err := http.NewRequest(http.MethodDelete, c.BaseURL+"/api/v1/sessions/"+c.SessionID, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	c.SessionID = ""
	return nil
}
