package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"salesreport/internal/server/models"
)

type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) do(method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Message != "" {
			return fmt.Errorf("%s (status %d)", e.Message, resp.StatusCode)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

type loginResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

func (c *apiClient) Login(userName, password string) (*loginResult, error) {
	var out loginResult
	err := c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": userName,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

func (c *apiClient) ListUsers() ([]models.PublicUser, error) {
	var out []models.PublicUser
	if err := c.do(http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *apiClient) Export(userID string) (string, error) {
	var out struct {
		Key string `json:"key"`
	}
	if err := c.do(http.MethodPost, "/api/export/"+userID, nil, &out); err != nil {
		return "", err
	}
	return out.Key, nil
}
