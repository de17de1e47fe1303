package converter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pagecraft/pagecraft/internal"
	"github.com/pagecraft/pagecraft/internal/template"
)

var formatContentTypes = map[string]string{
	template.ExportFormatPDF:  "application/pdf",
	template.ExportFormatPNG:  "image/png",
	template.ExportFormatDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	template.ExportFormatJPEG: "image/jpeg",
}

type Config struct {
	ServiceURL string
	APIKey     string
	Timeout    time.Duration
}

// Client talks to the external HTML conversion service.
type Client struct {
	serviceURL string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		serviceURL: config.ServiceURL,
		apiKey:     config.APIKey,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Convert renders HTML into the requested format and returns the artifact
// bytes.
func (c *Client) Convert(ctx context.Context, html, format string) (*template.ExportArtifact, error) {
	contentType, ok := formatContentTypes[format]
	if !ok {
		return nil, fmt.Errorf("unsupported conversion format: %s", format)
	}

	payload := map[string]string{
		"content": html,
		"format":  format,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conversion request: %w", err)
	}

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL+"/convert", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create conversion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug("sending conversion request", "format", format, "url", c.serviceURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("conversion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("converter returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversion response: %w", err)
	}

	c.logger.Info("conversion completed", "format", format, "size", len(data))

	return &template.ExportArtifact{
		Data:        data,
		ContentType: contentType,
		Extension:   format,
	}, nil
}
