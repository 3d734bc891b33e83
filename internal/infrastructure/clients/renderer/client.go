// Package renderer calls the external headless-browser service that converts
// HTML documents into PDFs.
package renderer

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/whitenlighten/practice-gateway/pkg/config"
	apperrors "github.com/whitenlighten/practice-gateway/pkg/errors"
)

// Client is an HTTP client for the renderer service.
type Client struct {
	http *resty.Client
}

// NewClient creates a renderer client from config.
func NewClient(cfg *config.RendererConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)

	return &Client{http: client}
}

type renderRequest struct {
	HTML    string        `json:"html"`
	Options renderOptions `json:"options"`
}

type renderOptions struct {
	Format          string `json:"format"`
	PrintBackground bool   `json:"printBackground"`
}

// RenderPDF converts an HTML document into PDF bytes.
func (c *Client) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(renderRequest{
			HTML: html,
			Options: renderOptions{
				Format:          "A4",
				PrintBackground: true,
			},
		}).
		Post("/render")
	if err != nil {
		return nil, apperrors.NewExternalError("renderer service unreachable", err)
	}
	if resp.IsError() {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("renderer service returned status %d", resp.StatusCode()), nil)
	}

	return resp.Body(), nil
}
