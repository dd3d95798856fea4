package apprise

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/thomaslty/ass-to-srt/internal/batch"
	"github.com/thomaslty/ass-to-srt/internal/config"
	"github.com/thomaslty/ass-to-srt/pkg/logger"
)

// Client wraps the Apprise API.
type Client struct {
	cfg    config.AppriseConfig
	client *resty.Client
}

// NewClient creates a new Apprise client.
func NewClient(cfg config.AppriseConfig) *Client {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second)

	return &Client{
		cfg:    cfg,
		client: client,
	}
}

// NotifyRequest is the request body for Apprise.
type NotifyRequest struct {
	Body  string `json:"body"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"` // info, success, warning, failure
	Tag   string `json:"tag,omitempty"`
}

// Notify sends a notification via Apprise.
func (c *Client) Notify(title, body, notifyType string) error {
	if !c.cfg.Enabled {
		return nil
	}

	tag := c.cfg.Tag
	if tag == "" {
		tag = "all"
	}

	req := NotifyRequest{
		Title: title,
		Body:  body,
		Type:  notifyType,
		Tag:   tag,
	}

	url := fmt.Sprintf("%s/notify/%s", c.cfg.BaseURL, c.cfg.Key)

	resp, err := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(url)

	if err != nil {
		return fmt.Errorf("apprise request: %w", err)
	}

	if resp.StatusCode() >= 400 {
		return fmt.Errorf("apprise error: %s", resp.String())
	}

	logger.Debugf("🔔 Notification sent: %s", title)
	return nil
}

// NotifyRunSummary reports the outcome of one batch run. Failures flip the
// notification type so Apprise routes can alert on them.
func (c *Client) NotifyRunSummary(s *batch.Summary) error {
	notifyType := "success"
	title := fmt.Sprintf("ass-to-srt: converted %d/%d file(s)", s.Converted, s.Total)

	var body strings.Builder
	fmt.Fprintf(&body, "Converted %d of %d file(s) in %v.", s.Converted, s.Total, s.Elapsed.Round(time.Millisecond))

	if len(s.Failed) > 0 {
		notifyType = "failure"
		body.WriteString("\nFailed:")
		for _, f := range s.Failed {
			fmt.Fprintf(&body, "\n- %s: %s", f.File, f.Reason)
		}
	}

	return c.Notify(title, body.String(), notifyType)
}
