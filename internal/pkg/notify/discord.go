package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrWebhookNotConfigured = errors.New("discord webhook url not configured")

const embedColor = 0x5865F2

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbed struct {
	Title     string         `json:"title"`
	Color     int            `json:"color"`
	Fields    []discordField `json:"fields"`
	Timestamp string         `json:"timestamp"`
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

// DiscordNotifier 通过 Discord webhook 发送 embed 消息
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewDiscordNotifier(webhookURL string, timeout time.Duration) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

func (d *DiscordNotifier) Notify(ctx context.Context, msg *Message) error {
	if d.webhookURL == "" {
		return ErrWebhookNotConfigured
	}

	body, err := json.Marshal(discordPayload{Embeds: []discordEmbed{buildEmbed(msg)}})
	if err != nil {
		return fmt.Errorf("failed to marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post discord webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func buildEmbed(msg *Message) discordEmbed {
	ts := msg.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return discordEmbed{
		Title: "📢 Streamer Plan Notification",
		Color: embedColor,
		Fields: []discordField{
			{
				Name:  "👤 Streamer",
				Value: fmt.Sprintf("**Name:** %s\n**Username:** %s", msg.Streamer.Name, msg.Streamer.Username),
			},
			{
				Name: "📊 Plan Info",
				Value: fmt.Sprintf("**Views/day:** %d\n**Chats/day:** %d\n**Hours/day:** %s",
					msg.Plan.ViewsPerDay, msg.Plan.ChatsPerDay, formatHours(msg.Plan.HoursPerDay)),
			},
			{
				Name:  "🗓 Planned Streams",
				Value: formatStreams(msg.Streams),
			},
		},
		Timestamp: ts.UTC().Format(time.RFC3339),
	}
}

func formatStreams(streams []StreamInfo) string {
	if len(streams) == 0 {
		return "_No planned streams_"
	}
	parts := make([]string, 0, len(streams))
	for _, s := range streams {
		parts = append(parts, fmt.Sprintf("**%s**\nStart: %s\nDuration: %s hrs",
			s.Title, s.ScheduledStart.UTC().Format("2006-01-02 15:04:05"), formatHours(s.DurationHours)))
	}
	return strings.Join(parts, "\n\n")
}

func formatHours(h float64) string {
	s := fmt.Sprintf("%.2f", h)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
