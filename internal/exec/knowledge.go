package exec

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPKnowledge answers weather and encyclopedia lookups over plain HTTP
// (wttr.in and the Wikipedia summary API). Headlines and translation have
// no keyless endpoint, so those fall through to the browser.
type HTTPKnowledge struct {
	Client *http.Client
}

func (k HTTPKnowledge) Weather(ctx context.Context, location string) (string, error) {
	u := "https://wttr.in/" + url.PathEscape(location) + "?format=3"
	body, err := k.get(ctx, u)
	if err != nil {
		return "", err
	}
	report := strings.TrimSpace(string(body))
	if report == "" {
		return "", fmt.Errorf("empty weather report")
	}
	return report, nil
}

func (k HTTPKnowledge) WikiSummary(ctx context.Context, topic string) (string, error) {
	u := "https://en.wikipedia.org/api/rest_v1/page/summary/" + url.PathEscape(topic)
	body, err := k.get(ctx, u)
	if err != nil {
		return "", err
	}
	var summary struct {
		Extract string `json:"extract"`
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		return "", err
	}
	if summary.Extract == "" {
		return "", fmt.Errorf("no summary for %q", topic)
	}
	return summary.Extract, nil
}

func (k HTTPKnowledge) Headlines(context.Context, string) ([]string, error) {
	return nil, ErrUnavailable
}

func (k HTTPKnowledge) Translate(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}

func (k HTTPKnowledge) get(ctx context.Context, u string) ([]byte, error) {
	client := k.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d from %s", resp.StatusCode, u)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
