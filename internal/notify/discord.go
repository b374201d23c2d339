package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/gamewatch/internal/config"
	"github.com/woozymasta/gamewatch/internal/models"
	"github.com/woozymasta/gamewatch/internal/vars"
	"golang.org/x/time/rate"
)

// maxRateLimitWait caps how long a single request waits on a 429 before giving up.
const maxRateLimitWait = 30 * time.Second

// Discord is a Sink posting to one channel through the Discord REST API.
type Discord struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	token      string
	channelID  string
	userAgent  string
}

// NewDiscord creates a Discord sink for the configured channel.
func NewDiscord(cfg config.Discord) *Discord {
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Discord{
		baseURL:   strings.TrimRight(cfg.APIURL, "/"),
		token:     cfg.Token,
		channelID: cfg.ChannelID,
		userAgent: vars.UserAgent(),
		limiter:   rate.NewLimiter(limit, burst),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// message is the subset of the Discord message object we read back.
type message struct {
	ID string `json:"id"`
}

// Create posts msg to the channel and returns the new message ID.
func (d *Discord) Create(ctx context.Context, msg models.Message) (string, error) {
	var created message
	if err := d.doRequest(ctx, http.MethodPost, d.messagesPath(""), msg, &created); err != nil {
		return "", fmt.Errorf("notify.Create: %w", err)
	}
	if created.ID == "" {
		return "", errors.New("notify.Create: response without message id")
	}
	return created.ID, nil
}

// Update edits the message identified by handle.
func (d *Discord) Update(ctx context.Context, handle string, msg models.Message) Result {
	if err := d.doRequest(ctx, http.MethodPatch, d.messagesPath(handle), msg, nil); err != nil {
		return ResultOf(fmt.Errorf("notify.Update: %w", err))
	}
	return Result{Status: OK}
}

// Delete removes the message identified by handle.
func (d *Discord) Delete(ctx context.Context, handle string) Result {
	if err := d.doRequest(ctx, http.MethodDelete, d.messagesPath(handle), nil, nil); err != nil {
		return ResultOf(fmt.Errorf("notify.Delete: %w", err))
	}
	return Result{Status: OK}
}

func (d *Discord) messagesPath(handle string) string {
	p := "/channels/" + url.PathEscape(d.channelID) + "/messages"
	if handle != "" {
		p += "/" + url.PathEscape(handle)
	}
	return p
}

// doRequest sends one API call. A 429 response is retried once after the
// delay Discord asks for.
func (d *Discord) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		payload = data
	}

	for attempt := 0; ; attempt++ {
		if err := d.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		retryAfter, err := d.send(ctx, method, path, payload, out)
		if retryAfter <= 0 || attempt > 0 {
			return err
		}

		log.Warn().
			Str("method", method).
			Str("path", path).
			Dur("retry_after", retryAfter).
			Msg("Discord rate limit hit, retrying")

		timer := time.NewTimer(retryAfter)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// send performs a single HTTP exchange. On 429 it returns the requested
// retry delay alongside the error.
func (d *Discord) send(ctx context.Context, method, path string, payload []byte, out any) (time.Duration, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, reqBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bot "+d.token)
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		httpErr, retryAfter := readError(resp)
		if resp.StatusCode == http.StatusTooManyRequests {
			return retryDelay(resp, retryAfter), httpErr
		}
		return 0, httpErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return 0, fmt.Errorf("decode response: %w", err)
		}
	}

	return 0, nil
}

// apiError is the Discord JSON error body.
type apiError struct {
	Message    string  `json:"message"`
	Code       int     `json:"code"`
	RetryAfter float64 `json:"retry_after"`
}

func readError(resp *http.Response) (*HTTPError, float64) {
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", err)}, 0
	}

	var apiErr apiError
	if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
		return &HTTPError{StatusCode: resp.StatusCode, Code: apiErr.Code, Message: apiErr.Message}, apiErr.RetryAfter
	}

	return &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}, 0
}

// retryDelay prefers the retry_after body field, then the Retry-After header.
func retryDelay(resp *http.Response, seconds float64) time.Duration {
	if seconds <= 0 {
		if v, err := strconv.ParseFloat(resp.Header.Get("Retry-After"), 64); err == nil {
			seconds = v
		}
	}

	delay := time.Duration(seconds * float64(time.Second))
	if delay <= 0 {
		delay = time.Second
	}
	if delay > maxRateLimitWait {
		delay = maxRateLimitWait
	}

	return delay
}
