package xqueue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"grading_service/pkg/retry"
)

// ErrEmptyQueue means the queue had nothing for us. A normal poll result,
// not a failure.
var ErrEmptyQueue = errors.New("queue is empty")

type Config struct {
	URL       string
	Username  string
	Password  string
	QueueName string
	Timeout   time.Duration
}

// Client talks to the external grading queue over its JSON-over-HTTP
// interface. Authentication is session-based: Login must succeed before
// the other calls, and the session cookie lives in the client's jar.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("xqueue url must be set")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}, nil
}

// Login establishes the queue session.
func (c *Client) Login(ctx context.Context) error {
	form := url.Values{
		"username": {c.username},
		"password": {c.password},
	}

	returnCode, content, err := c.post(ctx, "/xqueue/login/", form)
	if err != nil {
		return err
	}
	if returnCode != ReturnCodeSuccess {
		return fmt.Errorf("queue login rejected: %s", content)
	}
	return nil
}

// GetSubmission pulls one item off the named queue and normalizes it.
// Returns ErrEmptyQueue when the queue reports nothing available.
func (c *Client) GetSubmission(ctx context.Context, queueName string) (*QueueObject, error) {
	params := url.Values{"queue_name": {queueName}}

	returnCode, content, err := c.get(ctx, "/xqueue/get_submission/", params)
	if err != nil {
		return nil, err
	}
	if returnCode != ReturnCodeSuccess {
		return nil, ErrEmptyQueue
	}

	code, obj := ParseQueueObject(content, queueName)
	if code != ReturnCodeSuccess {
		return nil, fmt.Errorf("malformed queue object: %.120q", content)
	}
	return obj, nil
}

// PutResult posts a finished grading result back to the queue.
func (c *Client) PutResult(ctx context.Context, header, body string) error {
	form := url.Values{
		"xqueue_header": {header},
		"xqueue_body":   {body},
	}

	returnCode, content, err := c.post(ctx, "/xqueue/put_result/", form)
	if err != nil {
		return err
	}
	if returnCode != ReturnCodeSuccess {
		return fmt.Errorf("queue rejected result: %s", content)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (int, string, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, "", err
	}

	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, form url.Values) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

// do runs the request and decodes the reply envelope. Network failures and
// unexpected HTTP statuses are marked transient so callers can retry.
func (c *Client) do(req *http.Request) (int, string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("%w: cannot reach queue at %s: %v", retry.ErrTransient, c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("%w: unexpected HTTP status code [%d]", retry.ErrTransient, resp.StatusCode)
	}

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", fmt.Errorf("%w: reading queue reply: %v", retry.ErrTransient, err)
	}

	returnCode, content := ParseReply(string(rawBody))
	return returnCode, content, nil
}
