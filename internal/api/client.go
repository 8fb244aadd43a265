package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/net/publicsuffix"
)

const (
	defaultTimeout        = 15 * time.Second
	defaultConnectTimeout = 5 * time.Second
	maxBodyBytes          = 8 << 20
)

// Options configure a Client.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	ConnectTimeout time.Duration
	Logger         *zerolog.Logger
	// HTTPClient overrides the default transport; its Jar is replaced when nil.
	HTTPClient *http.Client
}

// Envelope is a decoded backend response. Data holds the "data" member as
// plain maps, slices and scalars.
type Envelope struct {
	ID   string `json:"id,omitempty"`
	Data any    `json:"data"`
	raw  []byte
}

// Decode unmarshals the "data" member into v.
func (e Envelope) Decode(v any) error {
	r := gjson.GetBytes(e.raw, "data")
	if !r.Exists() {
		return errors.New("response has no data")
	}
	return json.Unmarshal([]byte(r.Raw), v)
}

// Client talks to the backend.
type Client struct {
	base    string
	timeout time.Duration
	http    *http.Client
	log     zerolog.Logger
}

// New constructs a Client with a cookie jar scoped by the public suffix list.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("api: base URL is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("api: invalid base URL: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaultConnectTimeout
	}
	cli := opts.HTTPClient
	if cli == nil {
		tr := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   opts.ConnectTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
		// Timeout stays 0: every call carries a context deadline instead.
		cli = &http.Client{Transport: tr}
	}
	if cli.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, err
		}
		cli.Jar = jar
	}
	c := &Client{
		base:    strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		http:    cli,
		log:     zerolog.Nop(),
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("component", "api").Logger()
	}
	return c, nil
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string { return c.base }

// do performs one call. query may be nil; body, when non-nil, is sent as JSON.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (Envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Envelope{}, fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return Envelope{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Envelope{}, ctx.Err()
		}
		return Envelope{}, err
	}
	defer resp.Body.Close()
	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Envelope{}, &StatusError{Code: resp.StatusCode, Text: statusText(resp)}
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Envelope{}, err
	}
	return parseEnvelope(raw)
}

func parseEnvelope(raw []byte) (Envelope, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Envelope{}, nil
	}
	if !gjson.ValidBytes(raw) {
		return Envelope{}, errors.New("api: response is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	env := Envelope{raw: raw}
	if id := doc.Get("id"); id.Exists() {
		env.ID = id.String()
	}
	if data := doc.Get("data"); data.Exists() {
		env.Data = data.Value()
	}
	return env, nil
}
