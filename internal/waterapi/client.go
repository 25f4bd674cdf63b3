// Package waterapi is the device's client for the water-reminder HTTP
// API. Every exchange is a single request/response with a fixed
// timeout and a bounded response body: each endpoint has a named
// worst-case capacity derived from its response schema, so an
// oversized body fails loudly instead of truncating silently.
package waterapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Audreyz7/DeerHacks26/pkg/logger"
)

// requestTimeout bounds one full exchange, connection setup included.
const requestTimeout = 10 * time.Second

// Per-endpoint response capacity budgets, in bytes. Sized from the
// documented response schemas with headroom; a schema change that
// outgrows its budget fails as a parse error.
const (
	scheduleResponseCap = 512
	summaryResponseCap  = 1536
	reminderResponseCap = 1024
	intakeResponseCap   = 768
	ackResponseCap      = 256
)

// Failure taxonomy. Every error returned by an endpoint method wraps
// exactly one of these; all three mean "skip this cycle, keep stale
// state, let the next cadence tick retry".
var (
	// ErrTransport covers socket, TLS and timeout failures.
	ErrTransport = errors.New("transport failure")
	// ErrStatus covers unexpected HTTP status codes.
	ErrStatus = errors.New("unexpected http status")
	// ErrParse covers malformed or over-budget response bodies.
	ErrParse = errors.New("response parse failure")
)

// Connectivity gates exchanges on the network association. Satisfied by
// *transport.Transport.
type Connectivity interface {
	EnsureConnected(ctx context.Context) (bool, error)
}

// TLSConfig selects the trust model for https base URLs: a pinned root
// certificate, or — in development mode — no verification at all. The
// insecure mode is an explicit, recognized trade-off, not an accidental
// gap.
type TLSConfig struct {
	InsecureDev bool
	RootCAPEM   []byte
}

// Client issues bounded JSON exchanges against the water API.
type Client struct {
	baseURL string
	userID  string
	conn    Connectivity
	http    *http.Client
}

// New creates a Client. baseURL must not have a trailing slash
// (request paths are joined as baseURL + "/api/...").
func New(baseURL, userID string, conn Connectivity, tlsCfg TLSConfig) (*Client, error) {
	tcfg, err := buildTLSConfig(tlsCfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		conn:    conn,
		http: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				TLSClientConfig: tcfg,
			},
		},
	}, nil
}

func buildTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	if cfg.InsecureDev {
		return &tls.Config{InsecureSkipVerify: true}, nil
	}
	if len(cfg.RootCAPEM) == 0 {
		return nil, nil
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(cfg.RootCAPEM) {
		return nil, fmt.Errorf("root CA: no certificates parsed from PEM")
	}
	return &tls.Config{RootCAs: pool}, nil
}

// exchange performs one HTTP exchange and returns the status code and
// the response body, read up to capacity bytes. Transport-level
// failures wrap ErrTransport; a body over budget wraps ErrParse. Status
// code checking is the caller's responsibility.
func (c *Client) exchange(ctx context.Context, method, url string, jsonBody []byte, capacity int64) (int, []byte, error) {
	// Defensive: exchanges never run against a down radio.
	if _, err := c.conn.EnsureConnected(ctx); err != nil {
		return 0, nil, fmt.Errorf("%w: not connected: %v", ErrTransport, err)
	}

	var bodyReader io.Reader
	if jsonBody != nil {
		bodyReader = bytes.NewReader(jsonBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if jsonBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warnf("waterapi: %s %s failed before response: %v", method, url, err)
		return 0, nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, capacity+1))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	if int64(len(payload)) > capacity {
		return 0, nil, fmt.Errorf("%w: body exceeds %d byte budget", ErrParse, capacity)
	}

	logger.Debugf("waterapi: %s %s -> %d (%d bytes, rid %s)", method, url, resp.StatusCode, len(payload), requestID)
	return resp.StatusCode, payload, nil
}
