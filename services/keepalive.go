package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// KeepAlive periodically pings this service and an optional companion
// service to keep free-tier hosts from idling them out. It shares no state
// with request handling and owns its own cancellation handle.
type KeepAlive struct {
	client       *http.Client
	selfURL      string
	companionURL string
	interval     time.Duration
	logger       *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewKeepAlive(selfURL, companionURL string, interval time.Duration, logger *zap.Logger) *KeepAlive {
	return &KeepAlive{
		client:       &http.Client{Timeout: 10 * time.Second},
		selfURL:      selfURL,
		companionURL: companionURL,
		interval:     interval,
		logger:       logger,
	}
}

// SelfURL returns the configured self-ping base URL.
func (k *KeepAlive) SelfURL() string { return k.selfURL }

// CompanionURL returns the configured companion base URL.
func (k *KeepAlive) CompanionURL() string { return k.companionURL }

// Start launches the background ping loop. It is a no-op when neither URL
// is configured.
func (k *KeepAlive) Start() {
	if k.selfURL == "" && k.companionURL == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	k.cancel = cancel
	k.wg.Add(1)

	go func() {
		defer k.wg.Done()
		ticker := time.NewTicker(k.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				k.pingAll(ctx)
			}
		}
	}()

	k.logger.Info("Keep-alive pinger started",
		zap.Duration("interval", k.interval),
		zap.String("self_url", k.selfURL),
		zap.String("companion_url", k.companionURL),
	)
}

// Stop cancels the ping loop and waits for it to exit.
func (k *KeepAlive) Stop() {
	if k.cancel == nil {
		return
	}
	k.cancel()
	k.wg.Wait()
}

func (k *KeepAlive) pingAll(ctx context.Context) {
	for _, url := range []string{k.selfURL, k.companionURL} {
		if url == "" {
			continue
		}
		if _, err := k.Ping(ctx, url); err != nil {
			k.logger.Warn("Keep-alive ping failed",
				zap.String("url", url),
				zap.Error(err),
			)
		}
	}
}

// Ping issues a GET against the target's health endpoint and returns the
// decoded upstream health payload.
func (k *KeepAlive) Ping(ctx context.Context, baseURL string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ping %s failed: %w", baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ping %s returned status %d", baseURL, resp.StatusCode)
	}

	health := map[string]interface{}{}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("ping %s returned invalid body: %w", baseURL, err)
	}
	return health, nil
}
