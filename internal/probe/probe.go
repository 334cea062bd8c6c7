package probe

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"botwatch/internal/models"
)

// Prober checks reachability of the bot's external dependencies. Every probe
// carries its own bounded timeout; an unreachable or slow dependency is a
// negative result, never an error.
type Prober struct {
	messagingURL string
	inferenceURL string
	contentURL   string
	internetURL  string

	probeTimeout    time.Duration
	internetTimeout time.Duration

	client *http.Client
}

type Options struct {
	MessagingAPIURL  string
	InferenceAPIURL  string
	ContentMgmtURL   string
	InternetCheckURL string
	ProbeTimeout     time.Duration
	InternetTimeout  time.Duration
}

func New(opts Options) *Prober {
	return &Prober{
		messagingURL:    opts.MessagingAPIURL,
		inferenceURL:    opts.InferenceAPIURL,
		contentURL:      opts.ContentMgmtURL,
		internetURL:     opts.InternetCheckURL,
		probeTimeout:    opts.ProbeTimeout,
		internetTimeout: opts.InternetTimeout,
		client:          &http.Client{},
	}
}

// Check probes all dependencies concurrently and returns the full status map.
func (p *Prober) Check(ctx context.Context) models.ServiceStatus {
	status := models.ServiceStatus{}
	var mu sync.Mutex
	set := func(name string, up bool) {
		mu.Lock()
		status[name] = up
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		// Any transport-level response counts as having a route out.
		_, ok := p.get(ctx, p.internetURL, p.internetTimeout)
		set(models.ServiceInternet, ok)
		return nil
	})
	g.Go(func() error {
		code, ok := p.get(ctx, p.messagingURL, p.probeTimeout)
		set(models.ServiceMessagingAPI, ok && code == http.StatusOK)
		return nil
	})
	g.Go(func() error {
		// The inference API answers 404 to unauthenticated requests.
		code, ok := p.get(ctx, p.inferenceURL, p.probeTimeout)
		set(models.ServiceInferenceAPI, ok && (code == http.StatusOK || code == http.StatusNotFound))
		return nil
	})
	g.Go(func() error {
		url := strings.TrimSuffix(p.contentURL, "/xmlrpc.php")
		if url == "" {
			set(models.ServiceContentManagement, false)
			return nil
		}
		code, ok := p.get(ctx, url, p.probeTimeout)
		set(models.ServiceContentManagement, ok && code == http.StatusOK)
		return nil
	})
	_ = g.Wait()

	return status
}

func (p *Prober) get(ctx context.Context, url string, timeout time.Duration) (int, bool) {
	if url == "" {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()
	return resp.StatusCode, true
}
