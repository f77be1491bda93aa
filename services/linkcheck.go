package services

import (
	"context"
	"log"
	"net/http"

	"stuywatch/httputil"
	"stuywatch/models"
)

// LinkCheckService probes the deep links of newly found apartments before
// they go out in a notification. Strictly best-effort: a dead or blocked
// link is logged for the operator and nothing else changes.
type LinkCheckService struct {
	client *http.Client
}

func NewLinkCheckService(client *http.Client) *LinkCheckService {
	if client == nil {
		client = httputil.NewClient()
	}
	return &LinkCheckService{client: client}
}

func (s *LinkCheckService) Check(ctx context.Context, apartments []models.Apartment) {
	for _, apt := range apartments {
		if apt.URL == "" {
			continue
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, apt.URL, nil)
		if err != nil {
			log.Printf("Link check %s: bad URL %q: %v", apt.Address, apt.URL, err)
			continue
		}
		httputil.SetBrowserHeaders(req)

		resp, err := s.client.Do(req)
		if err != nil {
			log.Printf("Link check %s: request failed: %v", apt.Address, err)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("Link check %s: unexpected status %d for %s", apt.Address, resp.StatusCode, apt.URL)
		}
	}
}
