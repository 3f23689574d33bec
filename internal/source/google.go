// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/toeirei/avail/internal/model"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// googleRedirectURL is registered for desktop OAuth clients. Nothing listens
// there; the user copies the code from the browser's address bar.
const googleRedirectURL = "http://localhost"

// maxCalendarFetches bounds concurrent per-calendar requests.
const maxCalendarFetches = 4

// Google reads events from every calendar in the user's Google calendar list.
type Google struct {
	svc     *calendar.Service
	limiter *rate.Limiter
}

// GoogleOAuthConfig parses an OAuth client JSON downloaded from the Google
// Cloud console.
func GoogleOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("could not read google credentials: %w", err)
	}
	conf, err := google.ConfigFromJSON(data, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("could not parse google credentials: %w", err)
	}
	conf.RedirectURL = googleRedirectURL
	return conf, nil
}

// NewGoogle builds an authorized provider from the credentials file and the
// stored token. ratePerSecond <= 0 disables request limiting.
func NewGoogle(ctx context.Context, credentialsFile string, tokens *TokenStore, ratePerSecond float64) (*Google, error) {
	conf, err := GoogleOAuthConfig(credentialsFile)
	if err != nil {
		return nil, err
	}
	tok, err := tokens.Load()
	if err != nil {
		return nil, err
	}
	ts := tokens.TokenSource(conf.TokenSource(ctx, tok), tok)
	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, err
	}
	return NewGoogleFromService(svc, ratePerSecond), nil
}

// NewGoogleFromService wraps an existing calendar service.
func NewGoogleFromService(svc *calendar.Service, ratePerSecond float64) *Google {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	return &Google{svc: svc, limiter: rate.NewLimiter(limit, 1)}
}

func (g *Google) Name() string { return "google" }

func (g *Google) FetchBusyEvents(ctx context.Context, w model.Window) ([]model.BusyEvent, error) {
	ids, err := g.calendarIDs(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu  sync.Mutex
		out []model.BusyEvent
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxCalendarFetches)
	for _, id := range ids {
		eg.Go(func() error {
			events, err := g.calendarEvents(ctx, id, w)
			if err != nil {
				return fmt.Errorf("calendar %s: %w", id, err)
			}
			mu.Lock()
			out = append(out, events...)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Google) calendarIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	err := g.svc.CalendarList.List().Context(ctx).Pages(ctx, func(page *calendar.CalendarList) error {
		for _, item := range page.Items {
			ids = append(ids, item.Id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not list calendars: %w", err)
	}
	return ids, nil
}

func (g *Google) calendarEvents(ctx context.Context, id string, w model.Window) ([]model.BusyEvent, error) {
	var out []model.BusyEvent
	pageToken := ""
	for {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		call := g.svc.Events.List(id).
			TimeMin(w.Start.Format(time.RFC3339)).
			TimeMax(w.End.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		page, err := call.Do()
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			ev, ok, err := googleEvent(item)
			if err != nil {
				return nil, err
			}
			if ok {
				ev.Calendar = id
				out = append(out, ev)
			}
		}
		if page.NextPageToken == "" {
			return out, nil
		}
		pageToken = page.NextPageToken
	}
}

// googleEvent converts item. All-day, cancelled and "show as free" events do
// not block time.
func googleEvent(item *calendar.Event) (model.BusyEvent, bool, error) {
	if item.Status == "cancelled" || item.Transparency == "transparent" {
		return model.BusyEvent{}, false, nil
	}
	if item.Start == nil || item.End == nil || item.Start.DateTime == "" || item.End.DateTime == "" {
		return model.BusyEvent{}, false, nil
	}
	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return model.BusyEvent{}, false, fmt.Errorf("event %s: %w", item.Id, err)
	}
	end, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return model.BusyEvent{}, false, fmt.Errorf("event %s: %w", item.Id, err)
	}
	return model.BusyEvent{Start: start, End: end}, true, nil
}

// AuthorizeGoogle runs the copy-paste authorization code flow. notify shows
// the consent URL; the user then pastes the redirected URL (or just the code)
// into in, and the exchanged token is saved to tokens.
func AuthorizeGoogle(ctx context.Context, conf *oauth2.Config, tokens *TokenStore, in io.Reader, notify func(authURL string)) error {
	verifier := oauth2.GenerateVerifier()
	notify(conf.AuthCodeURL("avail", oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier)))

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	code := extractCode(line)
	if code == "" {
		return fmt.Errorf("no authorization code entered")
	}
	tok, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return fmt.Errorf("could not exchange authorization code: %w", err)
	}
	return tokens.Save(tok)
}

// extractCode accepts either a bare code or the full redirect URL.
func extractCode(input string) string {
	input = strings.TrimSpace(input)
	if u, err := url.Parse(input); err == nil && u.Scheme != "" {
		return u.Query().Get("code")
	}
	return input
}
