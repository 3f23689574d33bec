// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/toeirei/avail/internal/model"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// GraphBaseURL is the Microsoft Graph v1.0 endpoint.
const GraphBaseURL = "https://graph.microsoft.com/v1.0"

// graphTimeLayout is how Graph renders dateTimeTimeZone values.
const graphTimeLayout = "2006-01-02T15:04:05.9999999"

var outlookScopes = []string{"offline_access", "Calendars.Read"}

// Outlook reads the signed-in user's calendar view from Microsoft Graph.
type Outlook struct {
	client  *http.Client
	baseURL string
}

// OutlookOAuthConfig returns the public-client config for the device flow.
func OutlookOAuthConfig(clientID, tenant string) *oauth2.Config {
	if tenant == "" {
		tenant = "common"
	}
	return &oauth2.Config{
		ClientID: clientID,
		Endpoint: microsoft.AzureADEndpoint(tenant),
		Scopes:   outlookScopes,
	}
}

// NewOutlook builds an authorized provider from the stored token.
func NewOutlook(ctx context.Context, clientID, tenant string, tokens *TokenStore) (*Outlook, error) {
	if clientID == "" {
		return nil, fmt.Errorf("outlook.client_id is not set")
	}
	tok, err := tokens.Load()
	if err != nil {
		return nil, err
	}
	conf := OutlookOAuthConfig(clientID, tenant)
	ts := tokens.TokenSource(conf.TokenSource(ctx, tok), tok)
	return NewOutlookWithClient(oauth2.NewClient(ctx, ts), GraphBaseURL), nil
}

// NewOutlookWithClient uses client as-is against baseURL.
func NewOutlookWithClient(client *http.Client, baseURL string) *Outlook {
	return &Outlook{client: client, baseURL: baseURL}
}

func (o *Outlook) Name() string { return "outlook" }

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphEvent struct {
	ID          string        `json:"id"`
	Start       graphDateTime `json:"start"`
	End         graphDateTime `json:"end"`
	ShowAs      string        `json:"showAs"`
	IsCancelled bool          `json:"isCancelled"`
	IsAllDay    bool          `json:"isAllDay"`
}

type graphPage struct {
	Value    []graphEvent `json:"value"`
	NextLink string       `json:"@odata.nextLink"`
}

func (o *Outlook) FetchBusyEvents(ctx context.Context, w model.Window) ([]model.BusyEvent, error) {
	q := url.Values{}
	q.Set("startDateTime", w.Start.UTC().Format(time.RFC3339))
	q.Set("endDateTime", w.End.UTC().Format(time.RFC3339))
	q.Set("$select", "id,start,end,showAs,isCancelled,isAllDay")
	q.Set("$top", "100")
	next := o.baseURL + "/me/calendarView?" + q.Encode()

	var out []model.BusyEvent
	for next != "" {
		page, err := o.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Value {
			ev, ok, err := outlookEvent(item)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, ev)
			}
		}
		next = page.NextLink
	}
	return out, nil
}

func (o *Outlook) fetchPage(ctx context.Context, pageURL string) (*graphPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("graph returned %s: %s", resp.Status, body)
	}
	var page graphPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("could not decode graph response: %w", err)
	}
	return &page, nil
}

// outlookEvent converts item. Times are UTC because of the Prefer header.
func outlookEvent(item graphEvent) (model.BusyEvent, bool, error) {
	if item.IsCancelled || item.IsAllDay || item.ShowAs == "free" {
		return model.BusyEvent{}, false, nil
	}
	start, err := time.ParseInLocation(graphTimeLayout, item.Start.DateTime, time.UTC)
	if err != nil {
		return model.BusyEvent{}, false, fmt.Errorf("event %s: %w", item.ID, err)
	}
	end, err := time.ParseInLocation(graphTimeLayout, item.End.DateTime, time.UTC)
	if err != nil {
		return model.BusyEvent{}, false, fmt.Errorf("event %s: %w", item.ID, err)
	}
	return model.BusyEvent{Start: start, End: end}, true, nil
}

// AuthorizeOutlook runs the device code flow. notify receives the
// verification URL and the user code; the call blocks until the user has
// signed in or ctx is done.
func AuthorizeOutlook(ctx context.Context, conf *oauth2.Config, tokens *TokenStore, notify func(verificationURI, userCode string)) error {
	da, err := conf.DeviceAuth(ctx)
	if err != nil {
		return fmt.Errorf("could not start device authorization: %w", err)
	}
	notify(da.VerificationURI, da.UserCode)
	tok, err := conf.DeviceAccessToken(ctx, da)
	if err != nil {
		return fmt.Errorf("device authorization failed: %w", err)
	}
	return tokens.Save(tok)
}
