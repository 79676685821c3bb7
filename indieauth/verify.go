package indieauth

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// Response is an authorization endpoint's answer to code
// verification. A rejected code yields OK false, not an error; errors
// are reserved for not getting an answer at all.
type Response struct {
	OK    bool
	Me    string
	Scope string
}

// ValidateAuthCode asks the authorization endpoint whether it issued
// code to this client and redirect URI. State is forwarded when
// non-empty.
func (c *Client) ValidateAuthCode(ctx context.Context, code, clientID, redirectURI, endpoint, state string) (Response, error) {
	form := url.Values{
		"code":         {code},
		"client_id":    {clientID},
		"redirect_uri": {redirectURI},
	}
	if state != "" {
		form.Set("state", state)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, nil
	}

	var data struct {
		Me    string `json:"me"`
		Scope string `json:"scope"`
	}
	if mediatype, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mediatype == "application/json" {
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return Response{}, err
		}
	}

	return Response{OK: true, Me: data.Me, Scope: data.Scope}, nil
}
