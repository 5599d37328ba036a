package services

import (
	"encoding/json"
	"strings"

	"bmc-rentportal/internal/core/domain"
)

// AuthData is the normalized result of a successful sign-in response
type AuthData struct {
	AccessToken  string
	RefreshToken string
	User         *domain.AuthUser
}

// signInPayload covers every payload shape the provider has been observed to
// return. Absent fields simply decode to their zero value.
type signInPayload struct {
	AccessToken       string          `json:"accessToken"`
	RefreshToken      string          `json:"refreshToken"`
	AccessTokenSnake  string          `json:"access_token"`
	RefreshTokenSnake string          `json:"refresh_token"`
	User              *domain.AuthUser `json:"user"`
	Results           *resultsPayload  `json:"results"`
}

type resultsPayload struct {
	AccessToken       string           `json:"accessToken"`
	RefreshToken      string           `json:"refreshToken"`
	AccessTokenSnake  string           `json:"access_token"`
	RefreshTokenSnake string           `json:"refresh_token"`
	User              *domain.AuthUser `json:"user"`
	Data              *resultsData     `json:"data"`
}

type resultsData struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	User         *providerUser    `json:"user"`
}

// providerUser is the snake_case user record inside results.data
type providerUser struct {
	ExternalID string `json:"external_id"`
	UserEmail  string `json:"user_email"`
	UserName   string `json:"user_name"`
	Type       string `json:"type"`
}

// authExtractor is one known response shape: a predicate over the decoded
// payload and the extraction applied when it matches.
type authExtractor struct {
	name    string
	matches func(p *signInPayload) bool
	extract func(p *signInPayload) *AuthData
}

// authExtractors lists the known shapes in precedence order. Later shapes
// are consulted only when every earlier one is absent.
var authExtractors = []authExtractor{
	{
		name:    "root camelCase",
		matches: func(p *signInPayload) bool { return p.AccessToken != "" },
		extract: func(p *signInPayload) *AuthData {
			return &AuthData{
				AccessToken:  p.AccessToken,
				RefreshToken: p.RefreshToken,
				User:         p.User,
			}
		},
	},
	{
		name: "results.data snake_case",
		matches: func(p *signInPayload) bool {
			return p.Results != nil && p.Results.Data != nil && p.Results.Data.AccessToken != ""
		},
		extract: func(p *signInPayload) *AuthData {
			data := p.Results.Data
			var user *domain.AuthUser
			if data.User != nil {
				role := domain.RoleAdmin
				if strings.EqualFold(data.User.Type, "tenant") {
					role = domain.RoleTenant
				}
				user = &domain.AuthUser{
					ID:    data.User.ExternalID,
					Email: data.User.UserEmail,
					Name:  data.User.UserName,
					Role:  role,
				}
			}
			return &AuthData{
				AccessToken:  data.AccessToken,
				RefreshToken: data.RefreshToken,
				User:         user,
			}
		},
	},
	{
		name: "results camelCase",
		matches: func(p *signInPayload) bool {
			return p.Results != nil && p.Results.AccessToken != ""
		},
		extract: func(p *signInPayload) *AuthData {
			return &AuthData{
				AccessToken:  p.Results.AccessToken,
				RefreshToken: p.Results.RefreshToken,
				User:         p.Results.User,
			}
		},
	},
	{
		name: "results snake_case",
		matches: func(p *signInPayload) bool {
			return p.Results != nil && p.Results.AccessTokenSnake != ""
		},
		extract: func(p *signInPayload) *AuthData {
			return &AuthData{
				AccessToken:  p.Results.AccessTokenSnake,
				RefreshToken: p.Results.RefreshTokenSnake,
				User:         p.Results.User,
			}
		},
	},
	{
		name:    "root snake_case",
		matches: func(p *signInPayload) bool { return p.AccessTokenSnake != "" },
		extract: func(p *signInPayload) *AuthData {
			return &AuthData{
				AccessToken:  p.AccessTokenSnake,
				RefreshToken: p.RefreshTokenSnake,
				User:         p.User,
			}
		},
	},
}

// ExtractAuthData resolves a sign-in response body against the known payload
// shapes in fixed precedence order and returns the first match, or nil when
// no shape matches. A malformed body also yields nil.
func ExtractAuthData(body []byte) *AuthData {
	var payload signInPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}

	for _, ex := range authExtractors {
		if ex.matches(&payload) {
			return ex.extract(&payload)
		}
	}
	return nil
}

// topLevelKeys returns the root keys of a JSON object body, for logging
// unrecognized response shapes.
func topLevelKeys(body []byte) []string {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
