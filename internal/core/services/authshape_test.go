package services

import (
	"testing"

	"bmc-rentportal/internal/core/domain"
)

func TestExtractAuthDataRootCamelCase(t *testing.T) {
	body := []byte(`{"accessToken":"at1","refreshToken":"rt1","user":{"id":"u1","email":"a@b.com","name":"A","role":"tenant"}}`)

	auth := ExtractAuthData(body)
	if auth == nil {
		t.Fatal("expected auth data, got nil")
	}
	if auth.AccessToken != "at1" || auth.RefreshToken != "rt1" {
		t.Fatalf("unexpected tokens: %q / %q", auth.AccessToken, auth.RefreshToken)
	}
	if auth.User == nil || auth.User.ID != "u1" {
		t.Fatalf("unexpected user: %+v", auth.User)
	}
}

func TestExtractAuthDataResultsData(t *testing.T) {
	body := []byte(`{"results":{"data":{"access_token":"at2","refresh_token":"rt2","user":{"external_id":"x9","user_email":"t@b.com","user_name":"Tenant","type":"Tenant"}}}}`)

	auth := ExtractAuthData(body)
	if auth == nil {
		t.Fatal("expected auth data, got nil")
	}
	if auth.AccessToken != "at2" || auth.RefreshToken != "rt2" {
		t.Fatalf("unexpected tokens: %q / %q", auth.AccessToken, auth.RefreshToken)
	}
	if auth.User == nil {
		t.Fatal("expected mapped user")
	}
	if auth.User.ID != "x9" || auth.User.Email != "t@b.com" || auth.User.Name != "Tenant" {
		t.Fatalf("user mapping wrong: %+v", auth.User)
	}
	if auth.User.Role != domain.RoleTenant {
		t.Fatalf("expected tenant role for type Tenant, got %q", auth.User.Role)
	}
}

func TestExtractAuthDataResultsDataAdminRole(t *testing.T) {
	body := []byte(`{"results":{"data":{"access_token":"at","user":{"external_id":"x","type":"officer"}}}}`)

	auth := ExtractAuthData(body)
	if auth == nil || auth.User == nil {
		t.Fatal("expected auth data with user")
	}
	if auth.User.Role != domain.RoleAdmin {
		t.Fatalf("non-tenant type should map to admin, got %q", auth.User.Role)
	}
}

func TestExtractAuthDataResultsCamelCase(t *testing.T) {
	body := []byte(`{"results":{"accessToken":"at3","refreshToken":"rt3"}}`)

	auth := ExtractAuthData(body)
	if auth == nil {
		t.Fatal("expected auth data, got nil")
	}
	if auth.AccessToken != "at3" {
		t.Fatalf("unexpected token: %q", auth.AccessToken)
	}
}

func TestExtractAuthDataResultsSnakeCase(t *testing.T) {
	body := []byte(`{"results":{"access_token":"at4","refresh_token":"rt4"}}`)

	auth := ExtractAuthData(body)
	if auth == nil {
		t.Fatal("expected auth data, got nil")
	}
	if auth.AccessToken != "at4" || auth.RefreshToken != "rt4" {
		t.Fatalf("unexpected tokens: %q / %q", auth.AccessToken, auth.RefreshToken)
	}
}

func TestExtractAuthDataRootSnakeCase(t *testing.T) {
	body := []byte(`{"access_token":"at5","refresh_token":"rt5"}`)

	auth := ExtractAuthData(body)
	if auth == nil {
		t.Fatal("expected auth data, got nil")
	}
	if auth.AccessToken != "at5" {
		t.Fatalf("unexpected token: %q", auth.AccessToken)
	}
}

func TestExtractAuthDataPrecedence(t *testing.T) {
	// Root camelCase wins over every nested shape when both are present
	body := []byte(`{"accessToken":"root","results":{"data":{"access_token":"nested"}}}`)

	auth := ExtractAuthData(body)
	if auth == nil {
		t.Fatal("expected auth data, got nil")
	}
	if auth.AccessToken != "root" {
		t.Fatalf("expected root shape to win, got %q", auth.AccessToken)
	}
}

func TestExtractAuthDataNoMatch(t *testing.T) {
	cases := []string{
		`{"status":"ok"}`,
		`{"results":{}}`,
		`{}`,
		`not json at all`,
	}
	for _, body := range cases {
		if auth := ExtractAuthData([]byte(body)); auth != nil {
			t.Fatalf("expected nil for %q, got %+v", body, auth)
		}
	}
}
