package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"chatvault/internal/domain/models"
)

// AdminClient talks to the Supabase Admin API with the service role key.
// It is the default identity metadata backend: approval and access request
// fields live in the user's app_metadata, which end users cannot edit.
type AdminClient struct {
	supabaseURL string
	serviceKey  string
	httpClient  *http.Client
}

// NewAdminClient creates a new Supabase Admin API client.
// Requires the service role key (SUPABASE_KEY) for elevated permissions.
func NewAdminClient(supabaseURL, serviceKey string) *AdminClient {
	return &AdminClient{
		supabaseURL: supabaseURL,
		serviceKey:  serviceKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateUserRequest is the payload for creating a new user
type CreateUserRequest struct {
	Email        string                 `json:"email"`
	Password     string                 `json:"password"`
	EmailConfirm bool                   `json:"email_confirm"`
	AppMetadata  map[string]interface{} `json:"app_metadata,omitempty"`
}

// AdminUser is the subset of a Supabase user returned by the admin API
type AdminUser struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	Role        string         `json:"role"`
	AppMetadata models.JSONMap `json:"app_metadata"`
}

// ListUsersResponse is the response from listing users
type ListUsersResponse struct {
	Users []AdminUser `json:"users"`
}

// updateUserRequest is the payload for updating app_metadata
type updateUserRequest struct {
	AppMetadata models.JSONMap `json:"app_metadata"`
}

// GetApproval reads the approved flag from the user's app_metadata.
func (c *AdminClient) GetApproval(ctx context.Context, identityID string) (bool, error) {
	user, err := c.GetUser(ctx, identityID)
	if err != nil {
		return false, err
	}
	return user.AppMetadata.Approved(), nil
}

// SetApproval merges the approved flag into the user's app_metadata.
func (c *AdminClient) SetApproval(ctx context.Context, identityID string, approved bool) error {
	return c.mergeAppMetadata(ctx, identityID, models.JSONMap{models.MetadataKeyApproved: approved})
}

// GetAccessRequest reads the access request fields from app_metadata.
func (c *AdminClient) GetAccessRequest(ctx context.Context, identityID string) (*models.AccessRequest, error) {
	user, err := c.GetUser(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return user.AppMetadata.AccessRequest(), nil
}

// SetAccessRequest merges the access request fields into app_metadata.
func (c *AdminClient) SetAccessRequest(ctx context.Context, identityID string, requested bool, at time.Time) error {
	return c.mergeAppMetadata(ctx, identityID, models.AccessRequestPatch(requested, at))
}

// mergeAppMetadata reads the current bag and writes it back with patch applied,
// so keys written by other parties survive.
func (c *AdminClient) mergeAppMetadata(ctx context.Context, identityID string, patch models.JSONMap) error {
	user, err := c.GetUser(ctx, identityID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(updateUserRequest{AppMetadata: user.AppMetadata.Merge(patch)})
	if err != nil {
		return fmt.Errorf("failed to marshal update request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, c.userURL(identityID), payload)
	if err != nil {
		return fmt.Errorf("failed to update user metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("update user failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// GetUser fetches a single user by ID.
func (c *AdminClient) GetUser(ctx context.Context, identityID string) (*AdminUser, error) {
	resp, err := c.do(ctx, http.MethodGet, c.userURL(identityID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get user failed with status %d: %s", resp.StatusCode, string(body))
	}

	var user AdminUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	if user.AppMetadata == nil {
		user.AppMetadata = models.JSONMap{}
	}

	return &user, nil
}

// DeleteUserByEmail finds a user by email and deletes them.
// This is idempotent - returns nil if the user doesn't exist.
func (c *AdminClient) DeleteUserByEmail(ctx context.Context, email string) error {
	userID, err := c.findUserIDByEmail(ctx, email)
	if err != nil {
		// User not found is OK (idempotent)
		return nil
	}

	resp, err := c.do(ctx, http.MethodDelete, c.userURL(userID), nil)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete user failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// findUserIDByEmail searches for a user by email and returns their ID.
func (c *AdminClient) findUserIDByEmail(ctx context.Context, email string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, c.supabaseURL+"/auth/v1/admin/users", nil)
	if err != nil {
		return "", fmt.Errorf("failed to list users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("list users failed with status %d: %s", resp.StatusCode, string(body))
	}

	var listResp ListUsersResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return "", fmt.Errorf("failed to decode list response: %w", err)
	}

	for _, user := range listResp.Users {
		if user.Email == email {
			return user.ID, nil
		}
	}

	return "", fmt.Errorf("user not found")
}

// CreateUser creates a new user with the specified email and password.
// The user is automatically confirmed (no email verification needed).
// Returns the user's UUID.
func (c *AdminClient) CreateUser(ctx context.Context, email, password string, appMetadata models.JSONMap) (string, error) {
	payload := CreateUserRequest{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
		AppMetadata:  appMetadata,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal create request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.supabaseURL+"/auth/v1/admin/users", jsonData)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("create user failed with status %d: %s", resp.StatusCode, string(body))
	}

	var created AdminUser
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to decode create response: %w", err)
	}

	return created.ID, nil
}

func (c *AdminClient) userURL(identityID string) string {
	return fmt.Sprintf("%s/auth/v1/admin/users/%s", c.supabaseURL, url.PathEscape(identityID))
}

// do sends an authenticated admin request
func (c *AdminClient) do(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}
