package api

import "encoding/json"

// LoginRequest is the body for POST /auth/login. The backend upserts
// on the full profile and resolves an existing id when given only the
// email, so every field besides Email is optional.
type LoginRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	Provider   string `json:"provider,omitempty"`
	ProviderID string `json:"provider_id,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

// UserRecord is the backend's view of a user. ID is stable across
// sign-ins for the same federated identity.
type UserRecord struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// CheckRequest is the body for POST /check. SessionID is nil on the
// first turn of a conversation; thereafter it echoes the id the
// backend assigned, which is how multi-turn context is correlated.
type CheckRequest struct {
	Query     string `json:"query"`
	SessionID *int64 `json:"session_id"`
}

// CheckResponse is the success payload of POST /check. Result is
// sometimes a structured verdict object and sometimes a plain string;
// it stays raw here and is decoded exactly once, by the verdict
// package.
type CheckResponse struct {
	SessionID int64           `json:"session_id"`
	Result    json.RawMessage `json:"result"`
	Sources   []string        `json:"sources"`
}

// Article is one hit from GET /search/articles.
type Article struct {
	LawName       string `json:"law_name"`
	ArticleNumber string `json:"article_number"`
	Content       string `json:"content"`
}

type searchResponse struct {
	Results []Article `json:"results"`
}
