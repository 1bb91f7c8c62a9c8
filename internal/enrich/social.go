package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// socialAPIBase is the post-lookup API root.
const socialAPIBase = "https://api.twitter.com/2"

// Post is a social post as consumed by the enrichment pipeline.
type Post struct {
	ID             string
	Text           string
	AuthorID       string
	AuthorHandle   string
	ConversationID string
	CreatedAt      time.Time
}

// SocialClient fetches posts from the social-post API. Without a bearer
// token the client is disabled and every lookup short-circuits to "not
// found" rather than an error.
type SocialClient struct {
	bearerToken string
	baseURL     string
	client      *http.Client
}

// NewSocialClient creates a client. An empty bearer token disables the
// feature.
func NewSocialClient(bearerToken string) *SocialClient {
	if bearerToken == "" {
		slog.Warn("social API credentials not configured, post unfurling disabled")
	}
	return &SocialClient{
		bearerToken: bearerToken,
		baseURL:     socialAPIBase,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether API credentials are configured.
func (c *SocialClient) Enabled() bool {
	return c.bearerToken != ""
}

// ParsePostID extracts a post identifier from a post URL. The path must
// contain a /status/<id> segment; anything else yields the empty string.
func ParsePostID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, segment := range segments {
		if segment == "status" && i+1 < len(segments) && segments[i+1] != "" {
			return segments[i+1]
		}
	}
	return ""
}

type postPayload struct {
	Data struct {
		ID             string `json:"id"`
		Text           string `json:"text"`
		AuthorID       string `json:"author_id"`
		ConversationID string `json:"conversation_id"`
		CreatedAt      string `json:"created_at"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
}

type searchPayload struct {
	Data []struct {
		ID             string `json:"id"`
		Text           string `json:"text"`
		AuthorID       string `json:"author_id"`
		ConversationID string `json:"conversation_id"`
		CreatedAt      string `json:"created_at"`
	} `json:"data"`
}

func (c *SocialClient) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	return c.client.Do(req)
}

// GetPost fetches a post by ID, including its author handle.
func (c *SocialClient) GetPost(ctx context.Context, id string) (*Post, error) {
	if !c.Enabled() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("tweet.fields", "author_id,conversation_id,created_at")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "name,username")

	resp, err := c.get(ctx, "/tweets/"+id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("post lookup returned status %d", resp.StatusCode)
	}

	var payload postPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode post: %w", err)
	}

	post := &Post{
		ID:             payload.Data.ID,
		Text:           payload.Data.Text,
		AuthorID:       payload.Data.AuthorID,
		ConversationID: payload.Data.ConversationID,
	}
	if t, err := time.Parse(time.RFC3339, payload.Data.CreatedAt); err == nil {
		post.CreatedAt = t
	}
	for _, user := range payload.Includes.Users {
		if user.ID == post.AuthorID {
			post.AuthorHandle = user.Username
			break
		}
	}
	return post, nil
}

// ExpandThread finds self-replies to the given post and returns the full
// thread in timestamp order, starting with the original post. Search
// failures degrade to just the original post.
func (c *SocialClient) ExpandThread(ctx context.Context, post *Post) []*Post {
	thread := []*Post{post}
	if !c.Enabled() || post.ConversationID == "" {
		return thread
	}

	params := url.Values{}
	params.Set("query", fmt.Sprintf("conversation_id:%s from:%s to:%s", post.ConversationID, post.AuthorID, post.AuthorID))
	params.Set("tweet.fields", "in_reply_to_user_id,author_id,created_at,conversation_id")

	resp, err := c.get(ctx, "/tweets/search/recent", params)
	if err != nil {
		slog.Warn("failed to fetch post thread", "post_id", post.ID, "error", err)
		return thread
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("post thread lookup failed", "post_id", post.ID, "status", resp.StatusCode)
		return thread
	}

	var payload searchPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		slog.Warn("failed to decode post thread", "post_id", post.ID, "error", err)
		return thread
	}

	for _, reply := range payload.Data {
		p := &Post{
			ID:             reply.ID,
			Text:           reply.Text,
			AuthorID:       reply.AuthorID,
			AuthorHandle:   post.AuthorHandle,
			ConversationID: reply.ConversationID,
		}
		if t, err := time.Parse(time.RFC3339, reply.CreatedAt); err == nil {
			p.CreatedAt = t
		}
		thread = append(thread, p)
	}
	sort.Slice(thread, func(i, j int) bool {
		return thread[i].CreatedAt.Before(thread[j].CreatedAt)
	})
	return thread
}
