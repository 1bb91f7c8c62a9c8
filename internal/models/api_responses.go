package models

// LinkPage is one page of a user's links plus pagination metadata.
// TotalLinks counts all of the user's links regardless of the active
// filters, matching the behavior clients already depend on.
type LinkPage struct {
	TotalLinks int64  `json:"total_links"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	NextPage   *int   `json:"next_page"`
	PerPage    int    `json:"per_page"`
	Links      []Link `json:"links"`
}

// CurrentUserResponse is the /auth/user payload.
type CurrentUserResponse struct {
	ID    int64   `json:"id"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Links int64   `json:"links"`
}

// APIKeyResponse carries a freshly generated API key. This is the only
// place the plaintext key ever appears.
type APIKeyResponse struct {
	Message string `json:"message"`
	APIKey  string `json:"api_key"`
}
