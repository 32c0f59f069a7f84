package handler

import "github.com/inkpress/blog-platform/internal/core/domain"

type postResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Content   string `json:"content"`
	Image     string `json:"image,omitempty"`
	AuthorID  string `json:"author_id"`
	Category  string `json:"category,omitempty"`
	Published bool   `json:"published"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toPostResponse(p *domain.Post, baseURL string) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		Image:     postImageURL(baseURL, p.Image),
		AuthorID:  p.AuthorID,
		Category:  p.Category,
		Published: p.Published,
		CreatedAt: p.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt: p.UpdatedAt.UTC().Format(timeLayout),
	}
}

func toPostResponseList(posts []domain.Post, baseURL string) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i], baseURL))
	}
	return out
}
