package handler

import "github.com/inkpress/blog-platform/internal/core/domain"

// userDetailResponse is the full account view returned by the user endpoints.
// Avatar is resolved to an absolute URL; the database stores only filenames.
type userDetailResponse struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	Avatar     string   `json:"avatar,omitempty"`
	Roles      []string `json:"roles"`
	IsVerified bool     `json:"is_verified"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

func toUserDetail(u *domain.User, baseURL string) userDetailResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userDetailResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Avatar:     avatarURL(baseURL, u.Avatar),
		Roles:      roles,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:  u.UpdatedAt.UTC().Format(timeLayout),
	}
}

func toUserDetailList(users []domain.User, baseURL string) []userDetailResponse {
	out := make([]userDetailResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserDetail(&users[i], baseURL))
	}
	return out
}

func avatarURL(baseURL, name string) string {
	if name == "" {
		return ""
	}
	return baseURL + "/uploads/avatars/" + name
}

func postImageURL(baseURL, name string) string {
	if name == "" {
		return ""
	}
	return baseURL + "/uploads/posts/" + name
}
