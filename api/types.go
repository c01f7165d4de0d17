// Package api holds the JSON shapes of the HTTP API that are not domain types.
package api

import "github.com/dfryer1193/vlog/blog/domain"

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type CategoryList struct {
	Categories []string `json:"categories"`
}

type PostList struct {
	Posts []*domain.Post `json:"posts"`
	Count int            `json:"count"`
}

func NewPostList(posts []*domain.Post) PostList {
	if posts == nil {
		posts = []*domain.Post{}
	}
	return PostList{Posts: posts, Count: len(posts)}
}

type UploadResponse struct {
	URL string `json:"url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}
