package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// Page mirrors a length-aware paginator: the current slice plus enough
// metadata for a client to walk the rest.
type Page[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"status": "success", "message": msg})
}

func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}

func Paginated[T any](c *gin.Context, data []T, page, perPage int, total int64) {
	c.JSON(http.StatusOK, NewPage(data, page, perPage, total))
}

func NewPage[T any](data []T, page, perPage int, total int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Page[T]{
		Data:        data,
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    last,
	}
}
