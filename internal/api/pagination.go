package api

import "pay-my-buddy-go/internal/models"

const (
	DefaultPage     = 1
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// Paginate slices items into a 1-based page. Out of range pages are empty;
// non-positive arguments fall back to the defaults.
func Paginate[T any](items []T, page, size int) models.Page[T] {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	total := len(items)
	totalPages := (total + size - 1) / size

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])

	return models.Page[T]{
		Items:      pageItems,
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
