package handlers

import (
	"mime"
	"net/http"
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

func checkContentType(r *http.Request, targets ...string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, target := range targets {
		if mediaType == target {
			return true
		}
	}
	return false
}

// parsePagination читает page и limit; limit больше maxLimit урезается
func parsePagination(r *http.Request) (int, int, string, bool) {
	page, limit := defaultPage, defaultLimit

	if raw := r.URL.Query().Get("page"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			return 0, 0, "page", false
		}
		page = value
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			return 0, 0, "limit", false
		}
		limit = min(value, maxLimit)
	}

	return page, limit, "", true
}
