package handlers

import (
	"net/http"
	"strconv"

	"github.com/naufalhakim/product-management-api/internal/errors"
)

// pathID parses the {id} path segment. IDs are positive integers.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.BadRequestError("Invalid id")
	}

	return id, nil
}

func queryInt(r *http.Request, key string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(key))

	return v
}
