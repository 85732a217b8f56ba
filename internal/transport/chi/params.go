package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/oapi-codegen/runtime"
)

// maxBodyBytes bounds the JSON request body.
const maxBodyBytes = 64 << 10

var errEmptyBody = errors.New("request body is required")

// decodeSearchRequest reads a search request from the query string (GET)
// or from the JSON body (POST).
func decodeSearchRequest(w http.ResponseWriter, r *http.Request) (searchRequest, error) {
	if r.Method == http.MethodGet {
		return bindSearchParams(r)
	}

	var req searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return searchRequest{}, errEmptyBody
		}
		return searchRequest{}, fmt.Errorf("invalid request body: %w", err)
	}
	return req, nil
}

func bindSearchParams(r *http.Request) (searchRequest, error) {
	params := r.URL.Query()

	var (
		text   *string
		tenant *string
		req    searchRequest
	)
	if err := runtime.BindQueryParameter("form", true, false, "query", params, &text); err != nil {
		return searchRequest{}, fmt.Errorf("invalid parameter query: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "tenant_id", params, &tenant); err != nil {
		return searchRequest{}, fmt.Errorf("invalid parameter tenant_id: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "alpha", params, &req.Alpha); err != nil {
		return searchRequest{}, fmt.Errorf("invalid parameter alpha: %w", err)
	}

	if text != nil {
		req.Query = *text
	}
	if tenant != nil {
		req.TenantID = *tenant
	}
	return req, nil
}
