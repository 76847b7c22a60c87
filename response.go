package waxhub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Response is the raw result of an API call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// ErrorObject is a single error from a JSON:API error document.
type ErrorObject struct {
	Status string `json:"status,omitempty"`
	Code   string `json:"code,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// errorDocument is the top-level error envelope returned by the API.
type errorDocument struct {
	Errors []ErrorObject `json:"errors,omitempty"`
}

// errorCodeExpiredToken is the error code the API reports for requests
// authenticated with an expired access token.
const errorCodeExpiredToken = "expired_token"

// APIError is returned for responses outside the 2xx range. It carries the
// HTTP status and the parsed error objects, when the body held any.
type APIError struct {
	StatusCode int
	RequestURL string
	Errors     []ErrorObject
}

// newAPIError builds an APIError from a non-2xx response. A body that is
// not a JSON:API error document yields an error with the status alone.
func newAPIError(resp *Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestURL: resp.URL,
	}

	var doc errorDocument
	if err := json.Unmarshal(resp.Body, &doc); err == nil {
		apiErr.Errors = doc.Errors
	}

	return apiErr
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s: %d", http.StatusText(e.StatusCode), e.StatusCode)
	}

	msgs := make([]string, 0, len(e.Errors))
	for _, eo := range e.Errors {
		switch {
		case eo.Title != "" && eo.Detail != "":
			msgs = append(msgs, eo.Title+": "+eo.Detail)
		case eo.Title != "":
			msgs = append(msgs, eo.Title)
		case eo.Detail != "":
			msgs = append(msgs, eo.Detail)
		default:
			msgs = append(msgs, eo.Code)
		}
	}

	return fmt.Sprintf("%s: %d: %s",
		http.StatusText(e.StatusCode), e.StatusCode, strings.Join(msgs, "; "))
}

// TokenExpired reports whether the API rejected the request because the
// access token expired. The dispatcher uses this predicate to decide on a
// refresh-and-retry.
func (e *APIError) TokenExpired() bool {
	if e.StatusCode != http.StatusUnauthorized {
		return false
	}

	for _, eo := range e.Errors {
		if eo.Code == errorCodeExpiredToken {
			return true
		}
	}

	return false
}

// resourceData is the wire shape of one resource inside a document.
type resourceData[T any] struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Attributes T      `json:"attributes"`
}

// resourceDocument is the envelope around a single resource.
type resourceDocument[T any] struct {
	Data resourceData[T] `json:"data"`
}

// collectionDocument is the envelope around a list of resources.
type collectionDocument[T any] struct {
	Data []resourceData[T] `json:"data"`
	Meta documentMeta      `json:"meta"`
}

type documentMeta struct {
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information from the API.
type Pagination struct {
	Total int `json:"total,omitempty"`
	Pages int `json:"pages,omitempty"`
	Page  int `json:"page,omitempty"`
	Size  int `json:"size,omitempty"`
}

// PageParams represents pagination parameters for list requests. They are
// sent in the page query namespace.
type PageParams struct {
	Number int `url:"number,omitempty"`
	Size   int `url:"size,omitempty"`
}

// decodeOne unwraps a single-resource document into its attributes and id.
func decodeOne[T any](resp *Response) (string, T, error) {
	var doc resourceDocument[T]
	if err := resp.Decode(&doc); err != nil {
		var zero T
		return "", zero, err
	}

	return doc.Data.ID, doc.Data.Attributes, nil
}

// decodeMany unwraps a collection document into its resources and meta.
func decodeMany[T any](resp *Response) ([]resourceData[T], Pagination, error) {
	var doc collectionDocument[T]
	if err := resp.Decode(&doc); err != nil {
		return nil, Pagination{}, err
	}

	return doc.Data, doc.Meta.Pagination, nil
}
