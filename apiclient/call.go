package apiclient

import (
	"context"
	"net/http"
)

// Call issues a request and decodes the JSON response into a T. A 204 response
// returns (nil, nil): no content is a value, not a decoding error.
func Call[T any](ctx context.Context, d Doer, method, path string, body any) (*T, error) {
	resp, err := d.Do(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	if resp.NoContent {
		return nil, nil
	}
	var out T
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func Get[T any](ctx context.Context, d Doer, path string) (*T, error) {
	return Call[T](ctx, d, http.MethodGet, path, nil)
}

func Post[T any](ctx context.Context, d Doer, path string, body any) (*T, error) {
	return Call[T](ctx, d, http.MethodPost, path, body)
}

func Put[T any](ctx context.Context, d Doer, path string, body any) (*T, error) {
	return Call[T](ctx, d, http.MethodPut, path, body)
}

// Delete issues a DELETE and discards any response body.
func Delete(ctx context.Context, d Doer, path string) error {
	_, err := d.Do(ctx, Request{Method: http.MethodDelete, Path: path})
	return err
}

// List is Get for collection endpoints; a 204 yields an empty slice.
func List[T any](ctx context.Context, d Doer, path string) ([]T, error) {
	items, err := Get[[]T](ctx, d, path)
	if err != nil {
		return nil, err
	}
	if items == nil {
		return []T{}, nil
	}
	return *items, nil
}
