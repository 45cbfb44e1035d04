package lms

import "context"

// FirstPageFunc fetches the first page of a listing, returning the items and
// the continuation token for the next page (empty when exhausted).
type FirstPageFunc[T any] func(ctx context.Context) ([]T, string, error)

// NextPageFunc fetches the page identified by a continuation token.
type NextPageFunc[T any] func(ctx context.Context, token string) ([]T, string, error)

// FetchAll walks a paginated listing to exhaustion and returns the exact
// concatenation of all pages in server order. The call fails as a whole: an
// error on any page discards everything accumulated so far. An empty first
// page with no token is an empty success; a blank token simply ends the walk.
func FetchAll[T any](ctx context.Context, first FirstPageFunc[T], next NextPageFunc[T]) ([]T, error) {
	items, token, err := first(ctx)
	if err != nil {
		return nil, err
	}

	all := make([]T, 0, len(items))
	all = append(all, items...)

	for token != "" {
		items, token, err = next(ctx, token)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}

	return all, nil
}
