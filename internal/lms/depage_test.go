package lms

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func chainPages(t *testing.T, pages [][]int) (FirstPageFunc[int], NextPageFunc[int], *int) {
	t.Helper()
	calls := 0

	token := func(i int) string {
		if i+1 < len(pages) {
			return fmt.Sprintf("page-%d", i+1)
		}
		return ""
	}

	first := func(ctx context.Context) ([]int, string, error) {
		calls++
		return pages[0], token(0), nil
	}
	next := func(ctx context.Context, tok string) ([]int, string, error) {
		calls++
		var idx int
		_, err := fmt.Sscanf(tok, "page-%d", &idx)
		require.NoError(t, err)
		return pages[idx], token(idx), nil
	}
	return first, next, &calls
}

func TestFetchAllConcatenatesAllPagesInOrder(t *testing.T) {
	pages := [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	first, next, calls := chainPages(t, pages)

	items, err := FetchAll(context.Background(), first, next)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, items)
	require.Equal(t, 3, *calls)
}

func TestFetchAllEmptyFirstPage(t *testing.T) {
	first := func(ctx context.Context) ([]int, string, error) { return nil, "", nil }
	next := func(ctx context.Context, tok string) ([]int, string, error) {
		t.Fatal("next page must not be fetched")
		return nil, "", nil
	}

	items, err := FetchAll(context.Background(), first, next)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestFetchAllFirstPageFailure(t *testing.T) {
	boom := errors.New("boom")
	first := func(ctx context.Context) ([]int, string, error) { return nil, "", boom }
	next := func(ctx context.Context, tok string) ([]int, string, error) {
		t.Fatal("next page must not be fetched")
		return nil, "", nil
	}

	items, err := FetchAll(context.Background(), first, next)
	require.ErrorIs(t, err, boom)
	require.Nil(t, items)
}

func TestFetchAllDiscardsAccumulatedItemsOnLaterFailure(t *testing.T) {
	boom := errors.New("page two unreachable")
	first := func(ctx context.Context) ([]int, string, error) { return []int{1, 2}, "p2", nil }
	next := func(ctx context.Context, tok string) ([]int, string, error) { return nil, "", boom }

	items, err := FetchAll(context.Background(), first, next)
	require.ErrorIs(t, err, boom)
	require.Nil(t, items)
}

func TestFetchAllStopsOnBlankToken(t *testing.T) {
	first := func(ctx context.Context) ([]int, string, error) { return []int{1}, "", nil }
	next := func(ctx context.Context, tok string) ([]int, string, error) {
		t.Fatal("next page must not be fetched")
		return nil, "", nil
	}

	items, err := FetchAll(context.Background(), first, next)
	require.NoError(t, err)
	require.Equal(t, []int{1}, items)
}
