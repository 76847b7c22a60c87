package waxhub

import (
	"context"
	"errors"
	"testing"
)

func TestIterate_SinglePage(t *testing.T) {
	items := []string{"item1", "item2", "item3"}

	fetcher := func(ctx context.Context, params PageParams) ([]string, Pagination, error) {
		if params.Number != 1 {
			t.Errorf("expected Number = 1, got %d", params.Number)
		}
		if params.Size != 100 {
			t.Errorf("expected Size = 100, got %d", params.Size)
		}
		return items, Pagination{
			Total: 3,
			Pages: 1,
			Page:  1,
			Size:  100,
		}, nil
	}

	var collected []string
	for item, err := range iterate(context.Background(), fetcher) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		collected = append(collected, item)
	}

	if len(collected) != len(items) {
		t.Errorf("expected %d items, got %d", len(items), len(collected))
	}

	for i, item := range collected {
		if item != items[i] {
			t.Errorf("item[%d] = %v, want %v", i, item, items[i])
		}
	}
}

func TestIterate_MultiplePages(t *testing.T) {
	page1 := []string{"item1", "item2"}
	page2 := []string{"item3", "item4"}
	page3 := []string{"item5"}

	callCount := 0
	fetcher := func(ctx context.Context, params PageParams) ([]string, Pagination, error) {
		callCount++

		switch params.Number {
		case 1:
			return page1, Pagination{Total: 5, Pages: 3, Page: 1, Size: 2}, nil
		case 2:
			return page2, Pagination{Total: 5, Pages: 3, Page: 2, Size: 2}, nil
		case 3:
			return page3, Pagination{Total: 5, Pages: 3, Page: 3, Size: 2}, nil
		default:
			t.Fatalf("unexpected page number: %d", params.Number)
			return nil, Pagination{}, nil
		}
	}

	var collected []string
	for item, err := range iterate(context.Background(), fetcher) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		collected = append(collected, item)
	}

	want := []string{"item1", "item2", "item3", "item4", "item5"}
	if len(collected) != len(want) {
		t.Errorf("expected %d items, got %d", len(want), len(collected))
	}

	for i, item := range collected {
		if item != want[i] {
			t.Errorf("item[%d] = %v, want %v", i, item, want[i])
		}
	}

	if callCount != 3 {
		t.Errorf("expected 3 fetches, got %d", callCount)
	}
}

func TestIterate_Error(t *testing.T) {
	wantErr := errors.New("fetch failed")

	fetcher := func(ctx context.Context, params PageParams) ([]string, Pagination, error) {
		return nil, Pagination{}, wantErr
	}

	sawErr := false
	for _, err := range iterate(context.Background(), fetcher) {
		if err != nil {
			sawErr = true
			if !errors.Is(err, wantErr) {
				t.Errorf("error = %v, want %v", err, wantErr)
			}
		}
	}

	if !sawErr {
		t.Error("expected the error to be yielded")
	}
}

func TestIterate_EmptyPageStops(t *testing.T) {
	callCount := 0
	fetcher := func(ctx context.Context, params PageParams) ([]string, Pagination, error) {
		callCount++
		// No total pages reported; the empty page must end iteration.
		return nil, Pagination{}, nil
	}

	for range iterate(context.Background(), fetcher) {
		t.Fatal("no items should be yielded")
	}

	if callCount != 1 {
		t.Errorf("expected 1 fetch, got %d", callCount)
	}
}

func TestIterate_EarlyBreak(t *testing.T) {
	callCount := 0
	fetcher := func(ctx context.Context, params PageParams) ([]string, Pagination, error) {
		callCount++
		return []string{"a", "b"}, Pagination{Pages: 100, Page: params.Number}, nil
	}

	collected := 0
	for item, err := range iterate(context.Background(), fetcher) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_ = item
		collected++
		if collected == 3 {
			break
		}
	}

	if collected != 3 {
		t.Errorf("collected %d items, want 3", collected)
	}
	if callCount != 2 {
		t.Errorf("expected 2 fetches before the break, got %d", callCount)
	}
}
