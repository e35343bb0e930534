package pagination

import "testing"

func TestNormalize(t *testing.T) {
	r := Request{}
	r.Normalize(10)
	if r.Page != 1 || r.Limit != 10 {
		t.Errorf("expected defaults (1, 10), got (%d, %d)", r.Page, r.Limit)
	}

	r = Request{Page: -3, Limit: 5000}
	r.Normalize(10)
	if r.Page != 1 {
		t.Errorf("expected page clamp to 1, got %d", r.Page)
	}
	if r.Limit != PageMaxSize {
		t.Errorf("expected limit clamp to %d, got %d", PageMaxSize, r.Limit)
	}

	r = Request{Page: 3, Limit: 25}
	r.Normalize(10)
	if r.Offset() != 50 {
		t.Errorf("expected offset 50, got %d", r.Offset())
	}
}

func TestNewMeta(t *testing.T) {
	r := Request{Page: 2, Limit: 10}
	m := NewMeta(r, 101)

	if m.Pages != 11 {
		t.Errorf("expected 11 pages, got %d", m.Pages)
	}
	if m.Total != 101 || m.Page != 2 || m.Limit != 10 {
		t.Errorf("unexpected meta: %+v", m)
	}

	if got := NewMeta(Request{Page: 1, Limit: 10}, 0); got.Pages != 0 {
		t.Errorf("expected 0 pages for empty result, got %d", got.Pages)
	}
}
