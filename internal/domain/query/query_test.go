package query

import (
	"testing"
	"time"
)

func intPtr(n int) *int { return &n }

func TestNewCondition(t *testing.T) {
	c, err := NewCondition(OpEqual, "status", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Op() != OpEqual || c.Attr() != "status" || c.Value() != 1 {
		t.Errorf("condition = %v/%v/%v", c.Op(), c.Attr(), c.Value())
	}
}

func TestNewCondition_Invalid(t *testing.T) {
	if _, err := NewCondition(Op("between"), "status", 1); err == nil {
		t.Error("expected error for unknown operator")
	}
	if _, err := NewCondition(OpEqual, "", 1); err == nil {
		t.Error("expected error for empty attribute")
	}
}

func TestNewOrder_Invalid(t *testing.T) {
	if _, err := NewOrder("", Asc); err == nil {
		t.Error("expected error for empty attribute")
	}
	if _, err := NewOrder("price", Dir("up")); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestNewQuery_Validation(t *testing.T) {
	tests := []struct {
		name          string
		model         string
		limit, offset *int
		wantErr       bool
	}{
		{"valid", "book", intPtr(10), intPtr(0), false},
		{"nil pagination", "book", nil, nil, false},
		{"empty model", "", nil, nil, true},
		{"negative limit", "book", intPtr(-1), nil, true},
		{"negative offset", "book", nil, intPtr(-5), true},
		{"zero limit allowed", "book", intPtr(0), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.model, nil, nil, tt.limit, tt.offset)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeRange(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	r := TimeRange(from, to)
	if r.From != from || r.To != to {
		t.Errorf("range = %+v", r)
	}
}
