package schema

import "testing"

func TestNormalizeColumnName(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"simple", "Revenue", "revenue"},
		{"spaces", "Net Revenue", "net_revenue"},
		{"punctuation stripped", "3rd Quarter!", "col_3rd_quarter"},
		{"leading digit", "2023 Sales", "col_2023_sales"},
		{"empty string", "", "unnamed_column"},
		{"nil header", nil, "unnamed_column"},
		{"only symbols", "!!!", "unnamed_column"},
		{"accents transliterated", "Año Fiscal", "ano_fiscal"},
		{"mixed separators", "unit - price / total", "unit_price_total"},
		{"numeric header", 42, "col_42"},
		{"whitespace only", "   ", "unnamed_column"},
		{"already normalized", "row_count", "row_count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeColumnName(tt.raw); got != tt.want {
				t.Errorf("NormalizeColumnName(%v) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeColumnNameStable(t *testing.T) {
	first := NormalizeColumnName("3rd Quarter!")
	if got := NormalizeColumnName(first); got != first {
		t.Errorf("normalizing %q again gave %q", first, got)
	}
}
