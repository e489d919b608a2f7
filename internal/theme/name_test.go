package theme

import "testing"

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    ParsedName
		matched bool
	}{
		{
			name:    "brand hierarchy",
			in:      "brand/primary/darker",
			want:    ParsedName{Category: CategoryPrimary, Role: RolePrimary, Variant: "darker"},
			matched: true,
		},
		{
			name:    "brand accent mixed case",
			in:      " Brand / Accent / 700 ",
			want:    ParsedName{Category: CategoryAccent, Role: RoleAccent, Variant: "700"},
			matched: true,
		},
		{
			name:    "semantic hierarchy",
			in:      "semantic/positive/500",
			want:    ParsedName{Category: CategorySemantic, Role: RolePositive, Variant: "500"},
			matched: true,
		},
		{
			name:    "status hierarchy",
			in:      "status/error/light",
			want:    ParsedName{Category: CategoryStatus, Role: RoleError, Variant: "light"},
			matched: true,
		},
		{
			name:    "status two segments",
			in:      "status/done",
			want:    ParsedName{Category: CategoryStatus, Role: RoleDone, Variant: "default"},
			matched: true,
		},
		{
			name:    "semantic two segments",
			in:      "Semantic/Positive",
			want:    ParsedName{Category: CategorySemantic, Role: RolePositive, Variant: "default"},
			matched: true,
		},
		{
			name:    "brand two segments",
			in:      "brand/primary",
			want:    ParsedName{Category: CategoryPrimary, Role: RolePrimary, Variant: "default"},
			matched: true,
		},
		{
			name:    "role and variant",
			in:      "warning/200",
			want:    ParsedName{Category: CategorySemantic, Role: RoleWarning, Variant: "200"},
			matched: true,
		},
		{
			name:    "direct role and variant",
			in:      "primary/lighter",
			want:    ParsedName{Category: CategoryPrimary, Role: RolePrimary, Variant: "lighter"},
			matched: true,
		},
		{
			name:    "flat role",
			in:      "Progress",
			want:    ParsedName{Category: CategoryStatus, Role: RoleProgress, Variant: "default"},
			matched: true,
		},
		{
			name:    "concatenated brand role keeps suffix",
			in:      "primarylighter",
			want:    ParsedName{Category: CategoryPrimary, Role: RolePrimary, Variant: "lighter"},
			matched: true,
		},
		{
			name:    "concatenated semantic role drops suffix",
			in:      "negativedark",
			want:    ParsedName{Category: CategorySemantic, Role: RoleNegative, Variant: "default"},
			matched: true,
		},
		{
			name:    "concatenated status role drops suffix",
			in:      "closed2",
			want:    ParsedName{Category: CategoryStatus, Role: RoleClosed, Variant: "default"},
			matched: true,
		},
		{name: "unrelated", in: "totally/unrelated/thing"},
		{name: "brand with semantic role", in: "brand/positive/500"},
		{name: "semantic with status role", in: "semantic/open/500"},
		{name: "status with semantic role", in: "status/neutral/500"},
		{name: "unknown two segments", in: "grey/500"},
		{name: "brand two segments with semantic role", in: "brand/positive"},
		{name: "status two segments with brand role", in: "status/primary"},
		{name: "too deep", in: "brand/primary/light/2"},
		{name: "empty", in: ""},
		{name: "unknown flat", in: "background"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseName(tt.in)
			if ok != tt.matched {
				t.Fatalf("ParseName(%q) matched = %v, want %v", tt.in, ok, tt.matched)
			}
			if got != tt.want {
				t.Fatalf("ParseName(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
