package theme

import "strings"

// ParsedName is the structured form of a theme-relevant variable name.
type ParsedName struct {
	Category Category
	Role     Role
	Variant  string
}

// ParseName decomposes a variable or style name into role and raw tint
// label. Names that are not theme tokens report false; callers skip them.
//
// Recognised shapes, first match wins:
//
//	brand/{primary|accent}/{variant}
//	semantic/{positive|warning|negative|neutral}/{variant}
//	status/{open|done|progress|closed|error}/{variant}
//	{brand|semantic|status}/{role}   tint "default"
//	{role}/{variant}
//	{role}
//	{role}{suffix}   e.g. "primarylighter"
func ParseName(raw string) (ParsedName, bool) {
	parts := strings.Split(raw, "/")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}

	switch len(parts) {
	case 3:
		role, ok := groupRole(parts[0], parts[1])
		if !ok {
			return ParsedName{}, false
		}
		return ParsedName{Category: role.Category(), Role: role, Variant: parts[2]}, true

	case 2:
		if role, ok := groupRole(parts[0], parts[1]); ok {
			return ParsedName{Category: role.Category(), Role: role, Variant: "default"}, true
		}
		role, ok := RoleByName(parts[0])
		if !ok {
			return ParsedName{}, false
		}
		return ParsedName{Category: role.Category(), Role: role, Variant: parts[1]}, true

	case 1:
		name := parts[0]
		if role, ok := RoleByName(name); ok {
			return ParsedName{Category: role.Category(), Role: role, Variant: "default"}, true
		}
		for _, role := range Roles() {
			prefix := role.String()
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			variant := "default"
			// A tint glued onto a semantic or status role cannot be told
			// apart from the role name reliably, so only brand roles keep it.
			if c := role.Category(); c == CategoryPrimary || c == CategoryAccent {
				variant = name[len(prefix):]
			}
			return ParsedName{Category: role.Category(), Role: role, Variant: variant}, true
		}
	}
	return ParsedName{}, false
}

// groupRole resolves a role segment under a group segment. brand only
// holds primary and accent.
func groupRole(group, name string) (Role, bool) {
	role, ok := RoleByName(name)
	if !ok {
		return 0, false
	}
	switch group {
	case "brand":
		return role, role == RolePrimary || role == RoleAccent
	case "semantic":
		return role, role.Category() == CategorySemantic
	case "status":
		return role, role.Category() == CategoryStatus
	}
	return 0, false
}
