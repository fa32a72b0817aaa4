package domain

// ==================== EMPLOYEE POOL ====================

// Employee represents one row of the employee feed. Employees are never
// mutated after load; only the whole pool is replaced.
type Employee struct {
	ID       string `json:"id"`
	No       string `json:"no"`
	Division string `json:"division"`
	Group    string `json:"group"`
	Team     string `json:"team"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

// ==================== CHART ====================

// NodeType distinguishes organizational units from placed people.
type NodeType string

const (
	NodeTypeOrg    NodeType = "org"
	NodeTypePerson NodeType = "person"
)

// Layout controls where an org node is placed under its parent.
type Layout string

const (
	LayoutStandard Layout = "standard" // vertical descendant
	LayoutSide     Layout = "side"     // horizontal direct-report lane
)

// Valid reports whether l is a known layout.
func (l Layout) Valid() bool {
	return l == LayoutStandard || l == LayoutSide
}

// Role is the leadership badge derived from a position string.
type Role string

const (
	RolePresident Role = "PRESIDENT"
	RoleCEO       Role = "CEO"
	RoleDivision  Role = "DIVISION"
	RoleGroup     Role = "GROUP"
	RoleTeam      Role = "TEAM"
)

// Fixed ids of the bootstrap nodes.
const (
	PresidentNodeID = "root-president"
	CEONodeID       = "root-ceo"
)

// NoLevel marks person nodes and exception org nodes.
const NoLevel = -1

// Levels counted by the aggregate statistics.
const (
	LevelDivision = 2
	LevelGroup    = 3
	LevelTeam     = 4
)

// Default labels for org nodes created without a level name.
const (
	ExceptionOrgLabel = "예외 조직"
	NewOrgLabel       = "신규 조직"
)

// ChartNode represents either an org unit or a person placed into one.
// ParentID is empty for the root.
type ChartNode struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Label    string   `json:"label"`
	ParentID string   `json:"parentId,omitempty"`
	Level    int      `json:"level"`

	// org only
	IsException bool   `json:"isException,omitempty"`
	Layout      Layout `json:"layout,omitempty"`

	// person only
	OriginalPosition string `json:"originalPosition,omitempty"`
	Role             *Role  `json:"role,omitempty"`
}

// IsOrg reports whether the node is an organizational unit.
func (n ChartNode) IsOrg() bool {
	return n.Type == NodeTypeOrg
}

// IsProtected reports whether the node is one of the bootstrap nodes.
func IsProtected(id string) bool {
	return id == PresidentNodeID || id == CEONodeID
}

// InitialNodes returns the two bootstrap nodes every chart starts with.
func InitialNodes() []ChartNode {
	return []ChartNode{
		{
			ID:     PresidentNodeID,
			Type:   NodeTypeOrg,
			Label:  "사장",
			Level:  0,
			Layout: LayoutStandard,
		},
		{
			ID:       CEONodeID,
			Type:     NodeTypeOrg,
			Label:    "대표이사",
			Level:    1,
			ParentID: PresidentNodeID,
			Layout:   LayoutStandard,
		},
	}
}

// Stats holds the aggregate counts shown in the chart header.
type Stats struct {
	Division int `json:"division"`
	Group    int `json:"group"`
	Team     int `json:"team"`
	Person   int `json:"person"`
}

// ==================== LEVELS ====================

// Level names and colours one rank of the hierarchy.
type Level struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// LevelInfo is what a node displays for its stored level integer.
type LevelInfo struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

var (
	exceptionLevelInfo = LevelInfo{Name: "EXC", Color: "#94a3b8"}
	topLevelInfo       = LevelInfo{Name: "TOP", Color: "#0f172a"}
)

// DefaultLevels returns the five default ranks.
func DefaultLevels() []Level {
	return []Level{
		{ID: 1, Name: "부문", Color: "#111827"},
		{ID: 2, Name: "그룹", Color: "#7C3AED"},
		{ID: 3, Name: "팀", Color: "#4B5563"},
		{ID: 4, Name: "유닛", Color: "#8B5CF6"},
		{ID: 5, Name: "파트", Color: "#EC4899"},
	}
}

// LevelConfig is the ordered, user-editable rank hierarchy. Editing it
// never rewrites the level integers stored on nodes.
type LevelConfig []Level

// Lookup resolves the display name and colour for a node.
func (c LevelConfig) Lookup(n ChartNode) LevelInfo {
	if n.IsException {
		return exceptionLevelInfo
	}
	idx := n.Level - 1
	if idx < 0 || idx >= len(c) {
		return topLevelInfo
	}
	return LevelInfo{Name: c[idx].Name, Color: c[idx].Color}
}

// Clone returns an independent copy.
func (c LevelConfig) Clone() LevelConfig {
	out := make(LevelConfig, len(c))
	copy(out, c)
	return out
}
