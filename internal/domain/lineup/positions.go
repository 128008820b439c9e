package lineup

// PositionCode identifies a fielding slot from the position catalog.
type PositionCode string

// Out marks an inning in which a player holds no fielding position.
const Out PositionCode = "Out"

const (
	Pitcher          PositionCode = "Pitcher"
	Catcher          PositionCode = "Catcher"
	FirstBase        PositionCode = "FirstBase"
	SecondBase       PositionCode = "SecondBase"
	ThirdBase        PositionCode = "ThirdBase"
	Shortstop        PositionCode = "Shortstop"
	LeftField        PositionCode = "LeftField"
	LeftCenterField  PositionCode = "LeftCenterField"
	RightCenterField PositionCode = "RightCenterField"
	RightField       PositionCode = "RightField"
)

// Catalog is the ordered set of fielding positions for a game. Order matters:
// assignment passes walk positions in catalog order.
type Catalog []PositionCode

// StandardCatalog is the ten-slot slow-pitch layout used when a team does not declare its own.
var StandardCatalog = Catalog{
	Pitcher,
	Catcher,
	FirstBase,
	SecondBase,
	ThirdBase,
	Shortstop,
	LeftField,
	LeftCenterField,
	RightCenterField,
	RightField,
}

// Contains reports whether pos belongs to the catalog.
func (c Catalog) Contains(pos PositionCode) bool {
	return c.Index(pos) >= 0
}

// Index returns the catalog position of pos, or -1.
func (c Catalog) Index(pos PositionCode) int {
	for i, p := range c {
		if p == pos {
			return i
		}
	}
	return -1
}

// OrDefault returns StandardCatalog for an empty catalog.
func (c Catalog) OrDefault() Catalog {
	if len(c) == 0 {
		return StandardCatalog
	}
	return c
}

// Normalize drops empty codes, the Out sentinel, and duplicates while keeping order.
func (c Catalog) Normalize() Catalog {
	out := make(Catalog, 0, len(c))
	seen := make(map[PositionCode]bool, len(c))
	for _, p := range c {
		if p == "" || p == Out || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
