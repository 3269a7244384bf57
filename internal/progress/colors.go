package progress

// goalPalette is the fixed palette used by the calendar views. Colors are
// assigned by each goal's ordinal position in a stable ordering (goal id
// ascending), wrapping around when goals outnumber colors.
var goalPalette = []string{
	"#8CB369",
	"#85B8CB",
	"#E8A87C",
	"#C49BBB",
	"#E8B84C",
	"#D9756C",
	"#6B8F71",
	"#A0C4FF",
}

// GoalColor returns the palette color for the goal at the given ordinal.
func GoalColor(index int) string {
	return goalPalette[index%len(goalPalette)]
}
