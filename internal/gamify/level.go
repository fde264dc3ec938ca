package gamify

// Level converts lifetime XP into a level on the linear curve: one level per
// Rules.LevelXP, starting at level 1.
func (e *Engine) Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/e.Rules.LevelXP + 1
}

// LevelProgress describes position within the current level.
type LevelProgress struct {
	Level     int     `json:"level"`
	NextLevel int     `json:"nextLevel"`
	Progress  float64 `json:"progress"` // percent into the current level
	CurrentXP int     `json:"currentXp"`
	NeededXP  int     `json:"neededXp"`
}

// Progress reports how far into the current level the given XP total is.
func (e *Engine) Progress(xp int) LevelProgress {
	if xp < 0 {
		xp = 0
	}
	level := e.Level(xp)
	startXP := (level - 1) * e.Rules.LevelXP
	inLevel := xp - startXP
	return LevelProgress{
		Level:     level,
		NextLevel: level + 1,
		Progress:  float64(inLevel) / float64(e.Rules.LevelXP) * 100,
		CurrentXP: inLevel,
		NeededXP:  e.Rules.LevelXP,
	}
}

// Rank names the level tier.
func Rank(level int) string {
	switch {
	case level < 5:
		return "Novice"
	case level < 10:
		return "Scout"
	case level < 15:
		return "Ranger"
	case level < 20:
		return "Warrior"
	case level < 30:
		return "Guardian"
	}
	return "Legend"
}
