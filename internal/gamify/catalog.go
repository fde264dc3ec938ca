package gamify

import "github.com/akshay090592-cmd/FitTribe-sub001/internal/models"

// Catalog is the fixed badge set. It is immutable at runtime: unlocked status
// lives in each user's state as a set of these IDs, never here. Rarity is a
// static attribute, not computed.
var Catalog = []models.Badge{
	{ID: "first_step", Title: "First Step", Description: "Complete your first workout", Icon: "Footprints", Rarity: models.RarityCommon},
	{ID: "week_warrior", Title: "Week Warrior", Description: "Complete 3 workouts in a week", Icon: "Sword", Rarity: models.RarityCommon},
	{ID: "early_bird", Title: "Early Bird", Description: "Complete a workout before 8 AM", Icon: "Sun", Rarity: models.RarityRare},
	{ID: "night_owl", Title: "Night Owl", Description: "Complete a workout after 8 PM", Icon: "Moon", Rarity: models.RarityRare},
	{ID: "streak_5", Title: "High Five", Description: "Maintain a 5-day streak", Icon: "Flame", Rarity: models.RarityRare},
	{ID: "century_club", Title: "Century Club", Description: "Lift 1000kg total volume in one session", Icon: "Dumbbell", Rarity: models.RarityLegendary},
	{ID: "team_player", Title: "Team Player", Description: "Contribute to the weekly team goal", Icon: "Users", Rarity: models.RarityCommon},
	{ID: "weekend_warrior", Title: "Weekend Hero", Description: "Log a workout on Saturday or Sunday", Icon: "Coffee", Rarity: models.RarityCommon},
	{ID: "consistency_king", Title: "Consistency King", Description: "Hit 3 workouts/week for 4 weeks", Icon: "Crown", Rarity: models.RarityLegendary},
	{ID: "social_butterfly", Title: "Social Butterfly", Description: "Send 5 nudges to your tribe", Icon: "MessageCircle", Rarity: models.RarityCommon},
	{ID: "goal_crusher", Title: "Goal Crusher", Description: "Hit the monthly tribe goal", Icon: "Target", Rarity: models.RarityRare},
	{ID: "calorie_crusher", Title: "Calorie Crusher", Description: "Burn 500 kcal in one session", Icon: "Flame", Rarity: models.RarityRare},
	{ID: "long_haul", Title: "Long Haul", Description: "Workout for over 90 minutes", Icon: "Clock", Rarity: models.RarityLegendary},
	{ID: "lunch_break", Title: "Lunch Break", Description: "Complete a workout between 11 AM and 1 PM", Icon: "Sun", Rarity: models.RarityCommon},
	{ID: "streak_10", Title: "Unstoppable", Description: "Maintain a 10-day streak", Icon: "Zap", Rarity: models.RarityLegendary},
	{ID: "heavy_lifter", Title: "Heavy Lifter", Description: "Lift 5000kg total volume in one session", Icon: "Dumbbell", Rarity: models.RarityLegendary},
}

// BadgeByID looks up a catalog entry. ok is false for unknown IDs (e.g.
// dynamic committed_* badges stored by older clients).
func BadgeByID(id string) (models.Badge, bool) {
	for _, b := range Catalog {
		if b.ID == id {
			return b, true
		}
	}
	return models.Badge{}, false
}

// GiftItems are the cosmetic rewards raffled on badge unlocks.
var GiftItems = []models.GiftItem{
	{ID: "fist_bump", Name: "Fist Bump", Emoji: "👊", Image: "/assets/icon_fist_bump.webp"},
	{ID: "protein", Name: "Protein Shake", Emoji: "🥤", Image: "/assets/icon_protein.webp"},
	{ID: "fire", Name: "Motivation Fire", Emoji: "🔥", Image: "/assets/icon_fire.webp"},
	{ID: "medal", Name: "Tiny Medal", Emoji: "🏅", Image: "/assets/icon_medal.webp"},
}

// ShopThemes are the purchasable backgrounds. Spendable points are deducted
// by the shop, which is why Points may decrease while LifetimeXP cannot.
var ShopThemes = []models.Theme{
	{ID: "jungle_night", Name: "Jungle Night", Type: "image", Value: "/assets/jungle_night_bg.webp", Price: 500, Description: "Train under the moon"},
	{ID: "volcano", Name: "Volcano Core", Type: "image", Value: "/assets/volcano_bg.webp", Price: 1000, Description: "Things are heating up!"},
	{ID: "deep_forest", Name: "Deep Forest", Type: "image", Value: "/assets/deep_jungle_bg.webp", Price: 200, Description: "Enter the mystical jungle"},
}

// streakMilestones are the consecutive-day thresholds that award a flat XP
// bonus, once per crossing. Bonuses increase with streak length.
var streakMilestones = []struct {
	Days  int
	Bonus int
}{
	{3, 25},
	{7, 50},
	{15, 100},
	{30, 200},
}
