package models

import "time"

// UserProfile is the read-only profile consumed by the metric calculators.
// All body metrics are optional; zero values mean "not provided".
type UserProfile struct {
	ID           string     `json:"id"`
	Email        string     `json:"email,omitempty"`
	DisplayName  string     `json:"displayName"`
	TribeID      string     `json:"tribeId,omitempty"`
	FitnessLevel string     `json:"fitnessLevel,omitempty"`
	Height       float64    `json:"height,omitempty"` // cm
	Weight       float64    `json:"weight,omitempty"` // kg
	Gender       string     `json:"gender,omitempty"` // male | female | other
	DOB          *time.Time `json:"dob,omitempty"`
	WeeklyGoal   int        `json:"weeklyGoal,omitempty"`
}

// HasBMRData reports whether the profile carries everything the
// Mifflin-St Jeor equation needs.
func (p *UserProfile) HasBMRData() bool {
	return p != nil && p.Height > 0 && p.Weight > 0 && p.DOB != nil && p.Gender != ""
}

// BadgeRarity is a static catalog attribute, never computed.
type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityRare      BadgeRarity = "rare"
	RarityLegendary BadgeRarity = "legendary"
)

// Badge is one entry of the immutable badge catalog. Unlocked status is
// derived by membership of ID in a user's badge set; the catalog itself is
// never mutated.
type Badge struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Rarity      BadgeRarity `json:"rarity"`
}

// GiftItem is a cosmetic inventory entry.
type GiftItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Image string `json:"image,omitempty"`
	Count int    `json:"count"`
}

// Theme is a purchasable cosmetic background.
type Theme struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Value       string `json:"value"`
	Price       int    `json:"price"`
	Description string `json:"description,omitempty"`
}

// UserGamificationState is the mutable per-user record owned by the
// gamification engine. Field names are the persisted wire format shared with
// existing stored data and must not change.
//
// Invariants: LifetimeXP only increases, Points may go up or down (shop
// purchases deduct), Badges never shrinks outside the explicit revert path.
type UserGamificationState struct {
	Points         int        `json:"points"`
	LifetimeXP     *int       `json:"lifetimeXp,omitempty"`
	Badges         []string   `json:"badges"`
	Inventory      []GiftItem `json:"inventory"`
	UnlockedThemes []string   `json:"unlockedThemes"`
	ActiveTheme    string     `json:"activeTheme"`
	Commitment     *time.Time `json:"commitment,omitempty"`
}

// NewGamificationState returns the zero state for a freshly seen user.
func NewGamificationState() *UserGamificationState {
	zero := 0
	return &UserGamificationState{
		LifetimeXP:     &zero,
		Badges:         []string{},
		Inventory:      []GiftItem{},
		UnlockedThemes: []string{"default"},
		ActiveTheme:    "default",
	}
}

// EffectiveXP resolves lifetime XP with the documented fallback: users
// created before lifetimeXp existed read their points balance instead.
func (s *UserGamificationState) EffectiveXP() int {
	if s == nil {
		return 0
	}
	if s.LifetimeXP != nil {
		return *s.LifetimeXP
	}
	return s.Points
}

// AddXP increases lifetime XP, resolving the legacy fallback first so the
// monotonic counter starts from the effective value. Negative awards are
// ignored; XP is never deducted here.
func (s *UserGamificationState) AddXP(xp int) {
	if xp <= 0 {
		return
	}
	total := s.EffectiveXP() + xp
	s.LifetimeXP = &total
}

// HasBadge reports membership in the unlocked badge set.
func (s *UserGamificationState) HasBadge(id string) bool {
	for _, b := range s.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// AddBadge appends a badge ID if absent. Returns true if newly added.
func (s *UserGamificationState) AddBadge(id string) bool {
	if s.HasBadge(id) {
		return false
	}
	s.Badges = append(s.Badges, id)
	return true
}

// AddGift increments (or inserts) an inventory item.
func (s *UserGamificationState) AddGift(gift GiftItem) {
	for i := range s.Inventory {
		if s.Inventory[i].ID == gift.ID {
			s.Inventory[i].Count++
			return
		}
	}
	gift.Count = 1
	s.Inventory = append(s.Inventory, gift)
}
