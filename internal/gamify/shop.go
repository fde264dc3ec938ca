package gamify

import (
	"errors"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
)

var (
	// ErrUnknownTheme means the theme ID is not in the shop catalog.
	ErrUnknownTheme = errors.New("unknown theme")
	// ErrAlreadyUnlocked means the theme was purchased before.
	ErrAlreadyUnlocked = errors.New("theme already unlocked")
	// ErrInsufficientPoints means the points balance cannot cover the price.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrThemeLocked means the theme must be purchased before activation.
	ErrThemeLocked = errors.New("theme not unlocked")
)

// ThemeByID looks up a shop catalog entry.
func ThemeByID(id string) (models.Theme, bool) {
	for _, t := range ShopThemes {
		if t.ID == id {
			return t, true
		}
	}
	return models.Theme{}, false
}

func hasTheme(state *models.UserGamificationState, id string) bool {
	for _, t := range state.UnlockedThemes {
		if t == id {
			return true
		}
	}
	return false
}

// PurchaseTheme deducts the theme's price from the spendable points balance
// and records the unlock. Lifetime XP is untouched; only points can be spent.
// The caller owns persistence of the mutated state.
func (e *Engine) PurchaseTheme(state *models.UserGamificationState, themeID string) (models.Theme, error) {
	theme, ok := ThemeByID(themeID)
	if !ok {
		return models.Theme{}, ErrUnknownTheme
	}
	if hasTheme(state, themeID) {
		return models.Theme{}, ErrAlreadyUnlocked
	}
	if state.Points < theme.Price {
		return models.Theme{}, ErrInsufficientPoints
	}
	state.Points -= theme.Price
	state.UnlockedThemes = append(state.UnlockedThemes, themeID)
	return theme, nil
}

// SetActiveTheme switches the active cosmetic. "default" is always available;
// anything else must have been purchased first.
func (e *Engine) SetActiveTheme(state *models.UserGamificationState, themeID string) error {
	if themeID != "default" && !hasTheme(state, themeID) {
		return ErrThemeLocked
	}
	state.ActiveTheme = themeID
	return nil
}
