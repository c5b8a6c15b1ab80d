package games_test

import (
	"errors"
	"testing"

	"casino-miniapp-backend/internal/games"
	"casino-miniapp-backend/internal/models"
)

func TestCatalogHasAllGames(t *testing.T) {
	catalog := games.NewCatalog()

	want := []models.GameType{
		models.GameTypeDragonTiger,
		models.GameTypeSevenUpDown,
		models.GameTypeAndarBahar,
		models.GameTypeLuckyDice,
		models.GameTypeMines,
		models.GameTypeCrash,
	}

	defs := catalog.Definitions()
	if len(defs) != len(want) {
		t.Fatalf("expected %d games, got %d", len(want), len(defs))
	}

	for _, id := range want {
		def, err := catalog.DefinitionFor(id)
		if err != nil {
			t.Errorf("DefinitionFor(%s): %v", id, err)
			continue
		}
		if def.ID != id {
			t.Errorf("definition id mismatch: want %s, got %s", id, def.ID)
		}
		if def.MaxMultiplier <= 0 {
			t.Errorf("%s should have a positive max multiplier", id)
		}
	}
}

func TestCatalogUnknownGame(t *testing.T) {
	catalog := games.NewCatalog()

	if _, err := catalog.Game("roulette"); !errors.Is(err, models.ErrUnknownGame) {
		t.Errorf("expected ErrUnknownGame, got %v", err)
	}
	if _, err := catalog.DefinitionFor(""); !errors.Is(err, models.ErrUnknownGame) {
		t.Errorf("expected ErrUnknownGame, got %v", err)
	}
}

func TestChoiceValidation(t *testing.T) {
	catalog := games.NewCatalog()

	tests := []struct {
		game    models.GameType
		choice  string
		wantErr bool
	}{
		{models.GameTypeDragonTiger, "Dragon", false},
		{models.GameTypeDragonTiger, "Tie", false},
		{models.GameTypeDragonTiger, "Lion", true},
		{models.GameTypeSevenUpDown, "Up", false},
		{models.GameTypeSevenUpDown, "7", false},
		{models.GameTypeSevenUpDown, "8", true},
		{models.GameTypeAndarBahar, "Andar", false},
		{models.GameTypeAndarBahar, "Middle", true},
		{models.GameTypeLuckyDice, "6", false},
		{models.GameTypeLuckyDice, "race", false},
		{models.GameTypeLuckyDice, "7", true},
		{models.GameTypeLuckyDice, "0", true},
		{models.GameTypeMines, "5", false},
		{models.GameTypeMines, "20", false},
		// Cashing out with zero tiles revealed is a validation error,
		// not a zero-profit win.
		{models.GameTypeMines, "0", true},
		{models.GameTypeMines, "21", true},
		{models.GameTypeCrash, "2", false},
		{models.GameTypeCrash, "live", false},
		{models.GameTypeCrash, "1.0", true},
		{models.GameTypeCrash, "10", true},
		{models.GameTypeCrash, "rocket", true},
	}

	for _, tt := range tests {
		game, err := catalog.Game(tt.game)
		if err != nil {
			t.Fatalf("Game(%s): %v", tt.game, err)
		}
		err = game.ValidateChoice(tt.choice)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s/%q: ValidateChoice error = %v, wantErr %v", tt.game, tt.choice, err, tt.wantErr)
		}
		if err != nil && !models.IsValidationError(err) {
			t.Errorf("%s/%q: expected a ValidationError, got %T", tt.game, tt.choice, err)
		}
	}
}
