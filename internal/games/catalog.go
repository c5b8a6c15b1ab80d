package games

import (
	"fmt"

	"casino-miniapp-backend/internal/models"
)

// Catalog is the static registry of supported games. Built once at startup;
// read-only afterwards.
type Catalog struct {
	games map[models.GameType]Game
	order []models.GameType
}

func NewCatalog() *Catalog {
	c := &Catalog{games: make(map[models.GameType]Game)}
	c.register(&DragonTiger{})
	c.register(&SevenUpDown{})
	c.register(&AndarBahar{})
	c.register(&LuckyDice{})
	c.register(&Mines{})
	c.register(&Crash{})
	return c
}

func (c *Catalog) register(g Game) {
	id := g.Definition().ID
	c.games[id] = g
	c.order = append(c.order, id)
}

// Game returns the registered variant for id, or ErrUnknownGame.
func (c *Catalog) Game(id models.GameType) (Game, error) {
	g, ok := c.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownGame, id)
	}
	return g, nil
}

func (c *Catalog) DefinitionFor(id models.GameType) (models.GameDefinition, error) {
	g, err := c.Game(id)
	if err != nil {
		return models.GameDefinition{}, err
	}
	return g.Definition(), nil
}

// Definitions lists all entries in registration order.
func (c *Catalog) Definitions() []models.GameDefinition {
	defs := make([]models.GameDefinition, 0, len(c.order))
	for _, id := range c.order {
		defs = append(defs, c.games[id].Definition())
	}
	return defs
}
