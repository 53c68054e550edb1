package collections

import (
	"github.com/charmbracelet/log"

	"tunedeck/internal/gateway"
)

// Favorites mirrors the server's favorites collection for one owner.
type Favorites struct {
	*Mirror
}

// NewFavorites wires a favorites mirror to the gateway.
func NewFavorites(gw *gateway.Client, logger *log.Logger) *Favorites {
	return &Favorites{
		Mirror: newMirror("favorites", gw.ListFavorites, gw.AddFavorite, gw.RemoveFavorite, logger),
	}
}
