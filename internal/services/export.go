package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/allana0-dev/refynely-backend/internal/export"
	"github.com/allana0-dev/refynely-backend/internal/store"
)

// ExportService renders owner-scoped decks into downloadable artifacts.
type ExportService struct {
	store store.Store
	log   zerolog.Logger
}

func NewExportService(s store.Store, log zerolog.Logger) *ExportService {
	return &ExportService{store: s, log: log.With().Str("service", "export").Logger()}
}

// Export renders deckID in the requested format and returns the artifact
// bytes together with their MIME type.
func (s *ExportService) Export(ctx context.Context, ownerID, deckID, format string) ([]byte, string, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, "", err
	}
	deck, err := s.store.Decks().GetByID(ctx, ownerID, deckID)
	if err != nil {
		return nil, "", err
	}
	out, err := export.Render(deck, f)
	if err != nil {
		s.log.Error().Err(err).Str("deckId", deckID).Str("format", format).Msg("render failed")
		return nil, "", err
	}
	s.log.Info().Str("deckId", deckID).Str("format", format).Int("bytes", len(out)).Msg("deck exported")
	return out, f.MIME(), nil
}
