package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"homestream/internal/domain"
	"homestream/internal/repository"
)

// maxCodeAttempts bounds the collision-retry loop in CreateParty. With a
// 6-character code over 36 symbols a collision among active rooms is a
// ~1-in-2-billion event, so exhausting this is a configuration problem.
const maxCodeAttempts = 5

// PartyService is the request/response half of the watch-together
// lifecycle: it turns a catalog pick or a typed-in code into a pending
// selection and a room code. The realtime half (arrival, relay, teardown)
// lives in the hub; both share the registry.
type PartyService struct {
	registry   repository.PartyRegistry
	selections repository.SelectionStore
	catalog    *CatalogService
	codes      *RoomCodeGenerator
}

func NewPartyService(registry repository.PartyRegistry, selections repository.SelectionStore, catalog *CatalogService, codes *RoomCodeGenerator) *PartyService {
	if registry == nil || selections == nil || catalog == nil || codes == nil {
		panic("dependencies cannot be nil for PartyService")
	}
	return &PartyService{
		registry:   registry,
		selections: selections,
		catalog:    catalog,
		codes:      codes,
	}
}

// LobbyParty is one row of the lobby listing.
type LobbyParty struct {
	RoomCode   string `json:"room_code"`
	VideoTitle string `json:"video_title"`
	LeaderName string `json:"leader_name"`
}

// CreateParty resolves the selection ("video-7", "anime-12"), picks a room
// code not currently in use, and stashes the pending selection for the
// caller. The room itself is not registered yet: that happens when the
// caller's websocket announces arrival, so that leadership is bound to a
// live connection.
func (s *PartyService) CreateParty(ctx context.Context, userID uint, selection string) (string, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "selection": selection})

	kind, id, err := ParseSelection(selection)
	if err != nil {
		logCtx.Warn("Create party rejected: malformed selection")
		return "", err
	}
	item, err := s.catalog.Resolve(ctx, kind, id)
	if err != nil {
		logCtx.WithError(err).Warn("Create party rejected: selection did not resolve")
		return "", err
	}

	code, err := s.pickFreeCode()
	if err != nil {
		logCtx.WithError(err).Error("Failed to pick a free room code")
		return "", ErrInternalServer
	}

	sel := &domain.PendingSelection{
		RoomCode:   code,
		VideoTitle: item.Title,
		VideoURL:   item.URL,
	}
	if err := s.selections.Put(ctx, userID, sel); err != nil {
		logCtx.WithError(err).Error("Failed to stash pending selection")
		return "", ErrInternalServer
	}

	logCtx.WithField("room_code", code).Info("Watch party prepared")
	return code, nil
}

// JoinParty validates the typed-in code against the registry and stashes a
// mirror of the existing room's media so the joiner's player page can
// render before the websocket connects. The joiner will not become leader.
func (s *PartyService) JoinParty(ctx context.Context, userID uint, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_code": code})

	party, ok := s.registry.FindByCode(code)
	if !ok {
		logCtx.Warn("Join party rejected: invalid code")
		return "", ErrInvalidPartyCode
	}

	sel := &domain.PendingSelection{
		RoomCode:   party.Code,
		VideoTitle: party.VideoTitle,
		VideoURL:   party.VideoURL,
	}
	if err := s.selections.Put(ctx, userID, sel); err != nil {
		logCtx.WithError(err).Error("Failed to stash pending selection")
		return "", ErrInternalServer
	}

	logCtx.Info("User joining watch party")
	return party.Code, nil
}

// RoomInfo returns the caller's pending selection for code, used by the
// player page between the redirect and the websocket handshake.
func (s *PartyService) RoomInfo(ctx context.Context, userID uint, code string) (*domain.PendingSelection, error) {
	sel, err := s.selections.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSelectionNotFound) {
			return nil, ErrNoPendingSelection
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to load pending selection")
		return nil, ErrInternalServer
	}
	if sel.RoomCode != code {
		// Stale stash from an earlier party; treat like no stash at all.
		return nil, ErrNoPendingSelection
	}
	return sel, nil
}

// ListParties returns the lobby view of all active rooms, ordered by code
// for a stable listing.
func (s *PartyService) ListParties(ctx context.Context) []LobbyParty {
	active := s.registry.List()
	parties := make([]LobbyParty, 0, len(active))
	for _, p := range active {
		parties = append(parties, LobbyParty{
			RoomCode:   p.Code,
			VideoTitle: p.VideoTitle,
			LeaderName: p.LeaderName,
		})
	}
	sort.Slice(parties, func(i, j int) bool { return parties[i].RoomCode < parties[j].RoomCode })
	return parties
}

// pickFreeCode generates codes until one is not held by an active room.
// The check here is advisory; the registry's CreateIfAbsent at arrival is
// what actually arbitrates a race on the same fresh code.
func (s *PartyService) pickFreeCode() (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return "", err
		}
		if _, taken := s.registry.FindByCode(code); !taken {
			return code, nil
		}
		logrus.WithField("room_code", code).Warnf("Generated room code already in use, retrying (attempt %d)", attempt+1)
	}
	return "", errors.New("exhausted room code attempts")
}
