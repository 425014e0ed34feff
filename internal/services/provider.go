package services

import (
	"github.com/tavernkeep/companion/internal/clients/bestiary"
	"github.com/tavernkeep/companion/internal/dice"
	"github.com/tavernkeep/companion/internal/repositories/characters"
	"github.com/tavernkeep/companion/internal/repositories/encounters"
	bestiaryService "github.com/tavernkeep/companion/internal/services/bestiary"
	characterService "github.com/tavernkeep/companion/internal/services/character"
	encounterService "github.com/tavernkeep/companion/internal/services/encounter"
	"github.com/tavernkeep/companion/internal/services/hpsync"
	"github.com/tavernkeep/companion/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	BestiaryService  bestiaryService.Service
	CharacterService characterService.Service
	EncounterService encounterService.Service
	SyncBridge       *hpsync.Bridge
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	BestiaryClient      bestiary.Client // Required
	EncounterRepository encounters.Repository
	CharacterRepository characters.Repository
	Markers             *hpsync.MarkerSet
}

// NewProvider creates a new service provider with all services initialized.
// The encounter service and the sync bridge share one marker set so each
// side's writes are suppressed on the other's feed.
func NewProvider(cfg *ProviderConfig) *Provider {
	// Use in-memory repositories if none provided
	encounterRepo := cfg.EncounterRepository
	if encounterRepo == nil {
		encounterRepo = encounters.NewInMemoryRepository()
	}

	characterRepo := cfg.CharacterRepository
	if characterRepo == nil {
		characterRepo = characters.NewInMemoryRepository()
	}

	markers := cfg.Markers
	if markers == nil {
		markers = hpsync.NewMarkerSet(nil, 0)
	}

	roller := dice.NewRandomRoller()
	idGenerator := uuid.NewGoogleUUIDGenerator()

	catalog := bestiaryService.NewService(&bestiaryService.ServiceConfig{
		Client: cfg.BestiaryClient,
	})

	charService := characterService.NewService(&characterService.ServiceConfig{
		Repository:    characterRepo,
		Roller:        roller,
		UUIDGenerator: idGenerator,
	})

	encService := encounterService.NewService(&encounterService.ServiceConfig{
		Repository:          encounterRepo,
		CharacterRepository: characterRepo,
		Bestiary:            catalog,
		Roller:              roller,
		UUIDGenerator:       idGenerator,
		Markers:             markers,
	})

	bridge := hpsync.NewBridge(&hpsync.BridgeConfig{
		CharacterRepository: characterRepo,
		Encounters:          encService,
		Markers:             markers,
	})

	return &Provider{
		BestiaryService:  catalog,
		CharacterService: charService,
		EncounterService: encService,
		SyncBridge:       bridge,
	}
}
