package tiledef

import "sync"

// DefinitionStore is a process-wide, single-producer, read-many cache of
// tile definitions keyed by sprite ID. It is built once while decoding TDEF
// files and then only read by search workers; Clear is the only mutation
// available once built.
type DefinitionStore struct {
	mu    sync.Mutex
	byID  map[int32]*TileDefinition
	warnf func(format string, args ...any)
}

// NewDefinitionStore returns an empty store. warnf receives a message for
// every cross-file duplicate sprite ID encountered by Merge; a nil warnf
// discards them.
func NewDefinitionStore(warnf func(format string, args ...any)) *DefinitionStore {
	if warnf == nil {
		warnf = noopWarnf
	}
	return &DefinitionStore{byID: make(map[int32]*TileDefinition), warnf: warnf}
}

// Merge adds every definition across sheets that isn't already present
// under its sprite ID. On a cross-file collision the new definition is
// dropped and the first one kept, with a warning — mirroring the
// within-file duplicate policy in Decode.
func (s *DefinitionStore) Merge(sheets []*Tilesheet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sheet := range sheets {
		for _, def := range sheet.Tiles {
			if _, exists := s.byID[def.SpriteID]; exists {
				s.warnf("tiledef: cross-file duplicate sprite id %d (%s)", def.SpriteID, def.Name)
				continue
			}
			s.byID[def.SpriteID] = def
		}
	}
}

// Get returns the definition for a sprite ID, or nil if none was merged.
func (s *DefinitionStore) Get(spriteID int32) *TileDefinition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[spriteID]
}

// Len reports how many distinct sprite IDs are stored.
func (s *DefinitionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Clear drops every stored definition.
func (s *DefinitionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[int32]*TileDefinition)
}

// SheetStore is the tilesheet-level counterpart to DefinitionStore, keyed
// by tilesheet name.
type SheetStore struct {
	mu     sync.Mutex
	byName map[string]*Tilesheet
}

// NewSheetStore returns an empty store.
func NewSheetStore() *SheetStore {
	return &SheetStore{byName: make(map[string]*Tilesheet)}
}

// Add registers every sheet under its name, first-write-wins.
func (s *SheetStore) Add(sheets []*Tilesheet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sheet := range sheets {
		if _, exists := s.byName[sheet.Name]; exists {
			continue
		}
		s.byName[sheet.Name] = sheet
	}
}

// Get returns the named tilesheet, or nil if unknown.
func (s *SheetStore) Get(name string) *Tilesheet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byName[name]
}

// Clear drops every stored tilesheet.
func (s *SheetStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName = make(map[string]*Tilesheet)
}
