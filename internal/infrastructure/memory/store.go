// Package memory adaptadores en memoria de los puertos de inventario.
// Se usan en pruebas y en modo desarrollo (INVENTORY_STORE=memory).
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
	"github.com/jhoicas/inventario-costeo/pkg/units"
)

// Store datos compartidos por todos los repositorios en memoria.
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	units     map[string]*entity.UnitOfMeasure
	materials map[string]*entity.Material
	locations map[string]*entity.Location
	records   map[string]*entity.InventoryRecord // locationID|materialID
	events    []*entity.InventoryMutationEvent
	counts    map[string]*entity.InventoryCount
	recipes   map[string][]repository.RecipeComponent

	// FailOn permite a las pruebas simular fallos de persistencia por operación
	// ("record.update", "event.create", "count.update").
	FailOn func(op string, key string) error
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		units:     make(map[string]*entity.UnitOfMeasure),
		materials: make(map[string]*entity.Material),
		locations: make(map[string]*entity.Location),
		records:   make(map[string]*entity.InventoryRecord),
		counts:    make(map[string]*entity.InventoryCount),
		recipes:   make(map[string][]repository.RecipeComponent),
	}
}

func recordKey(locationID, materialID string) string {
	return locationID + "|" + materialID
}

func (s *Store) fail(op, key string) error {
	if s.FailOn == nil {
		return nil
	}
	return s.FailOn(op, key)
}

// PutUnit, PutMaterial, PutLocation, PutRecipe cargan datos de catálogo (seeds y pruebas).
func (s *Store) PutUnit(u *entity.UnitOfMeasure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.units[u.ID] = &cp
}

// SeedSystemUnits registra una unidad del sistema por cada abreviatura conocida.
func SeedSystemUnits(s *Store) {
	for _, def := range units.All() {
		s.PutUnit(&entity.UnitOfMeasure{
			ID:                 entity.SystemUnitID(def.Abbreviation),
			Name:               def.Abbreviation,
			Family:             def.Family,
			Abbreviation:       def.Abbreviation,
			BaseConversionRate: decimal.NewFromInt(1),
		})
	}
}

func (s *Store) PutMaterial(m *entity.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.materials[m.ID] = &cp
}

func (s *Store) PutLocation(l *entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	s.locations[l.ID] = &cp
}

func (s *Store) PutRecipe(materialID string, components []repository.RecipeComponent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[materialID] = append([]repository.RecipeComponent(nil), components...)
}

// PutRecord inserta un registro con stock inicial (pruebas).
func (s *Store) PutRecord(r *entity.InventoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recordKey(r.LocationID, r.MaterialID)] = r.Clone()
}

// Record devuelve una copia del registro o nil.
func (s *Store) Record(locationID, materialID string) *entity.InventoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[recordKey(locationID, materialID)]
	if !ok {
		return nil
	}
	return r.Clone()
}

// Events devuelve una copia del historial.
func (s *Store) Events() []*entity.InventoryMutationEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.InventoryMutationEvent, len(s.events))
	for i, e := range s.events {
		cp := *e
		out[i] = &cp
	}
	return out
}

type snapshot struct {
	records map[string]*entity.InventoryRecord
	events  int
	counts  map[string]*entity.InventoryCount
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		records: make(map[string]*entity.InventoryRecord, len(s.records)),
		events:  len(s.events),
		counts:  make(map[string]*entity.InventoryCount, len(s.counts)),
	}
	for k, r := range s.records {
		snap.records[k] = r.Clone()
	}
	for k, c := range s.counts {
		snap.counts[k] = c.Clone()
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = snap.records
	s.events = s.events[:snap.events]
	s.counts = snap.counts
}

// TxRunner serializa las unidades de trabajo y revierte el store si fn falla.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner en memoria.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos sobre el store; Rollback = restaurar el snapshot.
func (r *TxRunner) Run(ctx context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	eventRepo repository.MutationEventRepository,
	countRepo repository.InventoryCountRepository,
) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()

	snap := r.store.snapshot()
	if err := fn(NewInventoryRecordRepository(r.store), NewMutationEventRepository(r.store), NewInventoryCountRepository(r.store)); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}
