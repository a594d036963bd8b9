// Package memory implementa el Ledger Store y los puertos auxiliares sobre
// mapas en memoria. Respaldado por un único mutex: las transacciones se
// serializan completas y un error dentro de la transacción restaura la foto
// previa, así que nunca queda estado parcial.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-stock-api/internal/application/stock"
	"github.com/jhoicas/pos-stock-api/internal/application/stocktake"
	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
	"github.com/jhoicas/pos-stock-api/internal/domain/repository"
)

type balanceKey struct {
	productID  int64
	locationID int64
}

type detailKey struct {
	stockTakeID int64
	productID   int64
}

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu sync.RWMutex

	balances   map[balanceKey]entity.StockBalance
	movements  []entity.StockMovement
	stockTakes map[int64]entity.StockTake
	details    map[detailKey]entity.StockTakeDetail
	products   map[int64]entity.Product
	locations  map[int64]entity.Location
	users      map[int64]entity.User
	settings   map[string]string
	revoked    map[string]time.Time

	nextStockTakeID int64
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		balances:   make(map[balanceKey]entity.StockBalance),
		stockTakes: make(map[int64]entity.StockTake),
		details:    make(map[detailKey]entity.StockTakeDetail),
		products:   make(map[int64]entity.Product),
		locations:  make(map[int64]entity.Location),
		users:      make(map[int64]entity.User),
		settings:   make(map[string]string),
		revoked:    make(map[string]time.Time),
	}
}

// PutProduct, PutLocation y PutUser siembran el directorio (tests, modo local).
func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *Store) PutLocation(l entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = l
}

func (s *Store) PutUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// snapshot copia el estado mutado por las transacciones de stock/conteos.
type snapshot struct {
	balances        map[balanceKey]entity.StockBalance
	movements       []entity.StockMovement
	stockTakes      map[int64]entity.StockTake
	details         map[detailKey]entity.StockTakeDetail
	nextStockTakeID int64
}

func (s *Store) takeSnapshot() snapshot {
	snap := snapshot{
		balances:        make(map[balanceKey]entity.StockBalance, len(s.balances)),
		movements:       append([]entity.StockMovement(nil), s.movements...),
		stockTakes:      make(map[int64]entity.StockTake, len(s.stockTakes)),
		details:         make(map[detailKey]entity.StockTakeDetail, len(s.details)),
		nextStockTakeID: s.nextStockTakeID,
	}
	for k, v := range s.balances {
		snap.balances[k] = v
	}
	for k, v := range s.stockTakes {
		snap.stockTakes[k] = v
	}
	for k, v := range s.details {
		snap.details[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.balances = snap.balances
	s.movements = snap.movements
	s.stockTakes = snap.stockTakes
	s.details = snap.details
	s.nextStockTakeID = snap.nextStockTakeID
}

// Interfaces de transacción del motor de stock y del motor de conteos.
var _ stock.TxRunner = (*Store)(nil)
var _ stocktake.TxRunner = (*Store)(nil)

// Run ejecuta fn bajo el lock global; si falla, restaura la foto previa.
func (s *Store) Run(ctx context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.takeSnapshot()
	if err := fn(&balanceRepo{s: s}, &movementRepo{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// RunStockTake igual que Run, con el repositorio de conteos incluido.
func (s *Store) RunStockTake(ctx context.Context, fn func(
	stockTakeRepo repository.StockTakeRepository,
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.takeSnapshot()
	if err := fn(&stockTakeRepo{s: s}, &balanceRepo{s: s}, &movementRepo{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Constructores de repositorios para uso fuera de transacción (lecturas).
// Toman el lock por operación.
func (s *Store) Balances() repository.StockBalanceRepository {
	return &balanceRepo{s: s, lock: true}
}

func (s *Store) Movements() repository.StockMovementRepository {
	return &movementRepo{s: s, lock: true}
}

func (s *Store) StockTakes() repository.StockTakeRepository {
	return &stockTakeRepo{s: s, lock: true}
}

func (s *Store) Products() repository.ProductRepository   { return &productRepo{s: s} }
func (s *Store) Locations() repository.LocationRepository { return &locationRepo{s: s} }
func (s *Store) Users() repository.UserRepository         { return &userRepo{s: s} }
func (s *Store) Settings() repository.SettingsRepository  { return &settingsRepo{s: s} }

// Revocations lista de revocación en memoria (comportamiento de referencia:
// vive lo que vive el proceso).
func (s *Store) Revocations() repository.RevocationRepository { return &revocationRepo{s: s} }

// ── Saldos ────────────────────────────────────────────────────────────────────

type balanceRepo struct {
	s    *Store
	lock bool
}

func (r *balanceRepo) Get(productID, locationID int64) (*entity.StockBalance, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	if b, ok := r.s.balances[balanceKey{productID, locationID}]; ok {
		copia := b
		return &copia, nil
	}
	return &entity.StockBalance{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
}

// GetForUpdate en memoria equivale a Get: el lock global de la transacción ya
// serializa el ciclo leer-calcular-escribir.
func (r *balanceRepo) GetForUpdate(productID, locationID int64) (*entity.StockBalance, error) {
	return r.Get(productID, locationID)
}

func (r *balanceRepo) Upsert(balance *entity.StockBalance) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	r.s.balances[balanceKey{balance.ProductID, balance.LocationID}] = *balance
	return nil
}

func (r *balanceRepo) ListByProduct(productID int64) ([]*entity.StockBalance, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var out []*entity.StockBalance
	for k, b := range r.s.balances {
		if k.productID == productID {
			copia := b
			out = append(out, &copia)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

func (r *balanceRepo) ListByLocation(locationID int64) ([]*entity.StockBalance, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var out []*entity.StockBalance
	for k, b := range r.s.balances {
		if k.locationID == locationID {
			copia := b
			out = append(out, &copia)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *balanceRepo) SumByProduct(productID int64) (decimal.Decimal, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	total := decimal.Zero
	for k, b := range r.s.balances {
		if k.productID == productID {
			total = total.Add(b.Quantity)
		}
	}
	return total, nil
}

func (r *balanceRepo) ListLowStock(locationID int64) ([]*entity.LowStockItem, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var out []*entity.LowStockItem
	for k, b := range r.s.balances {
		if k.locationID != locationID {
			continue
		}
		p, ok := r.s.products[k.productID]
		if !ok || p.IsDeleted || !p.AlertQuantity.GreaterThan(decimal.Zero) {
			continue
		}
		if b.Quantity.LessThanOrEqual(p.AlertQuantity) {
			out = append(out, &entity.LowStockItem{
				ProductID:     p.ID,
				SKU:           p.SKU,
				Name:          p.Name,
				LocationID:    locationID,
				Quantity:      b.Quantity,
				AlertQuantity: p.AlertQuantity,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// ── Movimientos ───────────────────────────────────────────────────────────────

type movementRepo struct {
	s    *Store
	lock bool
}

func (r *movementRepo) Create(movement *entity.StockMovement) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	r.s.movements = append(r.s.movements, *movement)
	return nil
}

func (r *movementRepo) ListByProduct(productID int64, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var matched []*entity.StockMovement
	// Los movimientos se agregan en orden cronológico; recorremos al revés
	// para entregar los más recientes primero.
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		copia := m
		matched = append(matched, &copia)
	}
	if offset > 0 {
		if offset >= len(matched) {
			return nil, nil
		}
		matched = matched[offset:]
	}
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// ── Conteos físicos ───────────────────────────────────────────────────────────

type stockTakeRepo struct {
	s    *Store
	lock bool
}

func (r *stockTakeRepo) Create(stockTake *entity.StockTake) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	r.s.nextStockTakeID++
	stockTake.ID = r.s.nextStockTakeID
	r.s.stockTakes[stockTake.ID] = *stockTake
	return nil
}

func (r *stockTakeRepo) GetByID(id int64) (*entity.StockTake, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	if st, ok := r.s.stockTakes[id]; ok {
		copia := st
		return &copia, nil
	}
	return nil, nil
}

func (r *stockTakeRepo) GetForUpdate(id int64) (*entity.StockTake, error) {
	return r.GetByID(id)
}

func (r *stockTakeRepo) Update(stockTake *entity.StockTake) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	r.s.stockTakes[stockTake.ID] = *stockTake
	return nil
}

func (r *stockTakeRepo) List(locationID *int64, from, to *time.Time) ([]*entity.StockTake, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var out []*entity.StockTake
	for _, st := range r.s.stockTakes {
		if locationID != nil && st.LocationID != *locationID {
			continue
		}
		if from != nil && st.Date.Before(*from) {
			continue
		}
		if to != nil && st.Date.After(*to) {
			continue
		}
		copia := st
		out = append(out, &copia)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *stockTakeRepo) CreateDetails(details []*entity.StockTakeDetail) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	for _, d := range details {
		r.s.details[detailKey{d.StockTakeID, d.ProductID}] = *d
	}
	return nil
}

func (r *stockTakeRepo) GetDetail(stockTakeID, productID int64) (*entity.StockTakeDetail, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	if d, ok := r.s.details[detailKey{stockTakeID, productID}]; ok {
		copia := d
		return &copia, nil
	}
	return nil, nil
}

func (r *stockTakeRepo) UpdateDetail(detail *entity.StockTakeDetail) error {
	if r.lock {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	r.s.details[detailKey{detail.StockTakeID, detail.ProductID}] = *detail
	return nil
}

func (r *stockTakeRepo) ListDetails(stockTakeID int64) ([]*entity.StockTakeDetail, error) {
	if r.lock {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	var out []*entity.StockTakeDetail
	for k, d := range r.s.details {
		if k.stockTakeID == stockTakeID {
			copia := d
			out = append(out, &copia)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// ── Directorio ────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r *productRepo) GetByID(id int64) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if p, ok := r.s.products[id]; ok && !p.IsDeleted {
		copia := p
		return &copia, nil
	}
	return nil, nil
}

func (r *productRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.IsDeleted {
			continue
		}
		copia := p
		out = append(out, &copia)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type locationRepo struct{ s *Store }

func (r *locationRepo) GetByID(id int64) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if l, ok := r.s.locations[id]; ok && !l.IsDeleted {
		copia := l
		return &copia, nil
	}
	return nil, nil
}

func (r *locationRepo) ListByBusiness(businessID int64) ([]*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Location
	for _, l := range r.s.locations {
		if l.IsDeleted || l.BusinessID != businessID {
			continue
		}
		copia := l
		out = append(out, &copia)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) GetByID(id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.users[id]; ok {
		copia := u
		return &copia, nil
	}
	return nil, nil
}

func (r *userRepo) FindByUsername(username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			copia := u
			return &copia, nil
		}
	}
	return nil, nil
}

// ── Ajustes y revocación ──────────────────────────────────────────────────────

type settingsRepo struct{ s *Store }

func (r *settingsRepo) Get(key string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.settings[key], nil
}

func (r *settingsRepo) Set(key, value string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.settings[key] = value
	return nil
}

type revocationRepo struct{ s *Store }

func (r *revocationRepo) Revoke(tokenID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.revoked[tokenID] = at
	return nil
}

func (r *revocationRepo) IsRevoked(tokenID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.revoked[tokenID]
	return ok, nil
}
