// Package testutil provee repositorios in-memory y un TxRunner sin BD para
// tests de casos de uso. Las implementaciones replican el contrato de los
// repos de postgres (nil para no encontrado, guardia de transición en
// UpdateStatus, seq consecutivo en auditoría) sin transaccionalidad real.
package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

var (
	_ repository.MovementRepository      = (*MovementRepo)(nil)
	_ repository.StockUnitRepository     = (*StockRepo)(nil)
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.BranchRepository        = (*BranchRepo)(nil)
	_ repository.SalesOrderRepository    = (*SalesOrderRepo)(nil)
	_ repository.SaleRepository          = (*SaleRepo)(nil)
	_ repository.PurchaseOrderRepository = (*PurchaseRepo)(nil)
	_ repository.SalesReturnRepository   = (*ReturnRepo)(nil)
	_ repository.StockTakeRepository     = (*StockTakeRepo)(nil)
	_ repository.CashSessionRepository   = (*SessionRepo)(nil)
)

// Store agrupa los repos in-memory de un test.
type Store struct {
	Movements *MovementRepo
	Stock     *StockRepo
	Products  *ProductRepo
	Branches  *BranchRepo
	Orders    *SalesOrderRepo
	Sales     *SaleRepo
	Purchases *PurchaseRepo
	Returns   *ReturnRepo
	Takes     *StockTakeRepo
	Sessions  *SessionRepo
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		Movements: &MovementRepo{},
		Stock:     &StockRepo{units: map[string]*entity.StockUnit{}},
		Products:  &ProductRepo{items: map[string]*entity.Product{}},
		Branches:  &BranchRepo{items: map[string]*entity.Branch{}},
		Orders:    &SalesOrderRepo{items: map[string]*entity.SalesOrder{}},
		Sales:     &SaleRepo{items: map[string]*entity.Sale{}},
		Purchases: &PurchaseRepo{items: map[string]*entity.PurchaseOrder{}},
		Returns:   &ReturnRepo{items: map[string]*entity.SalesReturn{}},
		Takes:     &StockTakeRepo{items: map[string]*entity.StockTake{}},
		Sessions:  &SessionRepo{items: map[string]*entity.CashSession{}},
	}
}

// Runner devuelve un TxRunner fake sobre los repos del store.
func (s *Store) Runner() *TxRunner {
	return &TxRunner{store: s}
}

// TxRunner ejecuta los callbacks directamente contra los repos in-memory,
// sin transacción: suficiente para probar la lógica de los casos de uso.
type TxRunner struct {
	store *Store
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockUnitRepository,
) error) error {
	return fn(r.store.Movements, r.store.Stock)
}

func (r *TxRunner) RunSales(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockUnitRepository,
	orderRepo repository.SalesOrderRepository,
) error) error {
	return fn(r.store.Movements, r.store.Stock, r.store.Orders)
}

func (r *TxRunner) RunPOS(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockUnitRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return fn(r.store.Movements, r.store.Stock, r.store.Sales)
}

func (r *TxRunner) RunPurchasing(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockUnitRepository,
	purchaseRepo repository.PurchaseOrderRepository,
) error) error {
	return fn(r.store.Movements, r.store.Stock, r.store.Purchases)
}

func (r *TxRunner) RunReturns(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockUnitRepository,
	returnRepo repository.SalesReturnRepository,
) error) error {
	return fn(r.store.Movements, r.store.Stock, r.store.Returns)
}

func (r *TxRunner) RunStockTake(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockUnitRepository,
	takeRepo repository.StockTakeRepository,
) error) error {
	return fn(r.store.Movements, r.store.Stock, r.store.Takes)
}

func (r *TxRunner) RunSession(ctx context.Context, fn func(
	sessionRepo repository.CashSessionRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return fn(r.store.Sessions, r.store.Sales)
}

// MovementRepo kardex in-memory append-only.
type MovementRepo struct {
	mu   sync.Mutex
	list []*entity.Movement
}

func (r *MovementRepo) Create(m *entity.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	cp := *m
	r.list = append(r.list, &cp)
	return nil
}

func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.list {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) List(productID, branchID string, limit int) ([]*entity.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Movement
	for i := len(r.list) - 1; i >= 0; i-- {
		m := r.list[i]
		if productID != "" && m.ProductID != productID {
			continue
		}
		if branchID != "" && m.BranchID != branchID {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *MovementRepo) ListByReference(referenceID string) ([]*entity.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Movement
	for _, m := range r.list {
		if m.ReferenceID == referenceID {
			out = append(out, m)
		}
	}
	return out, nil
}

// All devuelve todos los asientos en orden de inserción (solo tests).
func (r *MovementRepo) All() []*entity.Movement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.Movement(nil), r.list...)
}

// StockRepo unidades de stock in-memory.
type StockRepo struct {
	mu    sync.Mutex
	units map[string]*entity.StockUnit
}

func stockKey(productID, branchID string) string { return productID + "|" + branchID }

func (r *StockRepo) Get(productID, branchID string) (*entity.StockUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.units[stockKey(productID, branchID)]; ok {
		cp := *u
		return &cp, nil
	}
	return &entity.StockUnit{ProductID: productID, BranchID: branchID, Quantity: decimal.Zero}, nil
}

func (r *StockRepo) GetForUpdate(productID, branchID string) (*entity.StockUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stockKey(productID, branchID)
	if _, ok := r.units[key]; !ok {
		r.units[key] = &entity.StockUnit{ProductID: productID, BranchID: branchID, Quantity: decimal.Zero}
	}
	cp := *r.units[key]
	return &cp, nil
}

func (r *StockRepo) Upsert(unit *entity.StockUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *unit
	r.units[stockKey(unit.ProductID, unit.BranchID)] = &cp
	return nil
}

func (r *StockRepo) ListPositiveByBranch(branchID string) ([]*entity.StockUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockUnit
	for _, u := range r.units {
		if u.BranchID == branchID && u.Quantity.GreaterThan(decimal.Zero) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Seed fija la cantidad de una unidad sin pasar por el ledger (solo tests).
func (r *StockRepo) Seed(productID, branchID string, qty decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units[stockKey(productID, branchID)] = &entity.StockUnit{
		ProductID: productID, BranchID: branchID, Quantity: qty,
	}
}

// ProductRepo catálogo in-memory.
type ProductRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Product
}

func (r *ProductRepo) Create(p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = p
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id], nil
}

func (r *ProductRepo) ListByCompany(companyID string) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.items {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

// BranchRepo sucursales in-memory.
type BranchRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Branch
}

func (r *BranchRepo) Create(b *entity.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[b.ID] = b
	return nil
}

func (r *BranchRepo) GetByID(id string) (*entity.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id], nil
}

func (r *BranchRepo) ListByCompany(companyID string) ([]*entity.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Branch
	for _, b := range r.items {
		if b.CompanyID == companyID {
			out = append(out, b)
		}
	}
	return out, nil
}

// updateStatusGuarded replica la guardia de transición de los repos SQL.
func updateStatusGuarded(current *string, exists bool, from, to string) error {
	if !exists {
		return domain.ErrNotFound
	}
	if *current != from {
		return domain.ErrInvalidState
	}
	*current = to
	return nil
}

// SalesOrderRepo pedidos in-memory.
type SalesOrderRepo struct {
	mu    sync.Mutex
	items map[string]*entity.SalesOrder
}

func (r *SalesOrderRepo) Create(o *entity.SalesOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	r.items[o.ID] = o
	return nil
}

func (r *SalesOrderRepo) GetByID(id string) (*entity.SalesOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id], nil
}

func (r *SalesOrderRepo) UpdateStatus(id, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	return updateStatusGuarded(&o.Status, true, from, to)
}

// SaleRepo ventas in-memory con pagos.
type SaleRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Sale
}

func (r *SaleRepo) Create(s *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	r.items[s.ID] = s
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id], nil
}

func (r *SaleRepo) UpdateStatus(id, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	return updateStatusGuarded(&s.Status, true, from, to)
}

func (r *SaleRepo) SumCashBySession(sessionID string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, s := range r.items {
		if s.Status != entity.SaleStatusCompleted {
			continue
		}
		for _, p := range s.Payments {
			if p.Method == entity.PaymentMethodCash && p.SessionID == sessionID {
				sum = sum.Add(p.Amount)
			}
		}
	}
	return sum, nil
}

func (r *SaleRepo) PaymentTotalsBySession(sessionID string) (*repository.SessionPaymentTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &repository.SessionPaymentTotals{
		Cash:   decimal.Zero,
		Card:   decimal.Zero,
		Credit: decimal.Zero,
	}
	for _, s := range r.items {
		if s.Status != entity.SaleStatusCompleted {
			continue
		}
		inSession := false
		for _, p := range s.Payments {
			if p.SessionID == sessionID && sessionID != "" {
				inSession = true
				break
			}
		}
		if !inSession {
			continue
		}
		t.TxCount++
		for _, p := range s.Payments {
			switch p.Method {
			case entity.PaymentMethodCash:
				t.Cash = t.Cash.Add(p.Amount)
			case entity.PaymentMethodCard:
				t.Card = t.Card.Add(p.Amount)
			case entity.PaymentMethodCredit:
				t.Credit = t.Credit.Add(p.Amount)
			}
		}
	}
	return t, nil
}

// PurchaseRepo órdenes de compra in-memory.
type PurchaseRepo struct {
	mu    sync.Mutex
	items map[string]*entity.PurchaseOrder
}

func (r *PurchaseRepo) Create(p *entity.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	r.items[p.ID] = p
	return nil
}

func (r *PurchaseRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id], nil
}

func (r *PurchaseRepo) UpdateStatus(id, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	return updateStatusGuarded(&p.Status, true, from, to)
}

// ReturnRepo devoluciones in-memory.
type ReturnRepo struct {
	mu    sync.Mutex
	items map[string]*entity.SalesReturn
}

func (r *ReturnRepo) Create(ret *entity.SalesReturn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ret.ID == "" {
		ret.ID = uuid.New().String()
	}
	r.items[ret.ID] = ret
	return nil
}

func (r *ReturnRepo) GetByID(id string) (*entity.SalesReturn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id], nil
}

func (r *ReturnRepo) UpdateStatus(id, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	return updateStatusGuarded(&ret.Status, true, from, to)
}

// StockTakeRepo tomas de inventario in-memory.
type StockTakeRepo struct {
	mu    sync.Mutex
	items map[string]*entity.StockTake
}

func (r *StockTakeRepo) Create(st *entity.StockTake) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	r.items[st.ID] = st
	return nil
}

func (r *StockTakeRepo) GetByID(id string) (*entity.StockTake, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id], nil
}

func (r *StockTakeRepo) UpdateItem(item *entity.StockTakeItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.items[item.StockTakeID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range st.Items {
		if st.Items[i].ID == item.ID {
			st.Items[i] = *item
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *StockTakeRepo) UpdateStatus(id string, from, to entity.StockTakeStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if st.Status != from {
		return domain.ErrInvalidState
	}
	st.Status = to
	return nil
}

// SessionRepo sesiones de caja in-memory con auditoría.
type SessionRepo struct {
	mu     sync.Mutex
	items  map[string]*entity.CashSession
	audits []*entity.SessionAuditRecord
}

func (r *SessionRepo) Create(s *entity.CashSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	cp := *s
	r.items[s.ID] = &cp
	return nil
}

func (r *SessionRepo) GetByID(id string) (*entity.CashSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.items[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *SessionRepo) GetForUpdate(id string) (*entity.CashSession, error) {
	return r.GetByID(id)
}

func (r *SessionRepo) FindOpenByBranchUser(branchID, userID string) (*entity.CashSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.items {
		if s.BranchID == branchID && s.UserID == userID && s.Status == entity.SessionStatusOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *SessionRepo) FindOpenByBranch(branchID string) (*entity.CashSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.items {
		if s.BranchID == branchID && s.Status == entity.SessionStatusOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *SessionRepo) Update(s *entity.CashSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	r.items[s.ID] = &cp
	return nil
}

func (r *SessionRepo) AppendAudit(rec *entity.SessionAuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	seq := 0
	for _, a := range r.audits {
		if a.SessionID == rec.SessionID && a.Seq > seq {
			seq = a.Seq
		}
	}
	rec.Seq = seq + 1
	cp := *rec
	r.audits = append(r.audits, &cp)
	return nil
}

func (r *SessionRepo) ListAudits(sessionID string) ([]*entity.SessionAuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.SessionAuditRecord
	for _, a := range r.audits {
		if a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	return out, nil
}
