package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse respuesta de error uniforme de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RegisterRequest registro de usuario.
type RegisterRequest struct {
	CompanyID string `json:"company_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}

// LoginRequest login con email y password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse usuario sin campos sensibles.
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse token JWT + usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RegisterMovementRequest movimiento manual de kardex.
type RegisterMovementRequest struct {
	ProductID string          `json:"product_id"`
	BranchID  string          `json:"branch_id"`
	Type      string          `json:"type"`     // IN | OUT | ADJ
	Quantity  decimal.Decimal `json:"quantity"` // magnitud para IN/OUT, delta con signo para ADJ
	Reason    string          `json:"reason"`
}

// MovementResponse asiento de kardex.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	BranchID      string          `json:"branch_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StockResponse cantidad actual de un par (producto, sucursal).
type StockResponse struct {
	ProductID string          `json:"product_id"`
	BranchID  string          `json:"branch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// OrderLineRequest línea de pedido o de venta.
type OrderLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest creación de pedido en borrador.
type CreateOrderRequest struct {
	BranchID   string             `json:"branch_id"`
	CustomerID string             `json:"customer_id"`
	Lines      []OrderLineRequest `json:"lines"`
}

// PaymentRequest pago de una venta POS.
type PaymentRequest struct {
	Method string          `json:"method"` // CASH | CARD | CREDIT
	Amount decimal.Decimal `json:"amount"`
}

// CheckoutRequest venta POS inmediata.
type CheckoutRequest struct {
	BranchID string             `json:"branch_id"`
	Lines    []OrderLineRequest `json:"lines"`
	Payments []PaymentRequest   `json:"payments"`
}

// PurchaseLineRequest línea de orden de compra.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseRequest creación de orden de compra.
type CreatePurchaseRequest struct {
	BranchID   string                `json:"branch_id"`
	SupplierID string                `json:"supplier_id"`
	Lines      []PurchaseLineRequest `json:"lines"`
}

// ReturnLineRequest línea de devolución.
type ReturnLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateReturnRequest creación de devolución sobre una venta.
type CreateReturnRequest struct {
	SaleID string              `json:"sale_id"`
	Reason string              `json:"reason"`
	Lines  []ReturnLineRequest `json:"lines"`
}

// CreateStockTakeRequest creación de toma de inventario por sucursal.
type CreateStockTakeRequest struct {
	BranchID string `json:"branch_id"`
}

// StockTakeCountRequest conteo de un ítem.
type StockTakeCountRequest struct {
	ItemID     string          `json:"item_id"`
	CountedQty decimal.Decimal `json:"counted_qty"`
}

// UpdateStockTakeCountsRequest conteos incrementales de una toma.
type UpdateStockTakeCountsRequest struct {
	Counts []StockTakeCountRequest `json:"counts"`
}

// OpenSessionRequest apertura de caja.
type OpenSessionRequest struct {
	BranchID      string          `json:"branch_id"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// CloseSessionRequest cierre de caja con el conteo humano.
type CloseSessionRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount"`
	Note          string          `json:"note"`
}

// ReopenSessionRequest reapertura de caja (requiere razón).
type ReopenSessionRequest struct {
	Reason string `json:"reason"`
}

// OrderLineResponse línea de pedido.
type OrderLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderResponse pedido de venta.
type OrderResponse struct {
	ID         string              `json:"id"`
	BranchID   string              `json:"branch_id"`
	CustomerID string              `json:"customer_id,omitempty"`
	Status     string              `json:"status"`
	Lines      []OrderLineResponse `json:"lines"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// PaymentResponse pago de una venta.
type PaymentResponse struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id,omitempty"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
}

// SaleResponse venta POS con líneas y pagos.
type SaleResponse struct {
	ID       string              `json:"id"`
	BranchID string              `json:"branch_id"`
	Status   string              `json:"status"`
	Lines    []OrderLineResponse `json:"lines"`
	Payments []PaymentResponse   `json:"payments"`
	Total    decimal.Decimal     `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
}

// PurchaseLineResponse línea de orden de compra.
type PurchaseLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// PurchaseResponse orden de compra.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	BranchID   string                 `json:"branch_id"`
	SupplierID string                 `json:"supplier_id,omitempty"`
	Status     string                 `json:"status"`
	Lines      []PurchaseLineResponse `json:"lines"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// ReturnLineResponse línea de devolución.
type ReturnLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ReturnResponse devolución de venta.
type ReturnResponse struct {
	ID        string               `json:"id"`
	SaleID    string               `json:"sale_id"`
	BranchID  string               `json:"branch_id"`
	Status    string               `json:"status"`
	Reason    string               `json:"reason,omitempty"`
	Lines     []ReturnLineResponse `json:"lines"`
	CreatedAt time.Time            `json:"created_at"`
}

// StockTakeItemResponse ítem de toma: foto del sistema + conteo físico.
type StockTakeItemResponse struct {
	ID         string           `json:"id"`
	ProductID  string           `json:"product_id"`
	SystemQty  decimal.Decimal  `json:"system_qty"`
	CountedQty *decimal.Decimal `json:"counted_qty,omitempty"`
	Difference decimal.Decimal  `json:"difference"`
	CountedAt  *time.Time       `json:"counted_at,omitempty"`
}

// StockTakeResponse toma de inventario.
type StockTakeResponse struct {
	ID        string                  `json:"id"`
	BranchID  string                  `json:"branch_id"`
	Status    string                  `json:"status"`
	Items     []StockTakeItemResponse `json:"items"`
	CreatedAt time.Time               `json:"created_at"`
	ClosedAt  *time.Time              `json:"closed_at,omitempty"`
}

// SessionResponse sesión de caja.
type SessionResponse struct {
	ID             string          `json:"id"`
	BranchID       string          `json:"branch_id"`
	UserID         string          `json:"user_id"`
	Status         string          `json:"status"`
	OpeningAmount  decimal.Decimal `json:"opening_amount"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	CountedAmount  decimal.Decimal `json:"counted_amount"`
	OverShort      decimal.Decimal `json:"over_short"`
	OpenedAt       time.Time       `json:"opened_at"`
	ClosedAt       *time.Time      `json:"closed_at,omitempty"`
}

// SessionAuditResponse registro de auditoría de cierre/reapertura.
type SessionAuditResponse struct {
	Seq            int             `json:"seq"`
	Type           string          `json:"type"`
	ActorID        string          `json:"actor_id"`
	Reason         string          `json:"reason,omitempty"`
	CashTotal      decimal.Decimal `json:"cash_total"`
	CardTotal      decimal.Decimal `json:"card_total"`
	CreditTotal    decimal.Decimal `json:"credit_total"`
	TxCount        int             `json:"tx_count"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	CountedAmount  decimal.Decimal `json:"counted_amount"`
	OverShort      decimal.Decimal `json:"over_short"`
	CreatedAt      time.Time       `json:"created_at"`
}
