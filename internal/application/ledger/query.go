package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// defaultKardexLimit acota el listado de kardex cuando el caller no pide un límite.
const defaultKardexLimit = 50

// StockQueryUseCase consultas de solo lectura sobre el ledger: cantidad
// actual y kardex. Leen el cache y el historial directamente del pool,
// sin transacción.
type StockQueryUseCase struct {
	stockRepo repository.StockUnitRepository
	movRepo   repository.MovementRepository
}

// NewStockQueryUseCase construye el caso de uso de consulta.
func NewStockQueryUseCase(stockRepo repository.StockUnitRepository, movRepo repository.MovementRepository) *StockQueryUseCase {
	return &StockQueryUseCase{stockRepo: stockRepo, movRepo: movRepo}
}

// GetCurrentStock devuelve la cantidad cacheada del par (producto, sucursal);
// 0 si la unidad nunca fue tocada. Nunca reproduce el historial: el cache es
// la respuesta, y mantenerlo igual a la suma de movimientos es trabajo del
// ledger, no de esta consulta.
func (uc *StockQueryUseCase) GetCurrentStock(productID, branchID string) (decimal.Decimal, error) {
	unit, err := uc.stockRepo.Get(productID, branchID)
	if err != nil {
		return decimal.Zero, err
	}
	return unit.Quantity, nil
}

// ListMovements devuelve el kardex del más reciente al más antiguo,
// opcionalmente filtrado por producto y/o sucursal.
func (uc *StockQueryUseCase) ListMovements(productID, branchID string, limit int) ([]*entity.Movement, error) {
	if limit <= 0 {
		limit = defaultKardexLimit
	}
	return uc.movRepo.List(productID, branchID, limit)
}
