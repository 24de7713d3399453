package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

func TestSale_HasCreditPayment(t *testing.T) {
	sale := entity.Sale{
		Payments: []entity.Payment{
			{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(50)},
			{Method: entity.PaymentMethodCard, Amount: decimal.NewFromInt(30)},
		},
	}
	assert.False(t, sale.HasCreditPayment())

	sale.Payments = append(sale.Payments, entity.Payment{
		Method: entity.PaymentMethodCredit, Amount: decimal.NewFromInt(20),
	})
	assert.True(t, sale.HasCreditPayment())
}

// La cantidad vendida de un producto suma todas sus líneas en la venta.
func TestSale_QuantitySold(t *testing.T) {
	sale := entity.Sale{
		Lines: []entity.SaleLine{
			{ProductID: "p1", Quantity: decimal.NewFromInt(2)},
			{ProductID: "p2", Quantity: decimal.NewFromInt(1)},
			{ProductID: "p1", Quantity: decimal.NewFromInt(3)},
		},
	}
	assert.True(t, sale.QuantitySold("p1").Equal(decimal.NewFromInt(5)))
	assert.True(t, sale.QuantitySold("p2").Equal(decimal.NewFromInt(1)))
	assert.True(t, sale.QuantitySold("p3").IsZero())
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, entity.ValidPaymentMethod(entity.PaymentMethodCash))
	assert.True(t, entity.ValidPaymentMethod(entity.PaymentMethodCard))
	assert.True(t, entity.ValidPaymentMethod(entity.PaymentMethodCredit))
	assert.False(t, entity.ValidPaymentMethod("CHEQUE"))
	assert.False(t, entity.ValidPaymentMethod(""))
}
