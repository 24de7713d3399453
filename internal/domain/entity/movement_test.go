package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// Convención de signos del kardex: IN suma, OUT y TRF restan, ADJ pasa el
// delta tal cual (puede ser negativo).
func TestMovementType_ApplySign(t *testing.T) {
	five := decimal.NewFromInt(5)
	minusThree := decimal.NewFromInt(-3)

	assert.True(t, entity.MovementIN.ApplySign(five).Equal(decimal.NewFromInt(5)))
	assert.True(t, entity.MovementOUT.ApplySign(five).Equal(decimal.NewFromInt(-5)))
	assert.True(t, entity.MovementTRF.ApplySign(five).Equal(decimal.NewFromInt(-5)))
	assert.True(t, entity.MovementADJ.ApplySign(five).Equal(decimal.NewFromInt(5)))
	assert.True(t, entity.MovementADJ.ApplySign(minusThree).Equal(decimal.NewFromInt(-3)))
}

func TestMovementType_IsValid(t *testing.T) {
	assert.True(t, entity.MovementIN.IsValid())
	assert.True(t, entity.MovementOUT.IsValid())
	assert.True(t, entity.MovementADJ.IsValid())
	assert.True(t, entity.MovementTRF.IsValid())
	assert.False(t, entity.MovementType("TRANSFER").IsValid())
	assert.False(t, entity.MovementType("").IsValid())
}
