package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscrepancyDifference(t *testing.T) {
	short := &StockDiscrepancy{ExpectedQuantity: 10, ActualQuantity: 7}
	assert.Equal(t, -3, short.Difference())

	over := &StockDiscrepancy{ExpectedQuantity: 10, ActualQuantity: 12}
	assert.Equal(t, 2, over.Difference())
}

func TestDiscrepancyEnumsValid(t *testing.T) {
	assert.True(t, DiscrepancyDamage.Valid())
	assert.True(t, DiscrepancyTheft.Valid())
	assert.False(t, DiscrepancyType("GREMLINS").Valid())

	assert.True(t, DiscrepancyInvestigating.Valid())
	assert.False(t, DiscrepancyStatus("SHELVED").Valid())
}

func TestArrivalConditionValid(t *testing.T) {
	assert.True(t, ConditionGood.Valid())
	assert.True(t, ConditionPartialDamage.Valid())
	assert.False(t, ArrivalCondition("WET").Valid())
}
