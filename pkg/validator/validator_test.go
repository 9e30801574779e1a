package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createBranchForm struct {
	BranchName string `validate:"required,max=100"`
	BranchCode string `validate:"required,max=20"`
	Capacity   int    `validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(createBranchForm{
		BranchName: "North Hub",
		BranchCode: "NH-01",
	})
	assert.Empty(t, errs)

	errs = ValidateStruct(createBranchForm{Capacity: -1})
	require.Len(t, errs, 3)
	assert.Equal(t, "createBranchForm.BranchName", errs[0].FailedField)
	assert.Equal(t, "required", errs[0].Tag)
}

func TestDescribe(t *testing.T) {
	errs := ValidateStruct(createBranchForm{
		BranchName: "North Hub",
		BranchCode: "this-code-is-way-too-long-for-the-column",
	})
	require.Len(t, errs, 1)

	msg := Describe(errs)
	assert.Contains(t, msg, "BranchCode")
	assert.Contains(t, msg, "max=20")
}
