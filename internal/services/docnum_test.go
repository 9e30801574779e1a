package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stockflow-backend/internal/timeutil"
)

func TestFormatDocumentNumber(t *testing.T) {
	day := time.Date(2025, time.January, 15, 9, 30, 0, 0, timeutil.Loc)

	assert.Equal(t, "TR-20250115-0001", FormatDocumentNumber(DocTypeTransfer, day, 1))
	assert.Equal(t, "DS-20250115-0042", FormatDocumentNumber(DocTypeDispatch, day, 42))
	assert.Equal(t, "RS-20250115-12345", FormatDocumentNumber(DocTypeReceiving, day, 12345))
}

func TestFormatDocumentNumberUsesBusinessTimezone(t *testing.T) {
	// 18:00 UTC on Jan 15 is already Jan 16 in Manila.
	day := time.Date(2025, time.January, 15, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, "TR-20250116-0001", FormatDocumentNumber(DocTypeTransfer, day, 1))
}
