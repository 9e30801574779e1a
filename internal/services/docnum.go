package services

import (
	"fmt"
	"time"

	"stockflow-backend/internal/timeutil"
)

// Document type codes used with Tx.NextDocumentNumber.
const (
	DocTypeTransfer  = "TR"
	DocTypeDispatch  = "DS"
	DocTypeReceiving = "RS"
)

// FormatDocumentNumber renders TR-20250115-0001 style numbers from a
// per-day sequence value.
func FormatDocumentNumber(docType string, day time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", docType, day.In(timeutil.Loc).Format(timeutil.SeqDateLayout), seq)
}
