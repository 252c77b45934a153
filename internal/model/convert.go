package model

import (
	"time"

	"github.com/pointward/backend/internal/entity"
)

func ConvertTransaction(tx *entity.Transaction) Transaction {
	return Transaction{
		ID:        tx.ID,
		Type:      string(tx.Type),
		Amount:    tx.Amount,
		Source:    string(tx.Source),
		SourceID:  tx.SourceID,
		Note:      tx.Note,
		CreatedAt: tx.CreatedAt.Format(time.RFC3339Nano),
	}
}

func ConvertWithdrawal(w *entity.Withdrawal) Withdrawal {
	result := Withdrawal{
		ID:              w.ID,
		UserID:          w.UserID,
		Amount:          w.Amount,
		AmountUSD:       w.AmountUSD,
		Method:          string(w.Method),
		Destination:     w.Destination,
		Status:          string(w.Status),
		ProcessedBy:     w.ProcessedBy,
		RejectionReason: w.RejectionReason,
		CreatedAt:       w.CreatedAt.Format(time.RFC3339Nano),
	}

	if !w.ProcessedAt.IsZero() {
		result.ProcessedAt = w.ProcessedAt.Format(time.RFC3339Nano)
	}

	return result
}

func ConvertMission(m *entity.Mission) Mission {
	return Mission{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		Points:        m.Points,
		RequiresProof: m.RequiresProof,
		Status:        string(m.Status),
	}
}
