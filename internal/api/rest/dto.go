package rest

import "time"

// IssueBatchRequest is the body of POST /api/v1/batches
type IssueBatchRequest struct {
	Description string              `json:"description"`
	Requests    []PrizeRequestEntry `json:"requests" binding:"required"`
}

// PrizeRequestEntry asks for tokens of one prize
type PrizeRequestEntry struct {
	PrizeID      string `json:"prize_id" binding:"required"`
	Count        int    `json:"count"`
	ValidityDays int    `json:"validity_days"`
	RetryPair    bool   `json:"retry_pair"`
}

// IssueBatchResponse is the result of a successful issuance
type IssueBatchResponse struct {
	Batch   BatchDTO       `json:"batch"`
	Tokens  int            `json:"tokens"`
	Emitted map[string]int `json:"emitted"`
}

// BatchDTO is the wire shape of a batch
type BatchDTO struct {
	ID             string     `json:"id"`
	Description    string     `json:"description,omitempty"`
	FunctionalDate *time.Time `json:"functional_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
