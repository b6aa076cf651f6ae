package domain

import "time"

// Auditable is implemented by entities carrying creation/modification
// metadata. The unit of work stamps these on Add and Update, so no entity
// ever fills its own audit fields.
type Auditable interface {
	StampCreated(by string, at time.Time)
	StampModified(by string, at time.Time)
}

type AuditInfo struct {
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedBy string    `json:"modified_by"`
	ModifiedAt time.Time `json:"modified_at"`
}

func (a *AuditInfo) StampCreated(by string, at time.Time) {
	a.CreatedBy = by
	a.CreatedAt = at
	a.ModifiedBy = by
	a.ModifiedAt = at
}

func (a *AuditInfo) StampModified(by string, at time.Time) {
	a.ModifiedBy = by
	a.ModifiedAt = at
}
