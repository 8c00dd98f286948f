package dto

import "tradeidea/internal/entity"

// GetPositionsParam filters the positions query. At least one filter must
// be set.
type GetPositionsParam struct {
	IDs     []uint
	UserIDs []uint
	Symbols []string
	Status  *entity.PositionStatus
}

// GetIdeasParam filters the ideas query. At least one filter must be set.
type GetIdeasParam struct {
	IDs     []uint
	Symbols []string
	Status  *entity.IdeaStatus
}
