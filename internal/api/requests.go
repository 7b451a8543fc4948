package api

import "github.com/MRamiBalles/PocketOffice/server/internal/domain/office"

type speedRequest struct {
	Multiplier float64 `json:"multiplier" validate:"gt=0"`
}

type hireRequest struct {
	CandidateID string `json:"candidate_id" validate:"required"`
}

type assignRequest struct {
	EmployeeIDs []string `json:"employee_ids" validate:"required,min=1,dive,required"`
}

type resolveRequest struct {
	Choice *int `json:"choice" validate:"required,min=0"`
}

type amountRequest struct {
	Amount int64 `json:"amount" validate:"gt=0"`
}

type roomRequest struct {
	X    int             `json:"x" validate:"min=0"`
	Y    int             `json:"y" validate:"min=0"`
	Type office.RoomType `json:"type" validate:"required"`
}
