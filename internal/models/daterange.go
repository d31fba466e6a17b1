package models

// DateRange is an inclusive pair of ISO calendar dates.
type DateRange struct {
	StartDate string `json:"startDate" yaml:"startDate"`
	EndDate   string `json:"endDate" yaml:"endDate"`
}
