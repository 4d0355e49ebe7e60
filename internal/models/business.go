package models

// Business - запись внешнего реестра бизнесов. Ядру нужен только владелец.
type Business struct {
	ID      string `json:"id"`
	Name    string `json:"businessName"`
	OwnerID string `json:"owner"`
}
