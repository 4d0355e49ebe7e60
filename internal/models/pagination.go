package models

// Pagination описывает страницу выборки.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ListResult - страница результатов вместе с пагинацией.
type ListResult[T any] struct {
	Results    []T        `json:"results"`
	Pagination Pagination `json:"pagination"`
}
