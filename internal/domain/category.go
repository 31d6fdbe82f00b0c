package domain

type Category struct {
	ID   uint   `json:"category_id"`
	Name string `json:"name"`
}
