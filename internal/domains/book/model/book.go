package model

// Book là entity duy nhất của catalog.
// ID do database cấp (BIGSERIAL), không đổi và không tái sử dụng.
type Book struct {
	ID          int64   `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Author      string  `json:"author" db:"author"`
	Year        *int    `json:"year" db:"year"`               // optional
	Description *string `json:"description" db:"description"` // optional
}

// DeleteBookResponse - DELETE /books/:id
type DeleteBookResponse struct {
	Message string `json:"message"`
}
