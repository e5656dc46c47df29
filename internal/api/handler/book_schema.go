package handler

type createBookRequest struct {
	Title       string `json:"title"        validate:"required"`
	Author      string `json:"author"       validate:"required"`
	ISBN        string `json:"isbn"         validate:"required"`
	TotalCopies int    `json:"total_copies" validate:"omitempty,gte=1"`
}

// updateBookRequest is a partial update. Nil pointers leave a field alone;
// add_copies moves total_copies and available_copies by the same delta and
// may be negative while enough unloaned copies remain.
type updateBookRequest struct {
	Title     *string `json:"title"      validate:"omitempty,min=1"`
	Author    *string `json:"author"     validate:"omitempty,min=1"`
	AddCopies int     `json:"add_copies"`
}
