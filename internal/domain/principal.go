package domain

// User is the authenticated customer record returned by the backend after
// credential validation.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// Admin is the authenticated back-office principal.
type Admin struct {
	ID       string `json:"admin_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Stats is the admin dashboard summary returned by the backend.
type Stats struct {
	TotalProducts int     `json:"total_products"`
	TotalOrders   int     `json:"total_orders"`
	PendingOrders int     `json:"pending_orders"`
	Revenue       float64 `json:"revenue"`
}
