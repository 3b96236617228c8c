package account

type AccountResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type BalanceResponse struct {
	Casual int `json:"casual"`
	Sick   int `json:"sick"`
	Paid   int `json:"paid"`
}
