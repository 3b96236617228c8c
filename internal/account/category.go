package account

import "fmt"

// Category identifies one of the three independent leave balances.
type Category string

const (
	CategoryCasual Category = "CASUAL"
	CategorySick   Category = "SICK"
	CategoryPaid   Category = "PAID"
)

var balanceColumns = map[Category]string{
	CategoryCasual: "casual_balance",
	CategorySick:   "sick_balance",
	CategoryPaid:   "paid_balance",
}

// BalanceColumn resolves a category to its accounts column. The mapping is
// explicit and closed; SQL never sees an unchecked string.
func (c Category) BalanceColumn() (string, error) {
	col, ok := balanceColumns[c]
	if !ok {
		return "", fmt.Errorf("unknown leave category: %s", c)
	}
	return col, nil
}

func (c Category) Valid() bool {
	_, ok := balanceColumns[c]
	return ok
}

// ValidateCategoryMapping confirms every declared category resolves to a
// column. Called once at startup so a gap fails the process, not a request.
func ValidateCategoryMapping() error {
	for _, c := range []Category{CategoryCasual, CategorySick, CategoryPaid} {
		if _, err := c.BalanceColumn(); err != nil {
			return err
		}
	}
	return nil
}
