package account

import (
	"time"

	"github.com/google/uuid"
)

// Default balances granted to every account, restored by a ledger reset.
const (
	DefaultCasualBalance = 10
	DefaultSickBalance   = 8
	DefaultPaidBalance   = 12
)

type Account struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Username      string    `gorm:"column:username;type:varchar(50);not null;uniqueIndex"`
	Email         string    `gorm:"column:email;type:varchar(100);not null;uniqueIndex"`
	Password      string    `gorm:"column:password;type:varchar(255);not null"`
	Role          string    `gorm:"column:role;type:varchar(20);not null;default:EMPLOYEE"`
	CasualBalance int       `gorm:"column:casual_balance;not null;default:10"`
	SickBalance   int       `gorm:"column:sick_balance;not null;default:8"`
	PaidBalance   int       `gorm:"column:paid_balance;not null;default:12"`
	IsActive      bool      `gorm:"column:is_active;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}

// BalanceFor returns the remaining balance for a category. Unknown
// categories are rejected at binding time, so the fallback is zero.
func (a Account) BalanceFor(c Category) int {
	switch c {
	case CategoryCasual:
		return a.CasualBalance
	case CategorySick:
		return a.SickBalance
	case CategoryPaid:
		return a.PaidBalance
	}
	return 0
}
