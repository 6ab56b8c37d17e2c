package models

// Seeded category names
const (
	CategoryFood           = "Food"
	CategoryTransportation = "Transportation"
	CategoryUtilities      = "Utilities"
	CategoryEntertainment  = "Entertainment"
	CategoryHealth         = "Health"
	CategoryAccount        = "Account"
)

// Seeded transaction type names
const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

// DefaultCategories is the fixed category set ensured by seeding
var DefaultCategories = []string{
	CategoryFood,
	CategoryTransportation,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealth,
	CategoryAccount,
}

// DefaultTypes is the fixed transaction type set ensured by seeding
var DefaultTypes = []string{TypeIncome, TypeExpense}

// Category is a reference row transactions are filed under
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Type tells whether a transaction is income or expense
type Type struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
