package domain

import "context"

// CategoryType classifies the counterparty of a category
type CategoryType string

const (
	CategoryTypeMinijob    CategoryType = "Minijob"
	CategoryTypeFreelance  CategoryType = "Freelance"
	CategoryTypeCommission CategoryType = "Commission"
	CategoryTypeExpenses   CategoryType = "Expenses"
)

// CategoryTypes lists every accepted category type
var CategoryTypes = []CategoryType{
	CategoryTypeMinijob,
	CategoryTypeFreelance,
	CategoryTypeCommission,
	CategoryTypeExpenses,
}

// Valid reports whether t is a known category type
func (t CategoryType) Valid() bool {
	for _, ct := range CategoryTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// Category groups movements by counterparty
type Category struct {
	ID           int32        `json:"id"`
	UserID       int32        `json:"user_id"`
	Type         CategoryType `json:"category_type"`
	Counterparty string       `json:"counterparty"`
}

// CategoryFilter narrows a category listing
type CategoryFilter struct {
	Type *CategoryType
	Page Page
}

// CategoryRepository defines the interface for category persistence operations.
// Every query is scoped to the owning user.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, userID, id int32) (*Category, error)
	List(ctx context.Context, userID int32, filter CategoryFilter) ([]*Category, error)
	Count(ctx context.Context, userID int32) (int64, error)
	Update(ctx context.Context, category *Category) (*Category, error)
	Delete(ctx context.Context, userID, id int32) error
}
