package model

// MaxCategoryNameLength caps user-entered category names.
const MaxCategoryNameLength = 40

// Category represents an expense category.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	IsSystem  bool   `json:"isSystem"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// UnknownCategoryName is the placeholder used when a record's categoryId no
// longer resolves. Records can outlive the category they reference.
const UnknownCategoryName = "Unknown Category"

// UnknownAccountName is the placeholder for dangling account references.
const UnknownAccountName = "Unknown Account"
