package models

import "time"

// Customer is a buyer managed by the vendor
type Customer struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex:idx_customers_email"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   string  `json:"email" binding:"required,email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// CustomerFilters represents filters for customer queries
type CustomerFilters struct {
	Search string
}

// CustomerResponse represents a single customer response
type CustomerResponse struct {
	Success bool      `json:"success"`
	Data    *Customer `json:"data"`
}

// CustomerListResponse represents a list of customers response
type CustomerListResponse struct {
	Success    bool            `json:"success"`
	Data       []Customer      `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

// DeleteCustomerResponse mirrors the deleted record back to the caller
type DeleteCustomerResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Customer *Customer `json:"customer"`
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
