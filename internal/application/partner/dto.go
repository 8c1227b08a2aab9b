package partner

import (
	"time"

	"github.com/goldbook/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Supplier DTOs
// =============================================================================

// CreateSupplierRequest represents a request to create a new supplier
type CreateSupplierRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=200"`
	ContactPerson string `json:"contact_person" binding:"max=100"`
	Phone         string `json:"phone" binding:"max=50"`
	Email         string `json:"email" binding:"omitempty,email,max=200"`
	Address       string `json:"address" binding:"max=500"`
	GSTNumber     string `json:"gst_number" binding:"max=50"`
}

// UpdateSupplierRequest represents a request to update a supplier. Nil
// fields keep their current value.
type UpdateSupplierRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactPerson *string `json:"contact_person" binding:"omitempty,max=100"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	Email         *string `json:"email" binding:"omitempty,email,max=200"`
	Address       *string `json:"address" binding:"omitempty,max=500"`
	GSTNumber     *string `json:"gst_number" binding:"omitempty,max=50"`
	IsActive      *bool   `json:"is_active"`
}

// ListFilter narrows a supplier or karigar listing
type ListFilter struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=1000"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	ContactPerson string          `json:"contact_person"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	GSTNumber     string          `json:"gst_number"`
	IsActive      bool            `json:"is_active"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToSupplierResponse converts a supplier to a response
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            int64(s.ID),
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		GSTNumber:     s.GSTNumber,
		IsActive:      s.IsActive,
		Balance:       s.Balance,
		CreatedAt:     s.CreatedAt,
	}
}

// ToSupplierResponses converts suppliers to responses
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = ToSupplierResponse(&suppliers[i])
	}
	return out
}

// =============================================================================
// Karigar DTOs
// =============================================================================

// CreateKarigarRequest represents a request to register a karigar
type CreateKarigarRequest struct {
	FullName       string     `json:"full_name" binding:"required,min=1,max=200"`
	Specialization string     `json:"specialization" binding:"max=100"`
	Phone          string     `json:"phone" binding:"max=50"`
	Address        string     `json:"address" binding:"max=500"`
	BankDetails    string     `json:"bank_details" binding:"max=500"`
	JoinedDate     *time.Time `json:"joined_date"`
}

// UpdateKarigarRequest represents a request to update a karigar. Nil
// fields keep their current value.
type UpdateKarigarRequest struct {
	FullName       *string    `json:"full_name" binding:"omitempty,min=1,max=200"`
	Specialization *string    `json:"specialization" binding:"omitempty,max=100"`
	Phone          *string    `json:"phone" binding:"omitempty,max=50"`
	Address        *string    `json:"address" binding:"omitempty,max=500"`
	BankDetails    *string    `json:"bank_details" binding:"omitempty,max=500"`
	JoinedDate     *time.Time `json:"joined_date"`
	IsActive       *bool      `json:"is_active"`
}

// KarigarResponse represents a karigar in API responses
type KarigarResponse struct {
	ID             int64      `json:"id"`
	FullName       string     `json:"full_name"`
	Label          string     `json:"label"`
	Specialization string     `json:"specialization"`
	Phone          string     `json:"phone"`
	Address        string     `json:"address"`
	BankDetails    string     `json:"bank_details"`
	JoinedDate     *time.Time `json:"joined_date"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToKarigarResponse converts a karigar to a response
func ToKarigarResponse(k *partner.Karigar) KarigarResponse {
	return KarigarResponse{
		ID:             int64(k.ID),
		FullName:       k.FullName,
		Label:          k.Label(),
		Specialization: k.Specialization,
		Phone:          k.Phone,
		Address:        k.Address,
		BankDetails:    k.BankDetails,
		JoinedDate:     k.JoinedDate,
		IsActive:       k.IsActive,
		CreatedAt:      k.CreatedAt,
	}
}

// ToKarigarResponses converts karigars to responses
func ToKarigarResponses(karigars []partner.Karigar) []KarigarResponse {
	out := make([]KarigarResponse, len(karigars))
	for i := range karigars {
		out[i] = ToKarigarResponse(&karigars[i])
	}
	return out
}

func pick(v *string, current string) string {
	if v != nil {
		return *v
	}
	return current
}
