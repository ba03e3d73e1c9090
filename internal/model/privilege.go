package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "loan:approve"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Approve Loan"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Equipment management
	{Code: "equipment:view", Name: "View Equipment"},
	{Code: "equipment:create", Name: "Create Equipment"},
	{Code: "equipment:update", Name: "Update Equipment"},
	{Code: "equipment:delete", Name: "Delete Equipment"},
	// Category management
	{Code: "category:view", Name: "View Category"},
	{Code: "category:create", Name: "Create Category"},
	// Loan lifecycle
	{Code: "loan:view", Name: "View All Loans"},
	{Code: "loan:request", Name: "Request Loan"},
	{Code: "loan:approve", Name: "Approve/Reject Loan"},
	// Return lifecycle
	{Code: "return:view", Name: "View All Returns"},
	{Code: "return:request", Name: "Request Return"},
	{Code: "return:approve", Name: "Approve Return"},
	{Code: "fine:pay", Name: "Record Fine Payment"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}

// StaffPrivilegeCodes lists what the PETUGAS role receives by default
var StaffPrivilegeCodes = []string{
	"equipment:view", "equipment:create", "equipment:update",
	"category:view", "category:create",
	"loan:view", "loan:approve",
	"return:view", "return:approve", "fine:pay",
	"dashboard:view",
}

// BorrowerPrivilegeCodes lists what the PEMINJAM role receives by default
var BorrowerPrivilegeCodes = []string{
	"equipment:view", "category:view",
	"loan:request", "return:request",
}
