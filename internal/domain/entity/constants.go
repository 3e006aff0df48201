package entity

// Status constants for Requisition
const (
	StatusPending      = "pending"
	StatusApproved     = "approved"
	StatusApprovedWait = "approved_wait"
	StatusCompleted    = "completed"
	StatusRejected     = "rejected"
)

// Requisition type constants
const (
	TypeStandard  = "standard"
	TypeDeviation = "deviation"
)

// Currency constants
const (
	CurrencyUSD = "USD"
	CurrencyZWG = "ZWG"
	CurrencyGBP = "GBP"
	CurrencyEUR = "EUR"
)

// Department constants
const (
	DepartmentIT          = "IT"
	DepartmentFinance     = "Finance"
	DepartmentHR          = "HR"
	DepartmentOperations  = "Operations"
	DepartmentProcurement = "Procurement"
	DepartmentEngineering = "Engineering"
)

// Action constants for requisition transitions
const (
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionWait     = "wait"
	ActionComplete = "complete"
)

var validCurrencies = map[string]bool{
	CurrencyUSD: true,
	CurrencyZWG: true,
	CurrencyGBP: true,
	CurrencyEUR: true,
}

var validDepartments = map[string]bool{
	DepartmentIT:          true,
	DepartmentFinance:     true,
	DepartmentHR:          true,
	DepartmentOperations:  true,
	DepartmentProcurement: true,
	DepartmentEngineering: true,
}

var validTypes = map[string]bool{
	TypeStandard:  true,
	TypeDeviation: true,
}

// IsValidCurrency returns true if the currency code is supported
func IsValidCurrency(c string) bool {
	return validCurrencies[c]
}

// IsValidDepartment returns true if the department is one of the fixed set
func IsValidDepartment(d string) bool {
	return validDepartments[d]
}

// IsValidType returns true if the requisition type is supported
func IsValidType(t string) bool {
	return validTypes[t]
}

// Departments returns the fixed set of departments
func Departments() []string {
	return []string{
		DepartmentIT,
		DepartmentFinance,
		DepartmentHR,
		DepartmentOperations,
		DepartmentProcurement,
		DepartmentEngineering,
	}
}
