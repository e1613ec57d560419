package portal

// ItCost is an IT operating cost: a recurring contract such as maintenance,
// a license or a service, and its budget.
type ItCost struct {
	// ID is the IT cost management number. It is assigned by the API.
	ID string `json:"itMngcNo,omitempty"`
	// Seq is the version of the record.
	Seq int `json:"itMngcSno,omitempty"`
	// Latest is "Y" for the current version of the record.
	Latest string `json:"lstYn,omitempty"`
	// ExpenseCategory is the name of the expense category.
	ExpenseCategory string `json:"ioeNm,omitempty"`
	ContractName    string `json:"cttNm,omitempty"`
	ContractType    string `json:"cttTp,omitempty"`
	Vendor          string `json:"cttOpp,omitempty"`
	// Budget is never omitted; a zero budget is a valid budget.
	Budget float64 `json:"itMngcBg"`
	// PaymentCycle is monthly, quarterly, yearly and so on.
	PaymentCycle     string  `json:"dfrCle,omitempty"`
	FirstPaymentDate string  `json:"fstDfrDt,omitempty"`
	Currency         string  `json:"cur,omitempty"`
	ExchangeRate     float64 `json:"xcr,omitempty"`
	ExchangeRateDate string  `json:"xcrBseDt,omitempty"`
	InfoProtection   string  `json:"infPrtYn,omitempty"`
	// ChangeReason explains the change from the previous year's budget.
	ChangeReason string `json:"indRsn,omitempty"`
	Manager      string `json:"pulCgpr,omitempty"`
	Deleted      string `json:"delYn,omitempty"`
}

type costsBulkGetRequest struct {
	IDs []string `json:"itMngcNos"`
}
