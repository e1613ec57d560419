package portal

// Project is the summary of an IT project as it appears in project lists.
type Project struct {
	// ID is the project management number. It is assigned by the API.
	ID string `json:"prjMngNo,omitempty"`
	// Name is the project's name.
	Name string `json:"prjNm,omitempty"`
	// Type is the kind of project, e.g. new development or maintenance.
	Type string `json:"prjTp,omitempty"`
	// OwnerDept is the business department that sponsors the project.
	OwnerDept string `json:"svnDpm,omitempty"`
	// ITDept is the IT department responsible for the project.
	ITDept string `json:"itDpm,omitempty"`
	// Budget is the project's budget in won.
	Budget float64 `json:"prjBg,omitempty"`
	// StartDate and EndDate are formatted YYYY-MM-DD.
	StartDate string `json:"sttDt,omitempty"`
	EndDate   string `json:"endDt,omitempty"`
	// Status is the project's progress status.
	Status string `json:"prjSts,omitempty"`
	// BudgetYear is the fiscal year the budget is requested for.
	BudgetYear int `json:"bgYy,omitempty"`
	// OwnerDivision is the division above OwnerDept.
	OwnerDivision string `json:"svnHdq,omitempty"`
	// ApprovalStatus is the status of the project's approval application.
	ApprovalStatus string `json:"apfSts,omitempty"`
}

// ProjectItem is one line of a project's budget.
type ProjectItem struct {
	ID               string  `json:"gclMngNo,omitempty"`
	Seq              int     `json:"gclSno,omitempty"`
	Category         string  `json:"gclDtt,omitempty"`
	Name             string  `json:"gclNm,omitempty"`
	Quantity         float64 `json:"gclQtt,omitempty"`
	Currency         string  `json:"cur,omitempty"`
	ExchangeRate     float64 `json:"xcr,omitempty"`
	ExchangeRateDate string  `json:"xcrBseDt,omitempty"`
	// Basis explains how the amount was calculated.
	Basis string `json:"bgFdtn,omitempty"`
	// IntroductionDate is formatted YYYY-MM.
	IntroductionDate string `json:"itdDt,omitempty"`
	PaymentCycle     string `json:"dfrCle,omitempty"`
	// InfoProtection and IntegratedInfra are "Y" or "N".
	InfoProtection  string  `json:"infPrtYn,omitempty"`
	IntegratedInfra string  `json:"itrInfrYn,omitempty"`
	Latest          string  `json:"lstYn,omitempty"`
	UnitPrice       float64 `json:"upr,omitempty"`
	Amount          float64 `json:"gclAmt,omitempty"`
}

// ProjectDetail is the full description of a project. The narrative fields
// (Necessity, Description and the like) may contain HTML.
type ProjectDetail struct {
	Project `json:",inline"`

	BusinessCategory  string `json:"bzDtt,omitempty"`
	Duplicate         string `json:"dplYn,omitempty"`
	DecisionAuthority string `json:"edrt,omitempty"`
	FuturePlan        string `json:"hrfPln,omitempty"`
	ITManager         string `json:"itDpmCgpr,omitempty"`
	ITTeamLead        string `json:"itDpmTlr,omitempty"`
	MandatoryDeadline string `json:"lblFsgTlm,omitempty"`
	MainUsers         string `json:"mnUsr,omitempty"`
	Necessity         string `json:"ncs,omitempty"`
	Problems          string `json:"plm,omitempty"`
	Description       string `json:"prjDes,omitempty"`
	Feasibility       string `json:"prjPulPtt,omitempty"`
	Scope             string `json:"prjRng,omitempty"`
	Progress          string `json:"pulPsg,omitempty"`
	Rationale         string `json:"pulRsn,omitempty"`
	ReportStatus      string `json:"rprSts,omitempty"`
	CurrentState      string `json:"saf,omitempty"`
	OwnerManager      string `json:"svnDpmCgpr,omitempty"`
	OwnerTeamLead     string `json:"svnDpmTlr,omitempty"`
	TechnologyType    string `json:"tchnTp,omitempty"`
	ExpectedEffect    string `json:"xptEff,omitempty"`

	Items []ProjectItem `json:"items,omitempty"`
}

type projectsBulkGetRequest struct {
	IDs []string `json:"prjMngNos"`
}
