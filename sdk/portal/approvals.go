package portal

// Statuses of an approval application.
const (
	ApplicationStatusDraft      = "임시저장"
	ApplicationStatusInProgress = "결재중"
	ApplicationStatusApproved   = "결재완료"
	ApplicationStatusRejected   = "반려"
)

// Decisions an approver can record.
const (
	DecisionApprove = "승인"
	DecisionReject  = "반려"
)

// Approver is one step of an application's approval line.
type Approver struct {
	// Seq is the approver's position in the line, starting at 1.
	Seq     int    `json:"dcdSqn"`
	ID      string `json:"dcdEno"`
	Type    string `json:"dcdTp"`
	Date    string `json:"dcdDt"`
	Opinion string `json:"dcdOpnn"`
	// Decision is empty until the approver has decided.
	Decision string `json:"dcdSts,omitempty"`
}

// Approval is an application submitted for approval, e.g. a budget request.
type Approval struct {
	Name        string `json:"apfNm"`
	ID          string `json:"apfMngNo"`
	Status      string `json:"apfSts"`
	RequesterID string `json:"rqsEno"`
	RequestDate string `json:"rqsDt"`
	Opinion     string `json:"rqsOpnn"`
	// Detail is a JSON document serialized as a string.
	Detail string `json:"apfDtlCone,omitempty"`
	// Approvers are ordered by Seq.
	Approvers []Approver `json:"approvers"`
}

// CreateApplicationRequest submits a record of another table for approval.
type CreateApplicationRequest struct {
	Name   string `json:"apfNm"`
	Detail string `json:"apfDtlCone,omitempty"`
	// SourceTable, SourceID and SourceSeq identify the record the
	// application is about.
	SourceTable string `json:"orcTbCd,omitempty"`
	SourceID    string `json:"orcPkVl,omitempty"`
	SourceSeq   string `json:"orcSnoVl,omitempty"`
	RequesterID string `json:"rqsEno"`
	Opinion     string `json:"rqsOpnn,omitempty"`
	// ApproverIDs are employee numbers in approval order.
	ApproverIDs []string `json:"approverEnos"`
}

// BulkApprovalItem records one approver's decision on one application.
type BulkApprovalItem struct {
	ApplicationID string `json:"apfMngNo"`
	ApproverID    string `json:"dcdEno"`
	Opinion       string `json:"dcdOpnn,omitempty"`
	Decision      string `json:"dcdSts"`
}

type bulkApprovalRequest struct {
	Approvals []BulkApprovalItem `json:"approvals"`
}
