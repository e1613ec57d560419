package portal

// Organization is a department of the company.
type Organization struct {
	Name string `json:"bbrNm"`
	// ParentCode is nil for a top-level department.
	ParentCode *string `json:"prlmHrkOgzCCone"`
	Code       string  `json:"prlmOgzCCone"`
}

// OrgUser is an employee of a department.
type OrgUser struct {
	DeptName string  `json:"bbrNm"`
	ID       string  `json:"eno"`
	Position *string `json:"ptCNm"`
	TeamName *string `json:"temNm"`
	Name     string  `json:"usrNm"`
}

// OrgNode is a department in the organization tree.
type OrgNode struct {
	Key      string       `json:"key"`
	Label    string       `json:"label"`
	Data     Organization `json:"data"`
	Children []*OrgNode   `json:"children"`
}

// BuildOrgTree arranges a flat list of departments into trees. A department
// whose parent code is empty, or names a department that isn't in the list,
// becomes a root, as does a department that names itself as its parent.
// Roots and children keep the order of orgs.
func BuildOrgTree(orgs []Organization) []*OrgNode {
	nodes := make(map[string]*OrgNode, len(orgs))
	for _, org := range orgs {
		nodes[org.Code] = &OrgNode{
			Key:      org.Code,
			Label:    org.Name,
			Data:     org,
			Children: []*OrgNode{},
		}
	}
	roots := []*OrgNode{}
	for _, org := range orgs {
		node := nodes[org.Code]
		if org.ParentCode != nil &&
			*org.ParentCode != "" &&
			*org.ParentCode != org.Code {
			if parent, ok := nodes[*org.ParentCode]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
