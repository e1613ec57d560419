package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/itportal/itportal/sdk/meta"
	"github.com/pkg/errors"
)

// Names of the collections a Server stores.
const (
	Projects     = "projects"
	Costs        = "cost"
	Applications = "applications"
)

// Organization is a department as the organizations endpoint returns it.
type Organization struct {
	Name       string  `json:"bbrNm"`
	ParentCode *string `json:"prlmHrkOgzCCone"`
	Code       string  `json:"prlmOgzCCone"`
}

// OrgUser is an employee as the users endpoint returns it.
type OrgUser struct {
	DeptName string  `json:"bbrNm"`
	ID       string  `json:"eno"`
	Position *string `json:"ptCNm"`
	TeamName *string `json:"temNm"`
	Name     string  `json:"usrNm"`
}

type approver struct {
	Seq     int    `json:"dcdSqn"`
	ID      string `json:"dcdEno"`
	Type    string `json:"dcdTp"`
	Date    string `json:"dcdDt"`
	Opinion string `json:"dcdOpnn"`
	Status  string `json:"dcdSts,omitempty"`
}

type createApplicationRequest struct {
	Name        string   `json:"apfNm"`
	Detail      string   `json:"apfDtlCone"`
	RequesterID string   `json:"rqsEno"`
	Opinion     string   `json:"rqsOpnn"`
	ApproverIDs []string `json:"approverEnos"`
}

type bulkApprovalItem struct {
	ApplicationID string `json:"apfMngNo"`
	ApproverID    string `json:"dcdEno"`
	Opinion       string `json:"dcdOpnn"`
	Status        string `json:"dcdSts"`
}

type collection struct {
	idField string
	prefix  string
	seq     int
	order   []string
	items   map[string]map[string]interface{}
}

func newCollection(idField, prefix string) *collection {
	return &collection{
		idField: idField,
		prefix:  prefix,
		items:   map[string]map[string]interface{}{},
	}
}

func (c *collection) put(item map[string]interface{}) string {
	id, _ := item[c.idField].(string)
	if id == "" {
		c.seq++
		id = fmt.Sprintf("%s-%04d", c.prefix, c.seq)
		item[c.idField] = id
	}
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = item
	return id
}

func (c *collection) list() []map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, c.items[id])
	}
	return items
}

func (c *collection) delete(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Seed stores obj, which must marshal to a JSON object, in the named
// collection and returns its identifier. An identifier is assigned when obj
// doesn't carry one.
func (s *Server) Seed(collectionName string, obj interface{}) (string, error) {
	item, err := toMap(obj)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[collectionName]
	if !ok {
		return "", errors.Errorf("no collection named %q", collectionName)
	}
	return c.put(item), nil
}

// Item returns a stored item from the named collection.
func (s *Server) Item(
	collectionName string,
	id string,
) (map[string]interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[collectionName]
	if !ok {
		return nil, false
	}
	item, ok := c.items[id]
	return item, ok
}

// AddOrganization registers a department. An empty parentCode makes it a
// top-level department.
func (s *Server) AddOrganization(code, parentCode, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	org := Organization{
		Name: name,
		Code: code,
	}
	if parentCode != "" {
		org.ParentCode = &parentCode
	}
	s.organizations = append(s.organizations, org)
}

// AddOrgUser registers an employee in the department with the specified code.
func (s *Server) AddOrgUser(orgCode string, orgUser OrgUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgUsers[orgCode] = append(s.orgUsers[orgCode], orgUser)
}

func (s *Server) registerResourceEndpoints(router *mux.Router) {
	s.registerCollectionEndpoints(router, "/api/projects", Projects, "prjMngNos")
	s.registerCollectionEndpoints(router, "/api/cost", Costs, "itMngcNos")

	// List applications
	router.HandleFunc(
		"/api/applications",
		s.tokenAuthFilter(s.listHandler(Applications)),
	).Methods(http.MethodGet)

	// Create application
	router.HandleFunc(
		"/api/applications",
		s.tokenAuthFilter(s.createApplication),
	).Methods(http.MethodPost)

	// Approve or reject applications
	router.HandleFunc(
		"/api/applications/bulk-approve",
		s.tokenAuthFilter(s.bulkApprove),
	).Methods(http.MethodPost)

	// List organizations
	router.HandleFunc(
		"/api/organizations",
		s.tokenAuthFilter(s.listOrganizations),
	).Methods(http.MethodGet)

	// List users of an organization
	router.HandleFunc(
		"/api/users",
		s.tokenAuthFilter(s.listOrgUsers),
	).Methods(http.MethodGet)
}

func (s *Server) registerCollectionEndpoints(
	router *mux.Router,
	path string,
	collectionName string,
	bulkKey string,
) {
	// Bulk get
	router.HandleFunc(
		path+"/bulk-get",
		s.tokenAuthFilter(s.bulkGetHandler(collectionName, bulkKey)),
	).Methods(http.MethodPost)

	// List
	router.HandleFunc(
		path,
		s.tokenAuthFilter(s.listHandler(collectionName)),
	).Methods(http.MethodGet)

	// Create
	router.HandleFunc(
		path,
		s.tokenAuthFilter(s.createHandler(collectionName)),
	).Methods(http.MethodPost)

	// Get
	router.HandleFunc(
		path+"/{id}",
		s.tokenAuthFilter(s.getHandler(collectionName)),
	).Methods(http.MethodGet)

	// Update
	router.HandleFunc(
		path+"/{id}",
		s.tokenAuthFilter(s.updateHandler(collectionName)),
	).Methods(http.MethodPut)

	// Delete
	router.HandleFunc(
		path+"/{id}",
		s.tokenAuthFilter(s.deleteHandler(collectionName)),
	).Methods(http.MethodDelete)
}

func (s *Server) listHandler(collectionName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serveRequest(
			inboundRequest{
				w: w,
				r: r,
				endpointLogic: func() (interface{}, error) {
					s.mu.Lock()
					defer s.mu.Unlock()
					return s.collections[collectionName].list(), nil
				},
				successCode: http.StatusOK,
			},
		)
	}
}

func (s *Server) getHandler(collectionName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serveRequest(
			inboundRequest{
				w: w,
				r: r,
				endpointLogic: func() (interface{}, error) {
					id := mux.Vars(r)["id"]
					s.mu.Lock()
					defer s.mu.Unlock()
					item, ok := s.collections[collectionName].items[id]
					if !ok {
						return nil, &meta.ErrNotFound{Type: collectionName, ID: id}
					}
					return item, nil
				},
				successCode: http.StatusOK,
			},
		)
	}
}

func (s *Server) bulkGetHandler(
	collectionName string,
	bulkKey string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := map[string][]string{}
		s.serveRequest(
			inboundRequest{
				w:          w,
				r:          r,
				reqBodyObj: &req,
				endpointLogic: func() (interface{}, error) {
					s.mu.Lock()
					defer s.mu.Unlock()
					c := s.collections[collectionName]
					items := []map[string]interface{}{}
					for _, id := range req[bulkKey] {
						if item, ok := c.items[id]; ok {
							items = append(items, item)
						}
					}
					return items, nil
				},
				successCode: http.StatusOK,
			},
		)
	}
}

func (s *Server) createHandler(collectionName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item := map[string]interface{}{}
		s.serveRequest(
			inboundRequest{
				w:          w,
				r:          r,
				reqBodyObj: &item,
				endpointLogic: func() (interface{}, error) {
					s.mu.Lock()
					defer s.mu.Unlock()
					c := s.collections[collectionName]
					if id, _ := item[c.idField].(string); id != "" {
						if _, exists := c.items[id]; exists {
							return nil, &meta.ErrConflict{
								Reason: fmt.Sprintf("%s %q already exists", collectionName, id),
							}
						}
					}
					c.put(item)
					return item, nil
				},
				successCode: http.StatusCreated,
			},
		)
	}
}

func (s *Server) updateHandler(collectionName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patch := map[string]interface{}{}
		s.serveRequest(
			inboundRequest{
				w:          w,
				r:          r,
				reqBodyObj: &patch,
				endpointLogic: func() (interface{}, error) {
					id := mux.Vars(r)["id"]
					s.mu.Lock()
					defer s.mu.Unlock()
					c := s.collections[collectionName]
					item, ok := c.items[id]
					if !ok {
						return nil, &meta.ErrNotFound{Type: collectionName, ID: id}
					}
					for k, v := range patch {
						item[k] = v
					}
					item[c.idField] = id
					return item, nil
				},
				successCode: http.StatusOK,
			},
		)
	}
}

func (s *Server) deleteHandler(collectionName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serveRequest(
			inboundRequest{
				w: w,
				r: r,
				endpointLogic: func() (interface{}, error) {
					id := mux.Vars(r)["id"]
					s.mu.Lock()
					defer s.mu.Unlock()
					if !s.collections[collectionName].delete(id) {
						return nil, &meta.ErrNotFound{Type: collectionName, ID: id}
					}
					return nil, nil
				},
				successCode: http.StatusOK,
			},
		)
	}
}

func (s *Server) createApplication(w http.ResponseWriter, r *http.Request) {
	req := createApplicationRequest{}
	s.serveRequest(
		inboundRequest{
			w:          w,
			r:          r,
			reqBodyObj: &req,
			endpointLogic: func() (interface{}, error) {
				if len(req.ApproverIDs) == 0 {
					return nil, &meta.ErrBadRequest{Reason: "At least one approver is required"}
				}
				approvers := make([]approver, len(req.ApproverIDs))
				for i, id := range req.ApproverIDs {
					approvers[i] = approver{
						Seq:  i + 1,
						ID:   id,
						Type: "결재",
					}
				}
				item, err := toMap(
					struct {
						createApplicationRequest
						Status    string     `json:"apfSts"`
						Date      string     `json:"rqsDt"`
						Approvers []approver `json:"approvers"`
					}{
						createApplicationRequest: req,
						Status:                   "결재중",
						Date:                     time.Now().Format("2006-01-02"),
						Approvers:                approvers,
					},
				)
				if err != nil {
					return nil, err
				}
				delete(item, "approverEnos")
				s.mu.Lock()
				defer s.mu.Unlock()
				s.collections[Applications].put(item)
				return item, nil
			},
			successCode: http.StatusCreated,
		},
	)
}

func (s *Server) bulkApprove(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Approvals []bulkApprovalItem `json:"approvals"`
	}{}
	s.serveRequest(
		inboundRequest{
			w:          w,
			r:          r,
			reqBodyObj: &req,
			endpointLogic: func() (interface{}, error) {
				s.mu.Lock()
				defer s.mu.Unlock()
				c := s.collections[Applications]
				for _, approval := range req.Approvals {
					item, ok := c.items[approval.ApplicationID]
					if !ok {
						return nil, &meta.ErrNotFound{
							Type: Applications,
							ID:   approval.ApplicationID,
						}
					}
					if err := applyDecision(item, approval); err != nil {
						return nil, err
					}
				}
				return nil, nil
			},
			successCode: http.StatusOK,
		},
	)
}

// applyDecision records one approver's decision on a stored application and
// recomputes the application's status.
func applyDecision(
	item map[string]interface{},
	decision bulkApprovalItem,
) error {
	approvers := []approver{}
	if err := remarshal(item["approvers"], &approvers); err != nil {
		return err
	}
	found := false
	for i := range approvers {
		if approvers[i].ID == decision.ApproverID {
			approvers[i].Status = decision.Status
			approvers[i].Opinion = decision.Opinion
			approvers[i].Date = time.Now().Format("2006-01-02")
			found = true
		}
	}
	if !found {
		return &meta.ErrAuthorization{
			Reason: fmt.Sprintf("%s is not an approver", decision.ApproverID),
		}
	}
	status := "결재완료"
	for _, a := range approvers {
		if a.Status == "반려" {
			status = "반려"
			break
		}
		if a.Status != "승인" {
			status = "결재중"
		}
	}
	item["apfSts"] = status
	var generic interface{}
	if err := remarshal(approvers, &generic); err != nil {
		return err
	}
	item["approvers"] = generic
	return nil
}

func (s *Server) listOrganizations(w http.ResponseWriter, r *http.Request) {
	s.serveRequest(
		inboundRequest{
			w: w,
			r: r,
			endpointLogic: func() (interface{}, error) {
				s.mu.Lock()
				defer s.mu.Unlock()
				orgs := make([]Organization, len(s.organizations))
				copy(orgs, s.organizations)
				return orgs, nil
			},
			successCode: http.StatusOK,
		},
	)
}

func (s *Server) listOrgUsers(w http.ResponseWriter, r *http.Request) {
	s.serveRequest(
		inboundRequest{
			w: w,
			r: r,
			endpointLogic: func() (interface{}, error) {
				orgCode := r.URL.Query().Get("orgCode")
				s.mu.Lock()
				defer s.mu.Unlock()
				users := append([]OrgUser{}, s.orgUsers[orgCode]...)
				return users, nil
			},
			successCode: http.StatusOK,
		},
	)
}

func toMap(obj interface{}) (map[string]interface{}, error) {
	item := map[string]interface{}{}
	if err := remarshal(obj, &item); err != nil {
		return nil, err
	}
	return item, nil
}

func remarshal(in interface{}, out interface{}) error {
	objBytes, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "error marshaling object")
	}
	return errors.Wrap(
		json.Unmarshal(objBytes, out),
		"error unmarshaling object",
	)
}
