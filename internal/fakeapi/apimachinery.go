package fakeapi

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"

	"github.com/itportal/itportal/sdk/meta"
	"github.com/pkg/errors"
)

type inboundRequest struct {
	w             http.ResponseWriter
	r             *http.Request
	reqBodyObj    interface{}
	endpointLogic func() (interface{}, error)
	successCode   int
}

func (s *Server) serveRequest(req inboundRequest) {
	if req.reqBodyObj != nil {
		defer req.r.Body.Close()
		bodyBytes, err := ioutil.ReadAll(req.r.Body)
		if err != nil {
			writeAPIResponse(
				req.w,
				http.StatusBadRequest,
				&meta.ErrBadRequest{Reason: "Could not read request body."},
			)
			return
		}
		if err = json.Unmarshal(bodyBytes, req.reqBodyObj); err != nil {
			writeAPIResponse(
				req.w,
				http.StatusBadRequest,
				&meta.ErrBadRequest{Reason: "Request body is not valid JSON."},
			)
			return
		}
	}
	respBodyObj, err := req.endpointLogic()
	if err != nil {
		switch e := errors.Cause(err).(type) {
		case *meta.ErrAuthentication:
			writeAPIResponse(req.w, http.StatusUnauthorized, e)
		case *meta.ErrAuthorization:
			writeAPIResponse(req.w, http.StatusForbidden, e)
		case *meta.ErrBadRequest:
			writeAPIResponse(req.w, http.StatusBadRequest, e)
		case *meta.ErrNotFound:
			writeAPIResponse(req.w, http.StatusNotFound, e)
		case *meta.ErrConflict:
			writeAPIResponse(req.w, http.StatusConflict, e)
		default:
			log.Println(err)
			writeAPIResponse(
				req.w,
				http.StatusInternalServerError,
				&meta.ErrInternalServer{},
			)
		}
		return
	}
	writeAPIResponse(req.w, req.successCode, respBodyObj)
}

func writeAPIResponse(
	w http.ResponseWriter,
	statusCode int,
	response interface{},
) {
	if response == nil {
		w.WriteHeader(statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	responseBody, err := json.Marshal(response)
	if err != nil {
		log.Println(errors.Wrap(err, "error marshaling response body"))
	}
	if _, err := w.Write(responseBody); err != nil {
		log.Println(errors.Wrap(err, "error writing response body"))
	}
}
