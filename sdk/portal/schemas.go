package portal

import (
	"encoding/json"
	"fmt"

	"github.com/itportal/itportal/sdk/meta"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

const datePattern = `"^[0-9]{4}-[0-9]{2}-[0-9]{2}$"`

const yesNo = `{ "type": "string", "enum": ["Y", "N"] }`

const currency = `{ "type": "string", "pattern": "^[A-Z]{3}$" }`

var projectItemSchema = fmt.Sprintf(`{
	"type": "object",
	"required": ["gclNm"],
	"properties": {
		"gclMngNo": { "type": "string" },
		"gclSno": { "type": "integer" },
		"gclDtt": { "type": "string" },
		"gclNm": { "type": "string", "minLength": 1 },
		"gclQtt": { "type": "number", "minimum": 0 },
		"cur": %s,
		"xcr": { "type": "number", "minimum": 0 },
		"xcrBseDt": { "type": "string", "pattern": %s },
		"bgFdtn": { "type": "string" },
		"itdDt": { "type": "string" },
		"dfrCle": { "type": "string" },
		"infPrtYn": %s,
		"itrInfrYn": %s,
		"lstYn": %s,
		"upr": { "type": "number", "minimum": 0 },
		"gclAmt": { "type": "number", "minimum": 0 }
	}
}`, currency, datePattern, yesNo, yesNo, yesNo)

var projectProperties = fmt.Sprintf(`{
	"prjMngNo": { "type": "string" },
	"prjNm": { "type": "string", "minLength": 1, "maxLength": 200 },
	"prjTp": { "type": "string", "minLength": 1 },
	"svnDpm": { "type": "string", "minLength": 1 },
	"itDpm": { "type": "string" },
	"prjBg": { "type": "number", "minimum": 0 },
	"sttDt": { "type": "string", "pattern": %s },
	"endDt": { "type": "string", "pattern": %s },
	"prjSts": { "type": "string" },
	"bgYy": { "type": "integer", "minimum": 1900, "maximum": 2999 },
	"svnHdq": { "type": "string" },
	"apfSts": { "type": "string" },
	"dplYn": %s,
	"items": { "type": "array", "items": %s }
}`, datePattern, datePattern, yesNo, projectItemSchema)

var costProperties = fmt.Sprintf(`{
	"itMngcNo": { "type": "string" },
	"itMngcSno": { "type": "integer" },
	"lstYn": %s,
	"ioeNm": { "type": "string", "minLength": 1 },
	"cttNm": { "type": "string", "minLength": 1 },
	"cttTp": { "type": "string" },
	"cttOpp": { "type": "string" },
	"itMngcBg": { "type": "number", "minimum": 0 },
	"dfrCle": { "type": "string" },
	"fstDfrDt": { "type": "string" },
	"cur": %s,
	"xcr": { "type": "number", "minimum": 0 },
	"xcrBseDt": { "type": "string", "pattern": %s },
	"infPrtYn": %s,
	"indRsn": { "type": "string" },
	"pulCgpr": { "type": "string" },
	"delYn": %s
}`, yesNo, currency, datePattern, yesNo, yesNo)

var (
	projectCreateSchema = mustCompileSchema(fmt.Sprintf(
		`{ "type": "object", "required": ["prjNm", "prjTp", "svnDpm", "bgYy"], "properties": %s }`,
		projectProperties,
	))
	projectUpdateSchema = mustCompileSchema(fmt.Sprintf(
		`{ "type": "object", "properties": %s }`,
		projectProperties,
	))
	costCreateSchema = mustCompileSchema(fmt.Sprintf(
		`{ "type": "object", "required": ["ioeNm", "cttNm", "itMngcBg"], "properties": %s }`,
		costProperties,
	))
	costUpdateSchema = mustCompileSchema(fmt.Sprintf(
		`{ "type": "object", "properties": %s }`,
		costProperties,
	))
	applicationSchema = mustCompileSchema(`{
		"type": "object",
		"required": ["apfNm", "rqsEno", "approverEnos"],
		"properties": {
			"apfNm": { "type": "string", "minLength": 1 },
			"apfDtlCone": { "type": "string" },
			"orcTbCd": { "type": "string" },
			"orcPkVl": { "type": "string" },
			"orcSnoVl": { "type": "string" },
			"rqsEno": { "type": "string", "minLength": 1 },
			"rqsOpnn": { "type": "string" },
			"approverEnos": {
				"type": "array",
				"minItems": 1,
				"items": { "type": "string", "minLength": 1 }
			}
		}
	}`)
	bulkApprovalSchema = mustCompileSchema(`{
		"type": "object",
		"required": ["approvals"],
		"properties": {
			"approvals": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["apfMngNo", "dcdEno", "dcdSts"],
					"properties": {
						"apfMngNo": { "type": "string", "minLength": 1 },
						"dcdEno": { "type": "string", "minLength": 1 },
						"dcdOpnn": { "type": "string" },
						"dcdSts": { "type": "string", "enum": ["승인", "반려"] }
					}
				}
			}
		}
	}`)
)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(errors.Wrap(err, "error compiling payload schema"))
	}
	return compiled
}

// validate checks a request body against a schema before it is sent. bodyObj
// may be raw JSON bytes or anything that marshals to JSON. The returned bytes
// are what should be sent.
func validate(schema *gojsonschema.Schema, bodyObj interface{}) ([]byte, error) {
	bodyBytes, ok := bodyObj.([]byte)
	if !ok {
		var err error
		if bodyBytes, err = json.Marshal(bodyObj); err != nil {
			return nil, errors.Wrap(err, "error marshaling request body")
		}
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(bodyBytes))
	if err != nil {
		return nil, &meta.ErrBadRequest{
			Reason:  "Could not validate request body.",
			Details: []string{err.Error()},
		}
	}
	if !result.Valid() {
		details := make([]string, len(result.Errors()))
		for i, verr := range result.Errors() {
			details[i] = verr.String()
		}
		return nil, &meta.ErrBadRequest{
			Reason:  "Request body failed JSON validation",
			Details: details,
		}
	}
	return bodyBytes, nil
}
