package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

var ErrBadResponse = fmt.Errorf("bad response")
var ErrDuplicateIdentifier = fmt.Errorf("duplicate identifier")
var ErrInternal = fmt.Errorf("internal error")
var ErrNotFound = fmt.Errorf("not found")
var ErrInvalidConfiguration = fmt.Errorf("invalid configuration")
var ErrInvalidDocument = fmt.Errorf("invalid document")
var ErrInvalidRecord = fmt.Errorf("invalid record")
var ErrInvalidRequest = fmt.Errorf("invalid request")
var ErrNotImplemented = fmt.Errorf("not implemented")
var ErrRequest = fmt.Errorf("request error")
var ErrUnknownCollection = fmt.Errorf("unknown collection")

type myError struct {
	msg    string
	target error
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return target == m.target }

func NewDuplicateIdentifierError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrDuplicateIdentifier,
	}
}

func NewInvalidConfigurationError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrInvalidConfiguration,
	}
}

func NewInvalidDocumentError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrInvalidDocument,
	}
}

func NewInvalidRecordError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrInvalidRecord,
	}
}

func NewInvalidRequestError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrInvalidRequest,
	}
}

func NewNotFoundError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrNotFound,
	}
}

func NewUnknownCollectionError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrUnknownCollection,
	}
}

func NewErrorFromProblemReport(code int, contentType string, body []byte) error {
	report := &struct {
		Type   string `json:"type"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}{}

	err := json.Unmarshal(body, report)
	if err != nil {
		return fmt.Errorf("failed to process problem report from registry: %s", err.Error())
	}

	if report.Type == "https://diwise.io/premis-registry/errors/UnknownCollection" {
		return NewUnknownCollectionError(report.Detail)
	}

	if code == http.StatusNotFound || report.Type == "https://diwise.io/premis-registry/errors/ResourceNotFound" {
		return NewNotFoundError(report.Detail)
	}

	if report.Type == "https://diwise.io/premis-registry/errors/DuplicateIdentifier" {
		return NewDuplicateIdentifierError(report.Detail)
	}

	if report.Type == "https://diwise.io/premis-registry/errors/InvalidDocument" {
		return NewInvalidDocumentError(report.Detail)
	}

	if report.Type == "https://diwise.io/premis-registry/errors/InvalidRecord" {
		return NewInvalidRecordError(report.Detail)
	}

	if report.Type == "https://diwise.io/premis-registry/errors/InvalidRequest" {
		return NewInvalidRequestError(report.Detail)
	}

	return NewInternalError(
		fmt.Sprintf("[code: %d] unknown problem report of type \"%s\" with detail \"%s\" received",
			code, report.Type, report.Detail,
		),
		"traceID",
	)
}

//ProblemDetails stores details about a certain problem according to RFC7807
//See https://tools.ietf.org/html/rfc7807
type ProblemDetails interface {
	ContentType() string
	Type() string
	Title() string
	Detail() string
	MarshalJSON() ([]byte, error)
	WriteResponse(w http.ResponseWriter)
}

//ProblemDetailsImpl is an implementation of the ProblemDetails interface
type ProblemDetailsImpl struct {
	typ     string
	title   string
	detail  string
	code    int
	traceID string
}

const (
	//ProblemReportContentType as required by https://tools.ietf.org/html/rfc7807
	ProblemReportContentType string = "application/problem+json"
)

//DuplicateIdentifier reports that the request tries to add a record whose
//identifier is already registered
type DuplicateIdentifier struct {
	ProblemDetailsImpl
}

//NewDuplicateIdentifier creates and returns a new instance of a DuplicateIdentifier with the supplied problem detail
func NewDuplicateIdentifier(detail, traceID string) *DuplicateIdentifier {
	return &DuplicateIdentifier{
		ProblemDetailsImpl: ProblemDetailsImpl{
			typ:     "https://diwise.io/premis-registry/errors/DuplicateIdentifier",
			title:   "Duplicate Identifier",
			detail:  detail,
			code:    http.StatusConflict,
			traceID: traceID,
		},
	}
}

//ReportNewDuplicateIdentifierError creates a DuplicateIdentifier instance and sends it to the supplied http.ResponseWriter
func ReportNewDuplicateIdentifierError(w http.ResponseWriter, detail, traceID string) {
	di := NewDuplicateIdentifier(detail, traceID)
	di.WriteResponse(w)
}

//InvalidDocument reports that the request carries a document that could not be
//parsed into preservation records
type InvalidDocument struct {
	ProblemDetailsImpl
}

//NewInvalidDocument creates and returns a new instance of an InvalidDocument with the supplied problem detail
func NewInvalidDocument(detail, traceID string) *InvalidDocument {
	return &InvalidDocument{
		ProblemDetailsImpl: ProblemDetailsImpl{
			typ:     "https://diwise.io/premis-registry/errors/InvalidDocument",
			title:   "Invalid Document",
			detail:  detail,
			code:    http.StatusBadRequest,
			traceID: traceID,
		},
	}
}

//ReportNewInvalidDocument creates an InvalidDocument instance and sends it to the supplied http.ResponseWriter
func ReportNewInvalidDocument(w http.ResponseWriter, detail, traceID string) {
	id := NewInvalidDocument(detail, traceID)
	id.WriteResponse(w)
}

//InvalidRecord reports that the request carries a record fragment which does not
//meet the requirements of the operation
type InvalidRecord struct {
	ProblemDetailsImpl
}

//NewInvalidRecord creates and returns a new instance of an InvalidRecord with the supplied problem detail
func NewInvalidRecord(detail, traceID string) *InvalidRecord {
	return &InvalidRecord{
		ProblemDetailsImpl: ProblemDetailsImpl{
			typ:     "https://diwise.io/premis-registry/errors/InvalidRecord",
			title:   "Invalid Record",
			detail:  detail,
			code:    http.StatusBadRequest,
			traceID: traceID,
		},
	}
}

//ReportNewInvalidRecord creates an InvalidRecord instance and sends it to the supplied http.ResponseWriter
func ReportNewInvalidRecord(w http.ResponseWriter, detail, traceID string) {
	ir := NewInvalidRecord(detail, traceID)
	ir.WriteResponse(w)
}

//InvalidRequest reports that the request itself is malformed in some way
type InvalidRequest struct {
	ProblemDetailsImpl
}

//NewInvalidRequest creates and returns a new instance of an InvalidRequest with the supplied problem detail
func NewInvalidRequest(detail, traceID string) *InvalidRequest {
	return &InvalidRequest{
		ProblemDetailsImpl: ProblemDetailsImpl{
			typ:     "https://diwise.io/premis-registry/errors/InvalidRequest",
			title:   "Invalid Request",
			detail:  detail,
			code:    http.StatusBadRequest,
			traceID: traceID,
		},
	}
}

//ReportNewInvalidRequest creates an InvalidRequest instance and sends it to the supplied http.ResponseWriter
func ReportNewInvalidRequest(w http.ResponseWriter, detail, traceID string) {
	ir := NewInvalidRequest(detail, traceID)
	ir.WriteResponse(w)
}

//InternalError reports that there has been an error during the operation execution
type InternalError struct {
	ProblemDetailsImpl
}

func (ie InternalError) Error() string {
	return ie.detail
}

//NewInternalError creates and returns a new instance of an InternalError with the supplied problem detail
func NewInternalError(detail, traceID string) *InternalError {
	return &InternalError{
		ProblemDetailsImpl: ProblemDetailsImpl{
			typ:     "https://diwise.io/premis-registry/errors/InternalError",
			title:   "Internal Error",
			detail:  detail,
			code:    http.StatusInternalServerError,
			traceID: traceID,
		},
	}
}

//ReportNewInternalError creates an InternalError instance and sends it to the supplied http.ResponseWriter
func ReportNewInternalError(w http.ResponseWriter, detail, traceID string) {
	ie := NewInternalError(detail, traceID)
	ie.WriteResponse(w)
}

//NotFound reports that the request failed with a not found error of some kind
type NotFound struct {
	ProblemDetailsImpl
}

//NewNotFound creates and returns a new instance of a NotFound with the supplied problem detail
func NewNotFound(detail, traceID string) *NotFound {
	return &NotFound{
		ProblemDetailsImpl: ProblemDetailsImpl{
			typ:     "https://diwise.io/premis-registry/errors/ResourceNotFound",
			title:   "Not Found",
			detail:  detail,
			code:    http.StatusNotFound,
			traceID: traceID,
		},
	}
}

//ReportNotFoundError creates a NotFound instance and sends it to the supplied http.ResponseWriter
func ReportNotFoundError(w http.ResponseWriter, detail, traceID string) {
	nf := NewNotFound(detail, traceID)
	nf.WriteResponse(w)
}

type UnauthorizedRequest struct {
	ProblemDetailsImpl
}

func NewUnauthorizedRequest(detail, traceID string) *UnauthorizedRequest {
	return &UnauthorizedRequest{
		ProblemDetailsImpl: ProblemDetailsImpl{
			typ:     "https://diwise.io/premis-registry/errors/UnauthorizedRequest",
			title:   "Unauthorized Request",
			detail:  detail,
			code:    http.StatusUnauthorized,
			traceID: traceID,
		},
	}
}

func ReportUnauthorizedRequest(w http.ResponseWriter, detail, traceID string) {
	ur := NewUnauthorizedRequest(detail, traceID)
	ur.WriteResponse(w)
}

//UnknownCollection reports that the request tries to interact with an unknown record collection
type UnknownCollection struct {
	ProblemDetailsImpl
}

//NewUnknownCollection creates and returns a new instance of an UnknownCollection with the supplied problem detail
func NewUnknownCollection(detail, traceID string) *UnknownCollection {
	return &UnknownCollection{
		ProblemDetailsImpl: ProblemDetailsImpl{
			typ:     "https://diwise.io/premis-registry/errors/UnknownCollection",
			title:   "Unknown Collection",
			detail:  detail,
			code:    http.StatusNotFound,
			traceID: traceID,
		},
	}
}

//ReportUnknownCollectionError creates an UnknownCollection instance and sends it to the supplied http.ResponseWriter
func ReportUnknownCollectionError(w http.ResponseWriter, detail, traceID string) {
	uc := NewUnknownCollection(detail, traceID)
	uc.WriteResponse(w)
}

//ContentType returns the ContentType to be used when returning this problem
func (p *ProblemDetailsImpl) ContentType() string {
	return ProblemReportContentType
}

//Type returns the type URI that identifies this kind of problem
func (p *ProblemDetailsImpl) Type() string {
	return p.typ
}

//Title returns a short human readable summary of the problem
func (p *ProblemDetailsImpl) Title() string {
	return p.title
}

//Detail returns an explanation specific to this occurrence of the problem
func (p *ProblemDetailsImpl) Detail() string {
	return p.detail
}

//MarshalJSON is called when a ProblemDetailsImpl instance should be serialized to JSON
func (p *ProblemDetailsImpl) MarshalJSON() ([]byte, error) {
	var traceID *string

	if p.traceID != "" {
		traceID = &p.traceID
	}

	j, err := json.Marshal(struct {
		Type    string  `json:"type"`
		Title   string  `json:"title"`
		Detail  string  `json:"detail"`
		TraceID *string `json:"traceID,omitempty"`
	}{
		Type:    p.typ,
		Title:   p.title,
		Detail:  p.detail,
		TraceID: traceID,
	})
	if err != nil {
		return nil, err
	}

	return j, nil
}

//ResponseCode returns the HTTP response code to be used when returning a specific problem
func (p *ProblemDetailsImpl) ResponseCode() int {

	if p.code != 0 {
		return p.code
	}

	return http.StatusBadRequest
}

//WriteResponse writes the contents of this instance to a http.ResponseWriter
func (p *ProblemDetailsImpl) WriteResponse(w http.ResponseWriter) {
	w.Header().Add("Content-Type", p.ContentType())
	w.Header().Add("Content-Language", "en")
	w.WriteHeader(p.ResponseCode())

	pdbytes, err := json.MarshalIndent(p, "", "  ")
	if err == nil {
		w.Write(pdbytes)
	}
	// else write a 500 error ...
}
