package apimodels

import (
	"fmt"
	"sort"
	"strings"
)

type Response struct {
	Status  string      `json:"status"`            // fail/success
	Message string      `json:"message,omitempty"` // error text
	Data    interface{} `json:"data,omitempty"`    // payload
}

type ScrollerResponse struct {
	Response
	RowCount int64 `json:"row_count,omitempty"` // total rows matching the filter
}

func NewError(message string) Response {
	return Response{
		Status:  "fail",
		Message: message,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

func NewScrollerResponse(data interface{}, rowCount int64) ScrollerResponse {
	return ScrollerResponse{
		Response: Response{
			Status: "success",
			Data:   data,
		},
		RowCount: rowCount,
	}
}

type Pagination struct {
	Limit int `json:"limit"` // rows per page
	Page  int `json:"page"`  // page number (1,2,3..)
}

func (r Pagination) Validate() error {
	return nil
}

func (r Pagination) GetPage() (page, limit int) {
	page = 1
	limit = 10
	if r.Page > 0 {
		page = r.Page
	}
	if r.Limit > 0 {
		limit = r.Limit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// FieldErrors field name -> message, shown next to the form input
type FieldErrors map[string]string

func (f FieldErrors) Add(field, message string) {
	if _, exist := f[field]; exist {
		return
	}
	f[field] = message
}

// ValidationError failed step of a multi-step form
type ValidationError struct {
	Step   string      `json:"step,omitempty"`
	Fields FieldErrors `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	if e.Step != "" {
		return fmt.Sprintf("step %s: %s", e.Step, strings.Join(parts, "; "))
	}
	return strings.Join(parts, "; ")
}

// NewValidationErr nil when there are no field errors
func NewValidationErr(step string, fields FieldErrors) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Step: step, Fields: fields}
}

func NewValidationResponse(err error) Response {
	resp := NewError(err.Error())
	if vErr, ok := err.(*ValidationError); ok {
		resp.Message = "form contains errors"
		resp.Data = vErr
	}
	return resp
}
