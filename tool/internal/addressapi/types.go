package addressapi

import "strings"

// ExcelResult is the server's answer for one uploaded spreadsheet.
type ExcelResult struct {
	ConvertedFileName string `json:"convertedFileName"`
	FileSize          int64  `json:"fileSize"`
	ConvertedFileURL  string `json:"convertedFileUrl"`
}

// Status is the confidence of one text conversion.
type Status int

const (
	StatusSuccess Status = iota
	StatusWarning
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusWarning:
		return "uncertain"
	case StatusError:
		return "error"
	default:
		return "success"
	}
}

// TextResult is the conversion of one input line.
type TextResult struct {
	OldAddress   string   `json:"oldAddress"`
	NewAddresses []string `json:"newAddresses"`
	IsError      bool     `json:"isError,omitempty"`
	IsWarning    bool     `json:"isWarning,omitempty"`
	Message      string   `json:"message,omitempty"`
}

func (r TextResult) Status() Status {
	switch {
	case r.IsError:
		return StatusError
	case r.IsWarning:
		return StatusWarning
	default:
		return StatusSuccess
	}
}

// DisplayText prefers the converted candidates over the original line.
func (r TextResult) DisplayText() string {
	if len(r.NewAddresses) > 0 {
		return strings.Join(r.NewAddresses, "\n")
	}
	return r.OldAddress
}

// Unit is one administrative unit (province, district or ward).
type Unit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WardMappingRequest declares one old -> new correspondence.
type WardMappingRequest struct {
	OldProvinceID    string `json:"oldProvinceId"`
	OldDistrictID    string `json:"oldDistrictId"`
	OldWardID        string `json:"oldWardId"`
	OldAddressDetail string `json:"oldAddressDetail"`
	NewProvinceID    string `json:"newProvinceId"`
	NewWardID        string `json:"newWardId"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type textRequest struct {
	Addresses []string `json:"addresses"`
}

type zipRequest struct {
	URLs []string `json:"urls"`
}
