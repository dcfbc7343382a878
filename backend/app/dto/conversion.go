package dto

type TextConvertRequest struct {
	Addresses []string `json:"addresses"`
}

// TextConvertResult is the conversion of one input line.
type TextConvertResult struct {
	OldAddress   string   `json:"oldAddress"`
	NewAddresses []string `json:"newAddresses"`
	IsError      bool     `json:"isError,omitempty"`
	IsWarning    bool     `json:"isWarning,omitempty"`
	Message      string   `json:"message,omitempty"`
}

type ExcelConvertResult struct {
	ConvertedFileName string `json:"convertedFileName"`
	FileSize          int64  `json:"fileSize"`
	ConvertedFileURL  string `json:"convertedFileUrl"`
}

type ZipRequest struct {
	URLs []string `json:"urls"`
}
