package dto

type UnitResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type WardMappingRequest struct {
	OldProvinceID    string `json:"oldProvinceId" yaml:"oldProvinceId"`
	OldDistrictID    string `json:"oldDistrictId" yaml:"oldDistrictId"`
	OldWardID        string `json:"oldWardId" yaml:"oldWardId"`
	OldAddressDetail string `json:"oldAddressDetail" yaml:"oldAddressDetail"`
	NewProvinceID    string `json:"newProvinceId" yaml:"newProvinceId"`
	NewWardID        string `json:"newWardId" yaml:"newWardId"`
}

type WardMappingResponse struct {
	ID            uint   `json:"id"`
	OldWardID     string `json:"oldWardId"`
	NewProvinceID string `json:"newProvinceId"`
	NewWardID     string `json:"newWardId"`
}
