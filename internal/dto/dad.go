package dto

type UpdateDadProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,max=80"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"` // approved, rejected or the legacy accepted
}

// PhotoUpload is a validated image ready to be written to object storage.
type PhotoUpload struct {
	ContentType string
	Size        int64
}
