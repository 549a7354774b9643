package models

// UploadRequest is the body sent to the upload endpoint
type UploadRequest struct {
	FileName    string `json:"fileName"`
	FileContent string `json:"fileContent"` // base64
	ModID       string `json:"modId"`
}

// UploadResponse is the upload endpoint's reply.
// FileContent is only meaningful when Uploaded is true.
type UploadResponse struct {
	FileID      string `json:"fileId,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	ModID       string `json:"modId,omitempty"`
	FileContent string `json:"fileContent"`
	Uploaded    bool   `json:"uploaded"`
}
