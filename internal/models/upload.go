package models

type FileUploadResponse struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

type MultipleFileUploadResponse struct {
	Files []*FileUploadResponse `json:"files"`
	Count int                   `json:"count"`
}
