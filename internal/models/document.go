package models

// Document represents an uploaded file scoped to a case. File content is
// stored as binary data in the database; summaries are produced on demand
// and never stored.
type Document struct {
	BaseModel
	CaseID     string `gorm:"size:36;index;not null" json:"caseId"`
	UploaderID string `gorm:"size:36;index" json:"uploaderId"`
	FileName   string `gorm:"size:255;not null" json:"fileName"`
	FileType   string `gorm:"size:100" json:"fileType"`
	FileData   []byte `gorm:"type:longblob;not null" json:"-"`

	Uploader User `gorm:"foreignKey:UploaderID" json:"-"`
}
