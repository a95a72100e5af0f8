package models

// MessageChannel selects the audience of a case message. The doctor channel
// is visible only to the case's assigned doctors, never the patient.
type MessageChannel string

const (
	ChannelGeneral MessageChannel = "general"
	ChannelDoctor  MessageChannel = "doctor"
)

// MessageTag is the fixed annotation vocabulary for chat messages.
type MessageTag string

const (
	TagImportant MessageTag = "important"
	TagQuestion  MessageTag = "question"
	TagFollowUp  MessageTag = "followup"
)

// ValidTag reports whether a tag value belongs to the fixed vocabulary.
// The empty string is valid and means "no tag".
func ValidTag(tag string) bool {
	switch MessageTag(tag) {
	case "", TagImportant, TagQuestion, TagFollowUp:
		return true
	}
	return false
}

// Message represents a case-scoped chat entry. Messages are append-only;
// only the tag and reply reference may be attached after creation.
type Message struct {
	BaseModel
	CaseID     string         `gorm:"size:36;index;not null" json:"caseId"`
	SenderID   string         `gorm:"size:36;index;not null" json:"senderId"`
	SenderRole Role           `gorm:"size:20;not null" json:"senderRole"`
	Channel    MessageChannel `gorm:"size:20;index;default:'general'" json:"channel"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	Tag        MessageTag     `gorm:"size:20" json:"tag,omitempty"`
	ReplyToID  string         `gorm:"size:36" json:"replyToId,omitempty"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
