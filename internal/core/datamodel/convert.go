package datamodel

const (
	MediaTypeDocument = "document"
	MediaTypeImage    = "image"
	MediaTypeAudio    = "audio"
	MediaTypeVideo    = "video"
)

// ConvertAction describes one supported file operation (convert, shrink,
// split, ...) between a source and a target format.
type ConvertAction struct {
	Base
	FromAction   string `json:"from_action" gorm:"column:from_action"`
	ToAction     string `json:"to_action" gorm:"column:to_action"`
	ToActionType string `json:"to_action_type" gorm:"column:to_action_type;default:document"`
}

func (ConvertAction) TableName() string {
	return "convert_actions"
}
