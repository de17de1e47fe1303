package datamodel

// Config is a key/value application setting (sender identity, feature toggles).
type Config struct {
	Base
	KeyName     string `json:"key_name" gorm:"column:key_name;uniqueIndex;not null"`
	Title       string `json:"title" gorm:"column:title"`
	Value       string `json:"value" gorm:"column:value"`
	Description string `json:"description" gorm:"column:description"`
}

func (Config) TableName() string {
	return "configs"
}

// EmailTemplate is a stored HTML body with {merge_tag} tokens filled by exact
// substring replacement at send time.
type EmailTemplate struct {
	Base
	KeyName  string `json:"key_name" gorm:"column:key_name;uniqueIndex"`
	Title    string `json:"title" gorm:"column:title"`
	Template string `json:"template" gorm:"column:template"`
}

func (EmailTemplate) TableName() string {
	return "email_templates"
}
