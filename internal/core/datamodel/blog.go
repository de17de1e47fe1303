package datamodel

type Blog struct {
	Base
	Name        string `json:"name" gorm:"column:name;not null"`
	Description string `json:"description" gorm:"column:description"`
	Image       string `json:"image" gorm:"column:image"`
	Keywords    string `json:"keywords" gorm:"column:keywords"`
}

func (Blog) TableName() string {
	return "blogs"
}

type Contact struct {
	Base
	Question string `json:"question" gorm:"column:question;not null"`
	Message  string `json:"message" gorm:"column:message;not null"`
	Email    string `json:"email" gorm:"column:email;not null"`
}

func (Contact) TableName() string {
	return "contacts"
}
