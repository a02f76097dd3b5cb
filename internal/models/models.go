package models

import (
	"time"

	"github.com/justsurfingit/jobchat/internal/chat"
)

// JobPosting is a completed posting as stored in the relational stores.
type JobPosting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Skills      string `gorm:"type:text;not null" json:"skills"`
	Plus        string `gorm:"type:text;not null" json:"plus"`
	Location    string `gorm:"type:text;not null" json:"location"`
	Mode        string `gorm:"type:text;not null" json:"mode"`
	Salary      string `gorm:"type:text;not null" json:"salary"`
}

// NewJobPosting copies the collected fields into a new record. CreatedAt is
// left for the database to assign.
func NewJobPosting(fields chat.FieldSet) *JobPosting {
	return &JobPosting{
		Title:       fields[chat.FieldTitle],
		Description: fields[chat.FieldDescription],
		Skills:      fields[chat.FieldSkills],
		Plus:        fields[chat.FieldPlus],
		Location:    fields[chat.FieldLocation],
		Mode:        fields[chat.FieldMode],
		Salary:      fields[chat.FieldSalary],
	}
}

// Fields converts the record back into a field set.
func (j *JobPosting) Fields() chat.FieldSet {
	return chat.FieldSet{
		chat.FieldTitle:       j.Title,
		chat.FieldDescription: j.Description,
		chat.FieldSkills:      j.Skills,
		chat.FieldPlus:        j.Plus,
		chat.FieldLocation:    j.Location,
		chat.FieldMode:        j.Mode,
		chat.FieldSalary:      j.Salary,
	}
}
