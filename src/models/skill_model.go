package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Skill struct {
	Id                primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User              primitive.ObjectID `json:"user" bson:"user"`
	Name              string             `json:"name" bson:"name"`
	Category          string             `json:"category" bson:"category"`
	Proficiency       string             `json:"proficiency" bson:"proficiency"`
	YearsOfExperience int                `json:"yearsOfExperience" bson:"yearsOfExperience"`
	Description       string             `json:"description" bson:"description"`
	IsEndorsed        bool               `json:"isEndorsed" bson:"isEndorsed"`
	Endorsements      []Endorsement      `json:"endorsements" bson:"endorsements"`
	Certifications    []Certification    `json:"certifications" bson:"certifications"`
	Featured          bool               `json:"featured" bson:"featured"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type Endorsement struct {
	User    primitive.ObjectID `json:"user" bson:"user"`
	Message string             `json:"message" bson:"message"`
	Date    time.Time          `json:"date" bson:"date"`
}

type Certification struct {
	Name   string     `json:"name" bson:"name"`
	Issuer string     `json:"issuer" bson:"issuer"`
	Date   *time.Time `json:"date,omitempty" bson:"date,omitempty"`
	Url    string     `json:"url" bson:"url"`
}

var SkillCategories = []string{
	"Frontend", "Backend", "Database", "Mobile", "DevOps", "Cloud",
	"Testing", "Design", "Languages", "Frameworks", "Tools", "Other",
}

var SkillProficiencies = []string{"Beginner", "Intermediate", "Advanced", "Expert"}

// ValidSkillCategory reports whether the category is one of the known set.
func ValidSkillCategory(category string) bool {
	for _, c := range SkillCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidSkillProficiency reports whether the proficiency level is one of
// the known set.
func ValidSkillProficiency(proficiency string) bool {
	for _, p := range SkillProficiencies {
		if p == proficiency {
			return true
		}
	}
	return false
}

// SkillWithUser is a skill with the owning user's summary attached.
type SkillWithUser struct {
	Skill    `bson:",inline"`
	UserInfo *UserRef `json:"userInfo"`
}

// SkillCategoryCount is one bucket of the per-category aggregation.
type SkillCategoryCount struct {
	Category string `json:"_id" bson:"_id"`
	Count    int64  `json:"count" bson:"count"`
}
